package analysis

import (
	"context"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/history"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/entity_extractor"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/probability"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/profile"
)

// Profiler turns raw text into project features and risk factors without
// running the full pipeline. The simulation service uses it to open sessions
// straight from a document.
type Profiler struct {
	c       *Components
	history history.Repository
	limit   int
	logger  logging.Logger
}

// NewProfiler returns a profiler over c. hist may be nil, in which case no
// precedent is applied.
func NewProfiler(c *Components, hist history.Repository, limit int, logger logging.Logger) *Profiler {
	if c == nil {
		c = NewComponents(defaultAnalysisConfig(), nil, logger)
	}
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &Profiler{c: c, history: hist, limit: limit, logger: logging.OrNop(logger)}
}

// BuildProfile extracts entities from text and derives features and risks.
func (p *Profiler) BuildProfile(ctx context.Context, text string, structured dpr.StructuredFields, risks []dpr.RiskFactor) (dpr.ProjectFeatures, []dpr.RiskFactor) {
	norm := entity_extractor.Normalize(text)
	ext := p.c.Extractor.Extract(norm)
	f, r := p.c.Profiles.Build(profile.Input{Text: norm, Extraction: ext, Structured: structured, Risks: risks})
	if pr, ok := p.Precedent(ctx, f.Sector, f.State); ok {
		f.HistoricalSuccessRate = pr.SuccessRate
		f.SimilarProjectsCount = pr.Count
	}
	return f, r
}

// Precedent looks up comparable past projects. Lookup failures are logged
// and reported as no precedent.
func (p *Profiler) Precedent(ctx context.Context, sector, state string) (profile.Precedent, bool) {
	if p.history == nil || sector == "" {
		return profile.Precedent{}, false
	}
	projects, err := p.history.FindSimilar(ctx, sector, state, p.limit)
	if err != nil {
		p.logger.Warn("precedent lookup failed", logging.String("sector", sector), logging.Err(err))
		return profile.Precedent{}, false
	}
	rate, n := probability.PrecedentFromHistory(projects)
	if n == 0 {
		return profile.Precedent{}, false
	}
	return profile.Precedent{SuccessRate: rate, Count: n}, true
}

//Personal.AI order the ending
