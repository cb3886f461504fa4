// Package analysis orchestrates the document analysis pipeline: section
// classification, entity extraction, gap scoring, metadata aggregation,
// profile building, then scheme matching and completion probability in
// parallel. Finished reports are handed to optional best-effort sinks.
package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/history"
	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/entity_extractor"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/feature_aggregator"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/gap_analyzer"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/probability"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/profile"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/scheme_matcher"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/section_classifier"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// Stage names used in logs and the stage duration histogram.
const (
	StageClassify    = "classify"
	StageExtract     = "extract"
	StageGap         = "gap"
	StageAggregate   = "aggregate"
	StageProfile     = "profile"
	StageSchemes     = "schemes"
	StageProbability = "probability"
	StageSession     = "session"
)

const (
	DefaultTimeout      = 30 * time.Second
	DefaultHistoryLimit = 20
	defaultSinkTimeout  = 10 * time.Second
)

// ---------------------------------------------------------------------------
// Request / Report
// ---------------------------------------------------------------------------

// Options tune a single analysis.
type Options struct {
	Classifier *section_classifier.Options `json:"classifier,omitempty"`
	// SkipSchemes leaves Schemes nil and skips the registry read.
	SkipSchemes bool `json:"skip_schemes,omitempty"`
	// OpenSession starts a what-if session seeded with the derived profile.
	OpenSession bool `json:"open_session,omitempty"`
}

// AnalyzeRequest is one already-extracted document plus the structured fields
// the submitter knows.
type AnalyzeRequest struct {
	DocumentID       string               `json:"document_id"`
	RequestID        string               `json:"request_id,omitempty"`
	Text             string               `json:"text"`
	Structured       dpr.StructuredFields `json:"structured"`
	MentionedSchemes []string             `json:"mentioned_schemes,omitempty"`
	RiskFactors      []dpr.RiskFactor     `json:"risk_factors,omitempty"`
	Options          Options              `json:"options"`
}

// AnalysisReport is the full pipeline output.
type AnalysisReport struct {
	ID             string                                    `json:"id"`
	DocumentID     string                                    `json:"document_id"`
	CreatedAt      time.Time                                 `json:"created_at"`
	Classification *section_classifier.ClassificationResult  `json:"classification"`
	Extraction     *entity_extractor.ExtractionResult        `json:"extraction"`
	Gap            *gap_analyzer.GapAnalysisResult           `json:"gap"`
	Metadata       *feature_aggregator.SearchMetadata        `json:"metadata"`
	Features       dpr.ProjectFeatures                       `json:"features"`
	Risks          []dpr.RiskFactor                          `json:"risks"`
	Schemes        *scheme_matcher.SchemeGapAnalysis         `json:"schemes,omitempty"`
	Probability    *probability.ProbabilityCalculationResult `json:"probability"`
	SessionID      string                                    `json:"session_id,omitempty"`
	DurationMs     int64                                     `json:"duration_ms"`
}

// ---------------------------------------------------------------------------
// Service
// ---------------------------------------------------------------------------

// Config holds service-level settings.
type Config struct {
	Timeout      time.Duration
	HistoryLimit int
	SinkTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.HistoryLimit <= 0 {
		c.HistoryLimit = DefaultHistoryLimit
	}
	if c.SinkTimeout <= 0 {
		c.SinkTimeout = defaultSinkTimeout
	}
	return c
}

// Dependencies wires the service. Components and Schemes fall back to
// defaults when nil; every other field is optional.
type Dependencies struct {
	Components *Components
	Schemes    scheme.Repository
	History    history.Repository
	Sinks      Sinks
	Sessions   SessionStarter
	Metrics    *prometheus.PipelineMetrics
}

// Service runs analyses. It is safe for concurrent use.
type Service struct {
	c        *Components
	schemes  scheme.Repository
	sinks    Sinks
	sessions SessionStarter
	profiler *Profiler
	metrics  *prometheus.PipelineMetrics
	cfg      Config
	logger   logging.Logger
	now      func() time.Time
	newID    func() string
}

// NewService builds a Service from deps.
func NewService(deps Dependencies, cfg Config, logger logging.Logger) *Service {
	logger = logging.OrNop(logger)
	c := deps.Components
	if c == nil {
		c = NewComponents(defaultAnalysisConfig(), nil, logger)
	}
	schemes := deps.Schemes
	if schemes == nil {
		schemes = scheme.NewMemoryRepository(scheme.BuiltinCatalog())
	}
	cfg = cfg.withDefaults()
	logger = logger.Named("analysis")
	return &Service{
		c:        c,
		schemes:  schemes,
		sinks:    deps.Sinks,
		sessions: deps.Sessions,
		profiler: NewProfiler(c, deps.History, cfg.HistoryLimit, logger),
		metrics:  deps.Metrics,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		newID:    func() string { return uuid.New().String() },
	}
}

// Components returns the stages the service runs.
func (s *Service) Components() *Components { return s.c }

// Analyze runs the full pipeline under the configured timeout. An empty
// DocumentID is assigned a fresh id. On success the report is passed to the
// sinks, whose failures are only logged.
func (s *Service) Analyze(ctx context.Context, req *AnalyzeRequest) (*AnalysisReport, error) {
	if req == nil {
		return nil, apperrors.New(apperrors.ErrCodeValidation, "analyze request is required")
	}
	if strings.TrimSpace(req.DocumentID) == "" {
		req.DocumentID = s.newID()
	}

	start := s.now()
	runCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	report, err := s.run(runCtx, req)
	elapsed := s.now().Sub(start)
	if err != nil {
		status := prometheus.StatusFailure
		if apperrors.IsCode(err, apperrors.ErrCodeTimeout) {
			status = prometheus.StatusTimeout
		}
		s.metrics.RecordAnalysis(status, 0, 0)
		s.logger.Error("analysis failed",
			logging.String("document_id", req.DocumentID),
			logging.String("code", string(apperrors.GetCode(err))),
			logging.Duration("elapsed", elapsed),
			logging.Err(err))
		s.notifyFailure(ctx, req, err)
		return nil, err
	}

	report.DurationMs = elapsed.Milliseconds()
	s.metrics.RecordAnalysis(prometheus.StatusSuccess, report.Gap.OverallScore, report.Probability.CompletionProbability)
	if report.Schemes != nil {
		s.metrics.RecordSchemeMatches("verified", len(report.Schemes.VerifiedSchemes))
		s.metrics.RecordSchemeMatches("unverified", len(report.Schemes.UnverifiedMentions))
		s.metrics.RecordSchemeMatches("opportunity", len(report.Schemes.MissingOpportunities))
	}
	s.logger.Info("analysis completed",
		logging.String("analysis_id", report.ID),
		logging.String("document_id", report.DocumentID),
		logging.Float64("overall_score", report.Gap.OverallScore),
		logging.Float64("completion_probability", report.Probability.CompletionProbability),
		logging.Duration("elapsed", elapsed))

	s.deliver(ctx, report)
	return report, nil
}

func (s *Service) run(ctx context.Context, req *AnalyzeRequest) (*AnalysisReport, error) {
	text := entity_extractor.Normalize(req.Text)
	report := &AnalysisReport{
		ID:         s.newID(),
		DocumentID: req.DocumentID,
		CreatedAt:  s.now().UTC(),
	}

	err := s.stage(ctx, StageClassify, apperrors.ErrCodeClassificationFailed, "classification failed", func() error {
		cls, err := s.c.Classifier.Classify(text, req.Options.Classifier)
		report.Classification = cls
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.stage(ctx, StageExtract, apperrors.ErrCodeExtractionFailed, "entity extraction failed", func() error {
		report.Extraction = s.c.Extractor.Extract(text)
		if report.Extraction == nil {
			return apperrors.New(apperrors.ErrCodeExtractionFailed, "extractor returned no result")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.stage(ctx, StageGap, apperrors.ErrCodeGapAnalysisFailed, "gap analysis failed", func() error {
		gap, err := s.c.Gap.Analyze(report.Classification.Sections, report.Extraction.Entities)
		report.Gap = gap
		return err
	})
	if err != nil {
		return nil, err
	}

	err = s.stage(ctx, StageAggregate, apperrors.ErrCodeAggregationFailed, "feature aggregation failed", func() error {
		report.Metadata = s.c.Aggregator.Aggregate(req.DocumentID, report.Classification, report.Extraction, report.Gap)
		if report.Metadata == nil {
			return apperrors.New(apperrors.ErrCodeAggregationFailed, "aggregator returned no metadata")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	err = s.stage(ctx, StageProfile, apperrors.ErrCodeProfileFailed, "profile building failed", func() error {
		report.Features, report.Risks = s.c.Profiles.Build(profile.Input{
			Text:       text,
			Extraction: report.Extraction,
			Gap:        report.Gap,
			Structured: req.Structured,
			Risks:      req.RiskFactors,
		})
		if p, ok := s.profiler.Precedent(ctx, report.Features.Sector, report.Features.State); ok {
			report.Features.HistoricalSuccessRate = p.SuccessRate
			report.Features.SimilarProjectsCount = p.Count
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.matchAndScore(ctx, req, report); err != nil {
		return nil, err
	}

	if req.Options.OpenSession && s.sessions != nil {
		err = s.stage(ctx, StageSession, apperrors.ErrCodeSimulationFailed, "simulation session failed", func() error {
			sess, err := s.sessions.StartSession(ctx, report.Features, report.Risks)
			if err != nil {
				return err
			}
			report.SessionID = sess.ID
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return report, nil
}

// matchAndScore runs scheme matching and the probability calculus
// concurrently. They share no state beyond the read-only report inputs.
func (s *Service) matchAndScore(ctx context.Context, req *AnalyzeRequest, report *AnalysisReport) error {
	g, gctx := errgroup.WithContext(ctx)

	if !req.Options.SkipSchemes {
		g.Go(func() error {
			return s.stage(gctx, StageSchemes, apperrors.ErrCodeSchemeMatchingFailed, "scheme matching failed", func() error {
				res, err := s.matchSchemes(gctx, req.MentionedSchemes, ProfileFor(report))
				report.Schemes = res
				return err
			})
		})
	}

	g.Go(func() error {
		return s.stage(gctx, StageProbability, apperrors.ErrCodeProbabilityFailed, "probability calculation failed", func() error {
			report.Probability = s.c.Calculator.CalculateCompletionProbability(report.Features, report.Risks)
			if report.Probability == nil {
				return apperrors.New(apperrors.ErrCodeProbabilityFailed, "calculator returned no result")
			}
			return nil
		})
	})

	return g.Wait()
}

// ProfileFor is the scheme discovery profile of a report.
func ProfileFor(report *AnalysisReport) scheme_matcher.ProjectProfile {
	p := scheme_matcher.ProjectProfile{
		Sector:        report.Features.Sector,
		State:         report.Features.State,
		EstimatedCost: report.Features.EstimatedCost,
	}
	if report.Metadata != nil {
		p.Description = report.Metadata.Summary
		p.Keywords = append([]string(nil), report.Metadata.Keywords...)
	}
	return p
}

func (s *Service) matchSchemes(ctx context.Context, mentions []string, p scheme_matcher.ProjectProfile) (*scheme_matcher.SchemeGapAnalysis, error) {
	registry, err := s.schemes.ListAll(ctx)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSchemeRegistryUnavailable, "scheme registry unavailable")
	}
	return s.c.Matcher.MatchSchemes(&scheme_matcher.MatchRequest{Mentions: mentions, Profile: p}, registry)
}

// stage checks ctx, times fn and wraps its error with code.
func (s *Service) stage(ctx context.Context, name string, code apperrors.ErrorCode, msg string, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeTimeout, "analysis interrupted before %s", name)
	}
	start := s.now()
	err := fn()
	d := s.now().Sub(start)
	s.metrics.ObserveStage(name, d)
	if err != nil {
		return apperrors.Wrap(err, code, msg)
	}
	s.logger.Debug("stage completed", logging.String("stage", name), logging.Duration("elapsed", d))
	return nil
}

// ---------------------------------------------------------------------------
// Single-stage operations
// ---------------------------------------------------------------------------

// Classify runs only the section classifier.
func (s *Service) Classify(text string, opts *section_classifier.Options) (*section_classifier.ClassificationResult, error) {
	res, err := s.c.Classifier.Classify(entity_extractor.Normalize(text), opts)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeClassificationFailed, "classification failed")
	}
	return res, nil
}

// Extract runs only the entity extractor.
func (s *Service) Extract(text string) *entity_extractor.ExtractionResult {
	return s.c.Extractor.Extract(text)
}

// ExtractBatch extracts several documents with bounded parallelism.
func (s *Service) ExtractBatch(ctx context.Context, texts []string) ([]*entity_extractor.ExtractionResult, error) {
	res, err := s.c.Extractor.ExtractBatch(ctx, texts)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeExtractionFailed, "batch extraction failed")
	}
	return res, nil
}

// MatchSchemes verifies mentions against the registry and discovers
// opportunities for p.
func (s *Service) MatchSchemes(ctx context.Context, mentions []string, p scheme_matcher.ProjectProfile) (*scheme_matcher.SchemeGapAnalysis, error) {
	res, err := s.matchSchemes(ctx, mentions, p)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSchemeMatchingFailed, "scheme matching failed")
	}
	s.metrics.RecordSchemeMatches("verified", len(res.VerifiedSchemes))
	s.metrics.RecordSchemeMatches("unverified", len(res.UnverifiedMentions))
	return res, nil
}

// Schemes lists the registry. activeOnly drops non-ACTIVE entries.
func (s *Service) Schemes(ctx context.Context, activeOnly bool) ([]scheme.GovernmentScheme, error) {
	var (
		list []scheme.GovernmentScheme
		err  error
	)
	if activeOnly {
		list, err = s.schemes.ListActive(ctx)
	} else {
		list, err = s.schemes.ListAll(ctx)
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSchemeRegistryUnavailable, "scheme registry unavailable")
	}
	return list, nil
}

// CalculateProbability runs the probability calculus on caller features.
func (s *Service) CalculateProbability(features dpr.ProjectFeatures, risks []dpr.RiskFactor) *probability.ProbabilityCalculationResult {
	return s.c.Calculator.CalculateCompletionProbability(features, risks)
}

// BuildProfile derives features and risks from text, running extraction
// and the precedent lookup only.
func (s *Service) BuildProfile(ctx context.Context, text string, structured dpr.StructuredFields, risks []dpr.RiskFactor) (dpr.ProjectFeatures, []dpr.RiskFactor) {
	return s.profiler.BuildProfile(ctx, text, structured, risks)
}

//Personal.AI order the ending
