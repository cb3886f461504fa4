// Package profile turns extraction and gap results into the numeric project
// features and risk factors the probability calculus consumes.
package profile

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/entity_extractor"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/gap_analyzer"
)

// Precedent summarises comparable past projects.
type Precedent struct {
	SuccessRate float64 `json:"success_rate"`
	Count       int     `json:"count"`
}

// Input bundles what Build reads. Text is the normalised document the
// extraction ran on.
type Input struct {
	Text       string
	Extraction *entity_extractor.ExtractionResult
	Gap        *gap_analyzer.GapAnalysisResult
	Structured dpr.StructuredFields
	Precedent  Precedent
	Risks      []dpr.RiskFactor
}

// Resource availability when no gap result is available.
const defaultResourceAvailability = 0.5

var sectorPatterns = []struct {
	sector string
	re     *regexp.Regexp
}{
	{"roads", regexp.MustCompile(`(?i)\b(?:road|highway|carriageway|pavement)s?\b`)},
	{"water supply", regexp.MustCompile(`(?i)\b(?:water\s+supply|drinking\s+water|piped\s+water)\b`)},
	{"irrigation", regexp.MustCompile(`(?i)\b(?:irrigation|canal|check\s+dam)s?\b`)},
	{"sanitation", regexp.MustCompile(`(?i)\b(?:sanitation|toilet|solid\s+waste)s?\b`)},
	{"sewerage", regexp.MustCompile(`(?i)\b(?:sewer(?:age)?|drainage)\b`)},
	{"power", regexp.MustCompile(`(?i)\b(?:electrification|power|substation|transmission\s+line)s?\b`)},
	{"health", regexp.MustCompile(`(?i)\b(?:hospital|health\s+cent(?:re|er)|dispensary)\b`)},
	{"education", regexp.MustCompile(`(?i)\b(?:school|college|classroom)s?\b`)},
}

// Builder is stateless and safe for concurrent use.
type Builder struct {
	logger logging.Logger
}

// NewBuilder returns a Builder.
func NewBuilder(logger logging.Logger) *Builder {
	return &Builder{logger: logging.OrNop(logger)}
}

// Build derives features and risk factors. Structured fields take precedence
// over values read from the text. Caller-supplied risks come first in the
// result and derived risks that repeat a (type, description) pair are
// dropped.
func (b *Builder) Build(in Input) (dpr.ProjectFeatures, []dpr.RiskFactor) {
	sents := splitSentences(in.Text)

	f := dpr.ProjectFeatures{
		EstimatedCost:           in.Structured.EstimatedCost,
		TechnicalComplexity:     score(sents, baseTechnical, technicalTerms),
		RegulatoryComplexity:    score(sents, baseRegulatory, regulatoryTerms),
		EnvironmentalComplexity: score(sents, baseEnvironmental, environmentalTerms),
		SiteAccessibility:       score(sents, baseAccessibility, accessibilityTerms),
		TerrainDifficulty:       score(sents, baseTerrain, terrainTerms),
		FundingSecured:          fundingSecured(sents),
		ResourceAvailability:    defaultResourceAvailability,
		HistoricalSuccessRate:   in.Precedent.SuccessRate,
		SimilarProjectsCount:    in.Precedent.Count,
		Sector:                  strings.TrimSpace(in.Structured.Sector),
		State:                   strings.TrimSpace(in.Structured.State),
	}

	if f.EstimatedCost <= 0 {
		if c, ok := in.Extraction.TotalCost(); ok {
			f.EstimatedCost = c
		}
	}
	if s, e := in.Structured.StartDate, in.Structured.EndDate; s != nil && e != nil {
		f.DurationMonths = dpr.MonthsBetween(*s, *e)
	} else if start, end, ok := in.Extraction.DateRange(); ok {
		f.DurationMonths = dpr.MonthsBetween(start, end)
	}
	if in.Gap != nil {
		f.ResourceAvailability = 0.3 + 0.6*in.Gap.TypeCompletion(dpr.SectionResources)
	}
	if f.Sector == "" {
		f.Sector = inferSector(in.Text)
	}
	if f.State == "" {
		f.State = firstState(in.Extraction)
	}
	f = f.Normalized()

	risks := mergeRisks(in.Risks, deriveRisks(in.Text, sents))

	b.logger.Debug("project profile built",
		logging.String("sector", f.Sector),
		logging.String("state", f.State),
		logging.Float64("duration_months", f.DurationMonths),
		logging.Float64("estimated_cost", f.EstimatedCost),
		logging.Int("risk_factors", len(risks)))
	return f, risks
}

// fundingSecured starts from a low baseline and rises with sanction and
// proposal language.
func fundingSecured(sents []string) float64 {
	dict := make([]term, 0, len(fundingSecuredTerms)+len(fundingProposedTerms))
	dict = append(dict, fundingSecuredTerms...)
	dict = append(dict, fundingProposedTerms...)
	return score(sents, baseFunding, dict)
}

// inferSector returns the sector with the most mentions, ties by list order.
func inferSector(text string) string {
	best, count := "", 0
	for _, p := range sectorPatterns {
		if n := len(p.re.FindAllStringIndex(text, -1)); n > count {
			best, count = p.sector, n
		}
	}
	return best
}

func firstState(ext *entity_extractor.ExtractionResult) string {
	if ext == nil {
		return ""
	}
	best, pos := "", -1
	for _, l := range ext.Locations {
		if l.LocationKind != dpr.LocationState {
			continue
		}
		if pos < 0 || l.Position < pos {
			best, pos = l.Value, l.Position
		}
	}
	return best
}

// splitSentences breaks on ! ? ; and newlines, and on a period followed by
// whitespace and an upper-case letter or the end of text. "Rs. 30" and
// "5.4" stay whole.
func splitSentences(text string) []string {
	rs := []rune(text)
	var out []string
	start := 0
	flush := func(end int) {
		if s := strings.TrimSpace(string(rs[start:end])); s != "" {
			out = append(out, s)
		}
		start = end + 1
	}
	for i, r := range rs {
		switch r {
		case '!', '?', ';', '\n':
			flush(i)
		case '.':
			j := i + 1
			for j < len(rs) && rs[j] == ' ' {
				j++
			}
			if j == len(rs) || (j > i+1 && unicode.IsUpper(rs[j])) {
				flush(i)
			}
		}
	}
	if start < len(rs) {
		flush(len(rs))
	}
	return out
}

// deriveRisks fires each trigger at most once, on its first unresolved
// sentence, and orders the result by text position then id.
func deriveRisks(text string, sents []string) []dpr.RiskFactor {
	type found struct {
		pos  int
		risk dpr.RiskFactor
	}
	var hits []found
	for _, t := range riskTriggers {
		for _, s := range sents {
			if !t.re.MatchString(s) || resolvedRe.MatchString(s) {
				continue
			}
			r := dpr.RiskFactor{
				ID:          t.id,
				Type:        t.riskType,
				Impact:      t.impact,
				Probability: t.probability,
				Description: t.description,
			}
			if mitigatedRe.MatchString(s) {
				r.Mitigation = s
			}
			pos := strings.Index(text, s)
			if pos < 0 {
				pos = len(text)
			}
			hits = append(hits, found{pos, r})
			break
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].pos != hits[j].pos {
			return hits[i].pos < hits[j].pos
		}
		return hits[i].risk.ID < hits[j].risk.ID
	})
	out := make([]dpr.RiskFactor, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.risk)
	}
	return out
}

type riskKey struct {
	t    dpr.RiskType
	desc string
}

func keyOf(r dpr.RiskFactor) riskKey {
	return riskKey{r.Type, strings.ToLower(strings.TrimSpace(r.Description))}
}

// mergeRisks keeps supplied first and appends derived risks whose
// (type, description) is new. Duplicates within supplied are dropped too.
func mergeRisks(supplied, derived []dpr.RiskFactor) []dpr.RiskFactor {
	seen := make(map[riskKey]struct{}, len(supplied)+len(derived))
	out := make([]dpr.RiskFactor, 0, len(supplied)+len(derived))
	for _, group := range [][]dpr.RiskFactor{supplied, derived} {
		for _, r := range group {
			k := keyOf(r)
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			out = append(out, r)
		}
	}
	return out
}

//Personal.AI order the ending
