// Package scheme_matcher verifies government scheme references in a DPR,
// discovers schemes the project misses and summarises the gap.
package scheme_matcher

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Config tunes matching.
type Config struct {
	FuzzyThreshold      float64 `json:"fuzzy_threshold"`
	SuggestionThreshold float64 `json:"suggestion_threshold"`
	MaxSuggestions      int     `json:"max_suggestions"`
	MinRelevance        float64 `json:"min_relevance"`
	MaxOpportunities    int     `json:"max_opportunities"`
	// HighRelevance is the bar an opportunity must clear to be recommended.
	HighRelevance float64 `json:"high_relevance"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		FuzzyThreshold:      0.8,
		SuggestionThreshold: 0.7,
		MaxSuggestions:      10,
		MinRelevance:        0.4,
		MaxOpportunities:    8,
		HighRelevance:       0.7,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.FuzzyThreshold <= 0 {
		c.FuzzyThreshold = d.FuzzyThreshold
	}
	if c.SuggestionThreshold <= 0 {
		c.SuggestionThreshold = d.SuggestionThreshold
	}
	if c.MaxSuggestions <= 0 {
		c.MaxSuggestions = d.MaxSuggestions
	}
	if c.MinRelevance <= 0 {
		c.MinRelevance = d.MinRelevance
	}
	if c.MaxOpportunities <= 0 {
		c.MaxOpportunities = d.MaxOpportunities
	}
	if c.HighRelevance <= 0 {
		c.HighRelevance = d.HighRelevance
	}
	return c
}

func roundScore(v float64) float64 { return math.Round(v*1e4) / 1e4 }

// ---------------------------------------------------------------------------
// Gap analysis types
// ---------------------------------------------------------------------------

// Severity grades the overall scheme gap.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// Recommendation categories in priority order.
const (
	RecIncorrectReference = "incorrect_reference"
	RecMissingOpportunity = "missing_opportunity"
	RecFundingGap         = "funding_gap"
	RecGeneral            = "general"
)

var recPriority = map[string]int{
	RecIncorrectReference: 1,
	RecMissingOpportunity: 2,
	RecFundingGap:         3,
	RecGeneral:            4,
}

// Recommendation is an action on the project's scheme references.
type Recommendation struct {
	Priority    int     `json:"priority"`
	Category    string  `json:"category"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	SchemeID    string  `json:"scheme_id,omitempty"`
	Relevance   float64 `json:"relevance"`
}

// MatchRequest is the input to MatchSchemes.
type MatchRequest struct {
	Mentions []string       `json:"mentions"`
	Profile  ProjectProfile `json:"profile"`
}

// SchemeGapAnalysis is the output of MatchSchemes.
type SchemeGapAnalysis struct {
	MentionedSchemes     []string             `json:"mentioned_schemes"`
	VerifiedSchemes      []VerifiedScheme     `json:"verified_schemes"`
	UnverifiedMentions   []string             `json:"unverified_mentions"`
	Suggestions          []Suggestion         `json:"suggestions"`
	MissingOpportunities []MissingOpportunity `json:"missing_opportunities"`
	IncorrectReferences  []IncorrectReference `json:"incorrect_references"`
	Accuracy             float64              `json:"accuracy"`
	Coverage             float64              `json:"coverage"`
	CompletenessScore    float64              `json:"completeness_score"`
	Severity             Severity             `json:"severity"`
	Recommendations      []Recommendation     `json:"recommendations"`
	ProcessingTimeMs     int64                `json:"processing_time_ms"`
}

// ---------------------------------------------------------------------------
// Matcher
// ---------------------------------------------------------------------------

// Matcher is stateless apart from its config and safe for concurrent use.
// The registry is passed per call so callers control caching and freshness.
type Matcher struct {
	cfg    Config
	logger logging.Logger
}

// NewMatcher builds a Matcher.
func NewMatcher(cfg Config, logger logging.Logger) *Matcher {
	return &Matcher{cfg: cfg.withDefaults(), logger: logging.OrNop(logger).Named("scheme_matcher")}
}

// Config returns the thresholds in effect.
func (m *Matcher) Config() Config { return m.cfg }

// MatchSchemes verifies mentions, discovers missing opportunities and scores
// the result. Equal inputs always give equal output.
func (m *Matcher) MatchSchemes(req *MatchRequest, registry []scheme.GovernmentScheme) (*SchemeGapAnalysis, error) {
	if m == nil {
		return nil, apperrors.New(apperrors.ErrCodeSchemeMatchingFailed, "scheme matcher not initialized")
	}
	if req == nil {
		return nil, apperrors.New(apperrors.ErrCodeSchemeMatchingFailed, "match request is required")
	}
	start := time.Now()

	ver := m.Verify(req.Mentions, registry)
	opps := m.DiscoverOpportunities(req.Profile, registry, ver.VerifiedIDs())

	res := &SchemeGapAnalysis{
		MentionedSchemes:     ver.Mentions,
		VerifiedSchemes:      ver.Verified,
		UnverifiedMentions:   ver.Unverified,
		Suggestions:          ver.Suggestions,
		MissingOpportunities: opps,
		IncorrectReferences:  ver.IncorrectReferences,
	}

	refs, verified, incorrect := ver.distinctCounts()
	missing := len(opps)

	res.Accuracy = 1
	if refs > 0 {
		res.Accuracy = dpr.Clamp01(float64(verified-incorrect) / float64(refs))
	}
	res.Coverage = 1
	if verified+missing > 0 {
		res.Coverage = float64(verified) / float64(verified+missing)
	}
	res.CompletenessScore = roundScore(dpr.Clamp01(0.6*res.Accuracy + 0.4*res.Coverage - 0.1*float64(incorrect)))
	res.Accuracy = roundScore(res.Accuracy)
	res.Coverage = roundScore(res.Coverage)
	res.Severity = severity(res.CompletenessScore, incorrect, missing)
	res.Recommendations = m.recommend(res, req.Profile, registry)
	res.ProcessingTimeMs = time.Since(start).Milliseconds()

	m.logger.Debug("scheme matching complete",
		logging.Int("mentions", len(ver.Mentions)),
		logging.Int("schemes", refs),
		logging.Int("verified", verified),
		logging.Int("incorrect", incorrect),
		logging.Int("opportunities", missing),
		logging.String("severity", string(res.Severity)),
		logging.Duration("elapsed", time.Since(start)))
	return res, nil
}

func severity(completeness float64, incorrect, missing int) Severity {
	switch {
	case completeness < 0.3 || incorrect >= 3:
		return SeverityCritical
	case completeness < 0.5 || missing >= 5:
		return SeverityHigh
	case completeness < 0.75 || missing >= 2 || incorrect >= 1:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func (m *Matcher) recommend(res *SchemeGapAnalysis, profile ProjectProfile, registry []scheme.GovernmentScheme) []Recommendation {
	var out []Recommendation
	add := func(category, title, desc, schemeID string, relevance float64) {
		out = append(out, Recommendation{
			Priority: recPriority[category], Category: category,
			Title: title, Description: desc, SchemeID: schemeID, Relevance: relevance,
		})
	}

	corrected := map[string]bool{}
	for _, ir := range res.IncorrectReferences {
		if corrected[ir.SchemeID] {
			continue
		}
		corrected[ir.SchemeID] = true
		desc := fmt.Sprintf("%q refers to %s; use the official name", ir.Mention, ir.CorrectName)
		if ir.Reason == ReasonInactive {
			desc = fmt.Sprintf("%q refers to %s, which is %s; replace it with an active scheme",
				ir.Mention, ir.CorrectName, strings.ToLower(ir.SchemeStatus))
		}
		add(RecIncorrectReference, "Correct reference to "+ir.CorrectName, desc, ir.SchemeID, 1)
	}

	for _, o := range res.MissingOpportunities {
		if o.Relevance < m.cfg.HighRelevance {
			continue
		}
		add(RecMissingOpportunity, "Consider "+o.SchemeName,
			fmt.Sprintf("%s; %s complexity, %s to apply", strings.Join(o.MatchReasons, ", "),
				strings.ToLower(string(o.Complexity)), o.EstimatedTime),
			o.SchemeID, o.Relevance)
	}

	if profile.EstimatedCost > 0 {
		byID := make(map[string]scheme.GovernmentScheme, len(registry))
		for _, s := range registry {
			byID[s.ID] = s
		}
		covered := 0.0
		seen := map[string]bool{}
		for _, v := range res.VerifiedSchemes {
			if seen[v.SchemeID] {
				continue
			}
			seen[v.SchemeID] = true
			covered += byID[v.SchemeID].MaxFunding
		}
		if profile.EstimatedCost > covered {
			gap := profile.EstimatedCost - covered
			add(RecFundingGap, "Close the funding gap",
				fmt.Sprintf("verified schemes cover at most Rs. %.2f crore of Rs. %.2f crore; Rs. %.2f crore is unfunded",
					covered/dpr.Crore, profile.EstimatedCost/dpr.Crore, gap/dpr.Crore),
				"", dpr.Clamp01(gap/profile.EstimatedCost))
		}
	}

	switch {
	case len(res.MentionedSchemes) == 0:
		add(RecGeneral, "Reference applicable schemes",
			"the DPR names no government scheme; cite the scheme each component is funded under", "", 0)
	case len(res.UnverifiedMentions) > 0:
		add(RecGeneral, "Verify scheme references",
			fmt.Sprintf("%d scheme reference(s) could not be matched to the registry: %s",
				len(res.UnverifiedMentions), strings.Join(res.UnverifiedMentions, ", ")), "", 0)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		if out[i].Relevance != out[j].Relevance {
			return out[i].Relevance > out[j].Relevance
		}
		return out[i].Title < out[j].Title
	})
	if out == nil {
		out = []Recommendation{}
	}
	return out
}

//Personal.AI order the ending
