// Package section_classifier splits DPR text into spans and labels each span
// with a section type using keyword, pattern and positional scoring.
package section_classifier

import (
	"sort"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Options tunes a classification run.
type Options struct {
	ConfidenceThreshold    float64 `json:"confidence_threshold"`
	EnableOverlapDetection bool    `json:"enable_overlap_detection"`
	MinSectionLength       int     `json:"min_section_length"`
	MaxSections            int     `json:"max_sections"`
}

// DefaultOptions returns the production defaults.
func DefaultOptions() Options {
	return Options{
		ConfidenceThreshold:    0.3,
		EnableOverlapDetection: true,
		MinSectionLength:       20,
		MaxSections:            20,
	}
}

// merge overlays o on base. A nil or zero o yields base. Otherwise zero
// numeric fields keep the base value and the overlap flag is taken from o.
func (base Options) merge(o *Options) Options {
	if o == nil || *o == (Options{}) {
		return base
	}
	out := *o
	if out.ConfidenceThreshold <= 0 {
		out.ConfidenceThreshold = base.ConfidenceThreshold
	}
	if out.MinSectionLength <= 0 {
		out.MinSectionLength = base.MinSectionLength
	}
	if out.MaxSections <= 0 {
		out.MaxSections = base.MaxSections
	}
	return out
}

// ---------------------------------------------------------------------------
// Result
// ---------------------------------------------------------------------------

// ClassificationResult is the output of Classify.
type ClassificationResult struct {
	Sections          []dpr.Section `json:"sections"`
	OverallConfidence float64       `json:"overall_confidence"`
	TotalSpans        int           `json:"total_spans"`
	UnclassifiedSpans int           `json:"unclassified_spans"`
	ProcessingTimeMs  int64         `json:"processing_time_ms"`
}

// SectionTypes returns the distinct section types present, in canonical order.
func (r *ClassificationResult) SectionTypes() []dpr.SectionType {
	present := make(map[dpr.SectionType]bool, len(r.Sections))
	for _, s := range r.Sections {
		present[s.Type] = true
	}
	out := make([]dpr.SectionType, 0, len(present))
	for _, t := range dpr.AllSectionTypes {
		if present[t] {
			out = append(out, t)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// Classifier
// ---------------------------------------------------------------------------

// Classifier is safe for concurrent use; it holds no per-call state.
type Classifier struct {
	opts      Options
	libraries map[dpr.SectionType]*library
	logger    logging.Logger
}

// New builds a Classifier. A zero opts means DefaultOptions; otherwise zero
// numeric fields take the defaults.
func New(opts Options, logger logging.Logger) *Classifier {
	return &Classifier{
		opts:      DefaultOptions().merge(&opts),
		libraries: newLibraries(),
		logger:    logging.OrNop(logger).Named("section_classifier"),
	}
}

// Options returns the constructor defaults in effect.
func (c *Classifier) Options() Options { return c.opts }

type candidate struct {
	section dpr.Section
	ordinal int
}

// Classify splits text and labels every span. A nil opts uses the
// constructor defaults.
func (c *Classifier) Classify(text string, opts *Options) (*ClassificationResult, error) {
	if c == nil || c.libraries == nil {
		return nil, apperrors.ErrClassifierNotInitialized
	}
	start := time.Now()
	o := c.opts.merge(opts)

	var spans []span
	for _, sp := range splitSpans(text) {
		if utf8.RuneCountInString(text[sp.start:sp.end]) >= o.MinSectionLength {
			spans = append(spans, sp)
		}
	}

	candidates := make([]candidate, 0, len(spans))
	classifiedSpans := 0
	for i, sp := range spans {
		cs := c.scoreSpan(text, sp, i, o.ConfidenceThreshold)
		if len(cs) > 0 {
			classifiedSpans++
		}
		candidates = append(candidates, cs...)
	}

	if o.EnableOverlapDetection {
		candidates = resolveOverlaps(candidates)
	}
	sections := selectTop(candidates, o.MaxSections)

	result := &ClassificationResult{
		Sections:          sections,
		OverallConfidence: overallConfidence(sections),
		TotalSpans:        len(spans),
		UnclassifiedSpans: len(spans) - classifiedSpans,
		ProcessingTimeMs:  time.Since(start).Milliseconds(),
	}
	c.logger.Debug("classified document",
		logging.Int("spans", len(spans)),
		logging.Int("sections", len(sections)),
		logging.Float64("overall_confidence", result.OverallConfidence),
		logging.Duration("elapsed", time.Since(start)))
	return result, nil
}

// scoreSpan returns the winner candidate and any runner-ups within 80% of the
// best score, dropping those under threshold.
func (c *Classifier) scoreSpan(text string, sp span, index int, threshold float64) []candidate {
	content := text[sp.start:sp.end]
	runes := utf8.RuneCountInString(content)

	scores := make([]float64, len(dpr.AllSectionTypes))
	best := -1
	for i, t := range dpr.AllSectionTypes {
		s := c.libraries[t].score(sp.title, content)
		switch t {
		case dpr.SectionExecutiveSummary:
			if index == 0 || (sp.start < len(text)/10 && runes < executiveLengthLimit) {
				s += positionalBonus
			}
		case dpr.SectionCostEstimate:
			if hasDigit(content) && currencyMarkerRe.MatchString(content) {
				s += positionalBonus
			}
		}
		scores[i] = s
		if best < 0 || s > scores[best] {
			best = i
		}
	}
	if scores[best] <= 0 {
		return nil
	}

	lengthBonus := 0.0
	switch {
	case runes > 500:
		lengthBonus = 0.10
	case runes > 200:
		lengthBonus = 0.05
	}
	headerBonus := 0.0
	if sp.title != "" {
		headerBonus = 0.05
	}

	var out []candidate
	for i, s := range scores {
		if s <= 0 {
			continue
		}
		bonus := lengthBonus
		if i == best {
			bonus += headerBonus
		} else if s < 0.8*scores[best] {
			continue
		}
		conf := dpr.Clamp01(s/(s+4) + bonus)
		if conf < threshold {
			continue
		}
		out = append(out, candidate{
			section: dpr.Section{
				Type:        dpr.AllSectionTypes[i],
				Title:       sp.title,
				Content:     content,
				Confidence:  conf,
				StartOffset: sp.start,
				EndOffset:   sp.end,
			},
			ordinal: i,
		})
	}
	return out
}

func hasDigit(s string) bool {
	for _, r := range s {
		if unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

// rank orders candidates by confidence, then earlier start, then type order.
func rank(cs []candidate) {
	sort.SliceStable(cs, func(i, j int) bool {
		a, b := cs[i], cs[j]
		if a.section.Confidence != b.section.Confidence {
			return a.section.Confidence > b.section.Confidence
		}
		if a.section.StartOffset != b.section.StartOffset {
			return a.section.StartOffset < b.section.StartOffset
		}
		return a.ordinal < b.ordinal
	})
}

func resolveOverlaps(cs []candidate) []candidate {
	ranked := append([]candidate(nil), cs...)
	rank(ranked)
	kept := make([]candidate, 0, len(ranked))
	for _, c := range ranked {
		clash := false
		for _, k := range kept {
			if c.section.Overlaps(k.section) {
				clash = true
				break
			}
		}
		if !clash {
			kept = append(kept, c)
		}
	}
	return kept
}

// selectTop keeps the limit highest-ranked candidates and returns them in
// document order.
func selectTop(cs []candidate, limit int) []dpr.Section {
	ranked := append([]candidate(nil), cs...)
	rank(ranked)
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].section.StartOffset != ranked[j].section.StartOffset {
			return ranked[i].section.StartOffset < ranked[j].section.StartOffset
		}
		return ranked[i].ordinal < ranked[j].ordinal
	})
	out := make([]dpr.Section, len(ranked))
	for i, c := range ranked {
		out[i] = c.section
	}
	return out
}

func overallConfidence(sections []dpr.Section) float64 {
	if len(sections) == 0 {
		return 0
	}
	sum := 0.0
	types := make(map[dpr.SectionType]struct{})
	for _, s := range sections {
		sum += s.Confidence
		types[s.Type] = struct{}{}
	}
	mean := sum / float64(len(sections))
	return dpr.Clamp01(mean + 0.05*float64(len(types)-1))
}

//Personal.AI order the ending
