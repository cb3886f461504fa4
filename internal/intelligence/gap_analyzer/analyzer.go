// Package gap_analyzer scores classified DPR sections and extracted entities
// against the installed completeness checklist.
package gap_analyzer

import (
	"math"
	"time"

	"github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// ---------------------------------------------------------------------------
// Configuration
// ---------------------------------------------------------------------------

// Config tunes gap analysis.
type Config struct {
	// LowConfidenceThreshold marks a present field as incomplete below it.
	LowConfidenceThreshold float64 `json:"low_confidence_threshold"`
	// SectionCompletionThreshold flags present sections scoring under this
	// fraction of their weight.
	SectionCompletionThreshold float64 `json:"section_completion_threshold"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{LowConfidenceThreshold: 0.7, SectionCompletionThreshold: 0.5}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.LowConfidenceThreshold <= 0 {
		c.LowConfidenceThreshold = d.LowConfidenceThreshold
	}
	if c.SectionCompletionThreshold <= 0 {
		c.SectionCompletionThreshold = d.SectionCompletionThreshold
	}
	return c
}

// ---------------------------------------------------------------------------
// Result types
// ---------------------------------------------------------------------------

// Priority orders recommendations.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Recommendation categories.
const (
	CategoryMissingSection    = "missing_section"
	CategoryMissingField      = "missing_field"
	CategoryLowQuality        = "low_quality_field"
	CategoryIncompleteSection = "incomplete_section"
	CategoryOptionalField     = "missing_optional_field"
)

// ErrSectionNotFound is recorded on every field of a section the document
// lacks.
const ErrSectionNotFound = "section not found"

// FieldResult is the outcome for one checklist field.
type FieldResult struct {
	FieldID          string   `json:"field_id"`
	Name             string   `json:"name"`
	SectionID        string   `json:"section_id"`
	Required         bool     `json:"required"`
	Present          bool     `json:"present"`
	Value            string   `json:"value,omitempty"`
	Source           string   `json:"source,omitempty"`
	Position         int      `json:"position"`
	Confidence       float64  `json:"confidence"`
	Valid            bool     `json:"valid"`
	ValidationErrors []string `json:"validation_errors,omitempty"`
	Score            float64  `json:"score"`
	MaxScore         float64  `json:"max_score"`
}

// SectionResult is the outcome for one checklist section.
type SectionResult struct {
	SectionID         string          `json:"section_id"`
	Name              string          `json:"name"`
	SectionType       dpr.SectionType `json:"section_type"`
	Found             bool            `json:"found"`
	Confidence        float64         `json:"confidence"`
	Score             float64         `json:"score"`
	MaxScore          float64         `json:"max_score"`
	CompletionPercent float64         `json:"completion_percent"`
	Fields            []FieldResult   `json:"fields"`
}

// Recommendation is an actionable gap.
type Recommendation struct {
	Priority  Priority `json:"priority"`
	Category  string   `json:"category"`
	SectionID string   `json:"section_id"`
	FieldID   string   `json:"field_id,omitempty"`
	Message   string   `json:"message"`
}

// GapAnalysisResult is the output of Analyze.
type GapAnalysisResult struct {
	ChecklistVersion    string           `json:"checklist_version"`
	OverallScore        float64          `json:"overall_score"`
	CompletenessPercent float64          `json:"completeness_percent"`
	Sections            []SectionResult  `json:"sections"`
	MissingSections     []string         `json:"missing_sections"`
	MissingFields       []string         `json:"missing_fields"`
	IncompleteFields    []string         `json:"incomplete_fields"`
	Recommendations     []Recommendation `json:"recommendations"`
	TotalSections       int              `json:"total_sections"`
	TotalFields         int              `json:"total_fields"`
	PresentFields       int              `json:"present_fields"`
	ProcessingTimeMs    int64            `json:"processing_time_ms"`
}

// Section returns the result for a checklist section id.
func (r *GapAnalysisResult) Section(id string) (SectionResult, bool) {
	if r == nil {
		return SectionResult{}, false
	}
	for _, s := range r.Sections {
		if s.SectionID == id {
			return s, true
		}
	}
	return SectionResult{}, false
}

// TypeCompletion returns the achieved fraction of the checklist sections of
// type t, in [0,1]. It is 0 when no checklist section has that type.
func (r *GapAnalysisResult) TypeCompletion(t dpr.SectionType) float64 {
	if r == nil {
		return 0
	}
	var got, possible float64
	for _, s := range r.Sections {
		if s.SectionType == t {
			got += s.Score
			possible += s.MaxScore
		}
	}
	if possible <= 0 {
		return 0
	}
	return dpr.Clamp01(got / possible)
}

// ---------------------------------------------------------------------------
// Analyzer
// ---------------------------------------------------------------------------

// Analyzer scores documents against the checklist held by its store.
type Analyzer struct {
	store  *ChecklistStore
	cfg    Config
	logger logging.Logger
}

// New builds an Analyzer. A nil store gets the built-in checklist.
func New(store *ChecklistStore, cfg Config, logger logging.Logger) *Analyzer {
	if store == nil {
		store = MustNewChecklistStore(nil)
	}
	return &Analyzer{
		store:  store,
		cfg:    cfg.withDefaults(),
		logger: logging.OrNop(logger).Named("gap_analyzer"),
	}
}

// Store returns the checklist store the analyzer reads from.
func (a *Analyzer) Store() *ChecklistStore { return a.store }

// Checklist returns a copy of the installed checklist.
func (a *Analyzer) Checklist() *checklist.Checklist { return a.store.Get() }

// UpdateChecklist validates c and replaces the installed checklist.
func (a *Analyzer) UpdateChecklist(c *checklist.Checklist) error {
	if err := a.store.Replace(c); err != nil {
		a.logger.Warn("checklist replacement rejected", logging.Err(err))
		return err
	}
	a.logger.Info("checklist replaced", logging.String("version", c.Version))
	return nil
}

// fieldScore awards half the weight for presence and the rest for
// confidence and validity.
func fieldScore(weight, confidence float64, valid bool) float64 {
	v := 0.0
	if valid {
		v = 1
	}
	return math.Min(weight*0.5+weight*0.3*dpr.Clamp01(confidence)+weight*0.2*v, weight)
}

// Analyze scores sections and entities against the installed checklist.
// Entity positions must index the same text the section offsets do.
func (a *Analyzer) Analyze(sections []dpr.Section, entities []dpr.ExtractedEntity) (*GapAnalysisResult, error) {
	if a == nil || a.store == nil {
		return nil, apperrors.New(apperrors.ErrCodeGapAnalysisFailed, "gap analyzer not initialized")
	}
	start := time.Now()
	cl := a.store.Get()

	res := &GapAnalysisResult{
		ChecklistVersion: cl.Version,
		TotalSections:    len(cl.Sections),
		TotalFields:      cl.FieldCount(),
		MissingSections:  []string{},
		MissingFields:    []string{},
		IncompleteFields: []string{},
	}

	var achieved, possible float64
	for _, cs := range cl.Sections {
		sr := a.scoreSection(cs, sections, entities, res)
		achieved += sr.Score
		possible += sr.MaxScore
		res.Sections = append(res.Sections, sr)
	}

	if possible > 0 {
		res.OverallScore = dpr.Clamp(achieved/possible*100, 0, 100)
	}
	if res.TotalFields > 0 {
		res.CompletenessPercent = dpr.Clamp(float64(res.PresentFields)/float64(res.TotalFields)*100, 0, 100)
	}
	res.Recommendations = a.recommend(cl, res)
	res.ProcessingTimeMs = time.Since(start).Milliseconds()

	a.logger.Debug("gap analysis complete",
		logging.Float64("overall_score", res.OverallScore),
		logging.Int("missing_sections", len(res.MissingSections)),
		logging.Int("missing_fields", len(res.MissingFields)),
		logging.Duration("elapsed", time.Since(start)))
	return res, nil
}

func (a *Analyzer) scoreSection(cs checklist.ChecklistSection, sections []dpr.Section, entities []dpr.ExtractedEntity, res *GapAnalysisResult) SectionResult {
	sr := SectionResult{
		SectionID:   cs.ID,
		Name:        cs.Name,
		SectionType: cs.SectionType,
	}
	for _, f := range cs.Fields {
		sr.MaxScore += f.Weight
	}

	sec, found := dpr.BestSectionOfType(sections, cs.SectionType)
	if !found {
		res.MissingSections = append(res.MissingSections, cs.ID)
		for _, f := range cs.Fields {
			sr.Fields = append(sr.Fields, FieldResult{
				FieldID:          f.ID,
				Name:             f.Name,
				SectionID:        cs.ID,
				Required:         f.Required,
				ValidationErrors: []string{ErrSectionNotFound},
				MaxScore:         f.Weight,
			})
			res.MissingFields = append(res.MissingFields, f.ID)
		}
		return sr
	}

	sr.Found = true
	sr.Confidence = sec.Confidence
	inSpan := dpr.EntitiesInSpan(entities, sec.StartOffset, sec.EndOffset)

	for _, f := range cs.Fields {
		fr := FieldResult{
			FieldID:   f.ID,
			Name:      f.Name,
			SectionID: cs.ID,
			Required:  f.Required,
			MaxScore:  f.Weight,
		}
		if ev, ok := findEvidence(f, sec, inSpan); ok {
			fr.Present = true
			fr.Value = ev.value
			fr.Source = ev.source
			fr.Position = ev.position
			fr.Confidence = ev.confidence
			fr.ValidationErrors = validate(f.Validation, ev.value, sec.Content)
			fr.Valid = len(fr.ValidationErrors) == 0
			fr.Score = fieldScore(f.Weight, ev.confidence, fr.Valid)

			res.PresentFields++
			if !fr.Valid || fr.Confidence < a.cfg.LowConfidenceThreshold {
				res.IncompleteFields = append(res.IncompleteFields, f.ID)
			}
		} else {
			res.MissingFields = append(res.MissingFields, f.ID)
		}
		sr.Score += fr.Score
		sr.Fields = append(sr.Fields, fr)
	}
	if sr.MaxScore > 0 {
		sr.CompletionPercent = dpr.Clamp(sr.Score/sr.MaxScore*100, 0, 100)
	}
	return sr
}

//Personal.AI order the ending
