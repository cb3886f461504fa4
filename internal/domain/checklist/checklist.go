// Package checklist defines the weighted completeness rubric a DPR is scored
// against. A Checklist is a value; ownership and replacement live in the gap
// analyzer's store.
package checklist

import (
	"fmt"
	"math"
	"regexp"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// DefaultTotalWeight is the weight every checklist sums to unless stated.
const DefaultTotalWeight = 100.0

// weightTolerance bounds floating-point drift when summing weights.
const weightTolerance = 1e-6

// ValidationRule constrains the value found for a field.
type ValidationRule struct {
	MinLength        int      `json:"min_length,omitempty"`
	MaxLength        int      `json:"max_length,omitempty"`
	Pattern          string   `json:"pattern,omitempty"`
	RequiredKeywords []string `json:"required_keywords,omitempty"`
}

// ChecklistField is one scored item inside a section.
type ChecklistField struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Weight      float64          `json:"weight"`
	Required    bool             `json:"required"`
	EntityTypes []dpr.EntityType `json:"entity_types,omitempty"`
	Keywords    []string         `json:"keywords,omitempty"`
	Validation  *ValidationRule  `json:"validation,omitempty"`
}

// ChecklistSection groups fields expected under one section type.
type ChecklistSection struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	SectionType dpr.SectionType  `json:"section_type"`
	Weight      float64          `json:"weight"`
	Fields      []ChecklistField `json:"fields"`
}

// Checklist is the full rubric.
type Checklist struct {
	Version     string             `json:"version"`
	TotalWeight float64            `json:"total_weight"`
	Sections    []ChecklistSection `json:"sections"`
}

// FieldCount returns the number of fields across all sections.
func (c *Checklist) FieldCount() int {
	n := 0
	for _, s := range c.Sections {
		n += len(s.Fields)
	}
	return n
}

// Clone returns a deep copy so callers can never mutate an installed rubric.
func (c *Checklist) Clone() *Checklist {
	if c == nil {
		return nil
	}
	out := &Checklist{Version: c.Version, TotalWeight: c.TotalWeight}
	out.Sections = make([]ChecklistSection, len(c.Sections))
	for i, s := range c.Sections {
		ns := s
		ns.Fields = make([]ChecklistField, len(s.Fields))
		for j, f := range s.Fields {
			nf := f
			nf.EntityTypes = append([]dpr.EntityType(nil), f.EntityTypes...)
			nf.Keywords = append([]string(nil), f.Keywords...)
			if f.Validation != nil {
				v := *f.Validation
				v.RequiredKeywords = append([]string(nil), f.Validation.RequiredKeywords...)
				nf.Validation = &v
			}
			ns.Fields[j] = nf
		}
		out.Sections[i] = ns
	}
	return out
}

func invalid(format string, args ...interface{}) error {
	return apperrors.Newf(apperrors.ErrCodeChecklistInvalid, format, args...)
}

func validEntityType(t dpr.EntityType) bool {
	for _, e := range dpr.AllEntityTypes {
		if e == t {
			return true
		}
	}
	return false
}

// Validate enforces the structural invariants: weights add up at both
// levels, IDs are unique, section and entity types are known and every
// pattern compiles.
func (c *Checklist) Validate() error {
	if c == nil {
		return invalid("checklist is nil")
	}
	if c.TotalWeight <= 0 {
		return invalid("total_weight must be positive, got %g", c.TotalWeight)
	}
	if len(c.Sections) == 0 {
		return invalid("checklist has no sections")
	}

	sectionIDs := make(map[string]struct{}, len(c.Sections))
	fieldIDs := make(map[string]struct{})
	sectionSum := 0.0

	for _, s := range c.Sections {
		if s.ID == "" {
			return invalid("section with empty id")
		}
		if _, dup := sectionIDs[s.ID]; dup {
			return invalid("duplicate section id %q", s.ID)
		}
		sectionIDs[s.ID] = struct{}{}
		if !s.SectionType.IsValid() {
			return invalid("section %q has unknown section_type %q", s.ID, s.SectionType)
		}
		if s.Weight < 0 {
			return invalid("section %q has negative weight", s.ID)
		}
		if len(s.Fields) == 0 {
			return invalid("section %q has no fields", s.ID)
		}
		sectionSum += s.Weight

		fieldSum := 0.0
		for _, f := range s.Fields {
			if f.ID == "" {
				return invalid("section %q has a field with empty id", s.ID)
			}
			if _, dup := fieldIDs[f.ID]; dup {
				return invalid("duplicate field id %q", f.ID)
			}
			fieldIDs[f.ID] = struct{}{}
			if f.Weight < 0 {
				return invalid("field %q has negative weight", f.ID)
			}
			for _, et := range f.EntityTypes {
				if !validEntityType(et) {
					return invalid("field %q has unknown entity type %q", f.ID, et)
				}
			}
			if v := f.Validation; v != nil {
				if v.MinLength < 0 || v.MaxLength < 0 || (v.MaxLength > 0 && v.MinLength > v.MaxLength) {
					return invalid("field %q has inconsistent length bounds", f.ID)
				}
				if v.Pattern != "" {
					if _, err := regexp.Compile(v.Pattern); err != nil {
						return apperrors.Wrap(err, apperrors.ErrCodeChecklistInvalid,
							fmt.Sprintf("field %q pattern does not compile", f.ID))
					}
				}
			}
			fieldSum += f.Weight
		}
		if math.Abs(fieldSum-s.Weight) > weightTolerance {
			return invalid("section %q field weights sum to %g, want %g", s.ID, fieldSum, s.Weight)
		}
	}

	if math.Abs(sectionSum-c.TotalWeight) > weightTolerance {
		return invalid("section weights sum to %g, want %g", sectionSum, c.TotalWeight)
	}
	return nil
}

//Personal.AI order the ending
