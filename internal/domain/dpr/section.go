// Package dpr holds the shared records of a Detailed Project Report analysis:
// classified sections, extracted entities, project features and risk factors.
// Every intelligence stage consumes or produces these types.
package dpr

import "strings"

// SectionType identifies the role of a span of DPR text.
type SectionType string

const (
	SectionExecutiveSummary SectionType = "EXECUTIVE_SUMMARY"
	SectionCostEstimate     SectionType = "COST_ESTIMATE"
	SectionTimeline         SectionType = "TIMELINE"
	SectionResources        SectionType = "RESOURCES"
	SectionTechnicalSpecs   SectionType = "TECHNICAL_SPECS"
)

// AllSectionTypes lists section types in their canonical (tie-break) order.
var AllSectionTypes = []SectionType{
	SectionExecutiveSummary,
	SectionCostEstimate,
	SectionTimeline,
	SectionResources,
	SectionTechnicalSpecs,
}

// Ordinal returns the position of t in AllSectionTypes, or len(AllSectionTypes)
// for unknown values.
func (t SectionType) Ordinal() int {
	for i, s := range AllSectionTypes {
		if s == t {
			return i
		}
	}
	return len(AllSectionTypes)
}

// IsValid reports whether t is a known section type.
func (t SectionType) IsValid() bool {
	return t.Ordinal() < len(AllSectionTypes)
}

// Slug renders t as a lower-case, hyphenated tag value.
func (t SectionType) Slug() string {
	return strings.ReplaceAll(strings.ToLower(string(t)), "_", "-")
}

// ParseSectionType accepts the canonical name case-insensitively.
func ParseSectionType(s string) (SectionType, bool) {
	t := SectionType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// Section is a classified span of the source text. Offsets are byte offsets
// into the text handed to the classifier; EndOffset is exclusive.
type Section struct {
	Type        SectionType `json:"type"`
	Title       string      `json:"title"`
	Content     string      `json:"content"`
	Confidence  float64     `json:"confidence"`
	StartOffset int         `json:"start_offset"`
	EndOffset   int         `json:"end_offset"`
}

// Contains reports whether the byte offset pos falls inside the section.
func (s Section) Contains(pos int) bool {
	return pos >= s.StartOffset && pos < s.EndOffset
}

// Overlaps reports whether two sections share at least one byte.
func (s Section) Overlaps(o Section) bool {
	return s.StartOffset < o.EndOffset && o.StartOffset < s.EndOffset
}

// BestSectionOfType returns the highest-confidence section of type t. Ties
// keep the earlier one.
func BestSectionOfType(sections []Section, t SectionType) (Section, bool) {
	var (
		best  Section
		found bool
	)
	for _, s := range sections {
		if s.Type != t {
			continue
		}
		if !found || s.Confidence > best.Confidence {
			best, found = s, true
		}
	}
	return best, found
}

//Personal.AI order the ending
