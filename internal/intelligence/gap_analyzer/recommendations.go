package gap_analyzer

import (
	"fmt"

	"github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
)

// recommend emits recommendations in fixed group order: missing sections,
// missing required fields, low-quality fields, weak sections, then missing
// optional fields. Within a group checklist order is kept. Fields of a
// missing section are covered by the section entry.
func (a *Analyzer) recommend(cl *checklist.Checklist, res *GapAnalysisResult) []Recommendation {
	var (
		missingSections []Recommendation
		missingRequired []Recommendation
		lowQuality      []Recommendation
		weakSections    []Recommendation
		missingOptional []Recommendation
	)

	for i, sr := range res.Sections {
		cs := cl.Sections[i]
		if !sr.Found {
			missingSections = append(missingSections, Recommendation{
				Priority:  PriorityHigh,
				Category:  CategoryMissingSection,
				SectionID: sr.SectionID,
				Message:   fmt.Sprintf("Add a %s section covering %d checklist items", cs.Name, len(cs.Fields)),
			})
			continue
		}

		for _, fr := range sr.Fields {
			switch {
			case !fr.Present && fr.Required:
				missingRequired = append(missingRequired, Recommendation{
					Priority:  PriorityHigh,
					Category:  CategoryMissingField,
					SectionID: sr.SectionID,
					FieldID:   fr.FieldID,
					Message:   fmt.Sprintf("Provide the required %s in the %s section", fr.Name, sr.Name),
				})
			case !fr.Present:
				missingOptional = append(missingOptional, Recommendation{
					Priority:  PriorityLow,
					Category:  CategoryOptionalField,
					SectionID: sr.SectionID,
					FieldID:   fr.FieldID,
					Message:   fmt.Sprintf("Consider adding %s to the %s section", fr.Name, sr.Name),
				})
			case !fr.Valid:
				lowQuality = append(lowQuality, Recommendation{
					Priority:  PriorityMedium,
					Category:  CategoryLowQuality,
					SectionID: sr.SectionID,
					FieldID:   fr.FieldID,
					Message:   fmt.Sprintf("Correct %s: %s", fr.Name, fr.ValidationErrors[0]),
				})
			case fr.Confidence < a.cfg.LowConfidenceThreshold:
				lowQuality = append(lowQuality, Recommendation{
					Priority:  PriorityMedium,
					Category:  CategoryLowQuality,
					SectionID: sr.SectionID,
					FieldID:   fr.FieldID,
					Message:   fmt.Sprintf("State %s explicitly; only weak evidence was found", fr.Name),
				})
			}
		}

		if sr.MaxScore > 0 && sr.Score/sr.MaxScore < a.cfg.SectionCompletionThreshold {
			weakSections = append(weakSections, Recommendation{
				Priority:  PriorityMedium,
				Category:  CategoryIncompleteSection,
				SectionID: sr.SectionID,
				Message:   fmt.Sprintf("Expand the %s section; it scores %.0f%% of its weight", sr.Name, sr.CompletionPercent),
			})
		}
	}

	out := make([]Recommendation, 0, len(missingSections)+len(missingRequired)+len(lowQuality)+len(weakSections)+len(missingOptional))
	out = append(out, missingSections...)
	out = append(out, missingRequired...)
	out = append(out, lowQuality...)
	out = append(out, weakSections...)
	out = append(out, missingOptional...)
	return out
}

//Personal.AI order the ending
