package gap_analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/entity_extractor"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/section_classifier"
	"github.com/turtacn/DPR-Intelligence/internal/testutil"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

func newTestAnalyzer() *Analyzer {
	return New(nil, DefaultConfig(), testutil.NewMockLogger())
}

func analyzeText(t *testing.T, a *Analyzer, text string) *GapAnalysisResult {
	t.Helper()
	cls, err := section_classifier.New(section_classifier.DefaultOptions(), nil).Classify(text, nil)
	require.NoError(t, err)
	ext := entity_extractor.New(entity_extractor.DefaultConfig(), nil).Extract(text)
	res, err := a.Analyze(cls.Sections, ext.Entities)
	require.NoError(t, err)
	return res
}

func field(t *testing.T, res *GapAnalysisResult, sectionID, fieldID string) FieldResult {
	t.Helper()
	sr, ok := res.Section(sectionID)
	require.True(t, ok, "section %s", sectionID)
	for _, f := range sr.Fields {
		if f.FieldID == fieldID {
			return f
		}
	}
	t.Fatalf("field %s not found", fieldID)
	return FieldResult{}
}

func TestAnalyze_EmptyDocument(t *testing.T) {
	t.Parallel()
	res, err := newTestAnalyzer().Analyze(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, 0.0, res.OverallScore)
	assert.Equal(t, 0.0, res.CompletenessPercent)
	assert.Equal(t, 5, res.TotalSections)
	assert.Equal(t, 15, res.TotalFields)
	assert.Len(t, res.MissingSections, res.TotalSections)
	assert.Len(t, res.MissingFields, res.TotalFields)
	assert.Empty(t, res.IncompleteFields)

	require.Len(t, res.Recommendations, 5)
	for _, r := range res.Recommendations {
		assert.Equal(t, PriorityHigh, r.Priority)
		assert.Equal(t, CategoryMissingSection, r.Category)
	}
	for _, sr := range res.Sections {
		for _, f := range sr.Fields {
			assert.Equal(t, []string{ErrSectionNotFound}, f.ValidationErrors)
			assert.Equal(t, 0.0, f.Score)
		}
	}
}

func TestAnalyze_SampleDPR(t *testing.T) {
	t.Parallel()
	res := analyzeText(t, newTestAnalyzer(), testutil.SampleDPR)

	assert.Empty(t, res.MissingSections)
	assert.Empty(t, res.MissingFields)
	assert.Equal(t, 15, res.PresentFields)
	assert.Equal(t, 100.0, res.CompletenessPercent)
	assert.Greater(t, res.OverallScore, 85.0)
	assert.LessOrEqual(t, res.OverallScore, 100.0)
	assert.Equal(t, checklist.DefaultVersion, res.ChecklistVersion)

	total := field(t, res, "cost_estimate", "total_cost")
	assert.Equal(t, "Rs. 5.4 crore", total.Value)
	assert.Equal(t, SourceEntity, total.Source)

	breakdown := field(t, res, "cost_estimate", "cost_breakdown")
	assert.Equal(t, "Rs. 1.2 crore", breakdown.Value)

	assert.Equal(t, "01/04/2024", field(t, res, "timeline", "start_date").Value)
	assert.Equal(t, "31/03/2026", field(t, res, "timeline", "completion_date").Value)
	assert.Equal(t, "120 workers", field(t, res, "resources", "manpower").Value)
	assert.Equal(t, "2,500 tonnes of cement", field(t, res, "resources", "materials").Value)
	assert.Equal(t, "4 excavators", field(t, res, "resources", "equipment").Value)
	assert.Equal(t, "19.3150 N, 84.7941 E", field(t, res, "technical_specs", "location").Value)

	contingency := field(t, res, "cost_estimate", "contingency")
	assert.Equal(t, SourcePattern, contingency.Source)
	assert.InDelta(t, 0.6, contingency.Confidence, 1e-9)
	assert.Contains(t, res.IncompleteFields, "contingency")

	for _, r := range res.Recommendations {
		assert.NotEqual(t, PriorityHigh, r.Priority)
	}
	assert.Greater(t, res.TypeCompletion(dpr.SectionResources), 0.85)
}

func TestAnalyze_ScoresStayInRange(t *testing.T) {
	t.Parallel()
	for _, text := range []string{testutil.SampleDPR, testutil.SparseDPR, "", "random words only"} {
		res := analyzeText(t, newTestAnalyzer(), text)
		assert.GreaterOrEqual(t, res.OverallScore, 0.0)
		assert.LessOrEqual(t, res.OverallScore, 100.0)
		assert.GreaterOrEqual(t, res.CompletenessPercent, 0.0)
		assert.LessOrEqual(t, res.CompletenessPercent, 100.0)
		for _, sr := range res.Sections {
			assert.LessOrEqual(t, sr.Score, sr.MaxScore+1e-9)
			for _, f := range sr.Fields {
				assert.LessOrEqual(t, f.Score, f.MaxScore+1e-9)
			}
		}
	}
}

func TestAnalyze_SparseDPRRecommendationOrder(t *testing.T) {
	t.Parallel()
	res := analyzeText(t, newTestAnalyzer(), testutil.SparseDPR)

	assert.Equal(t, []string{"cost_estimate", "timeline", "resources", "technical_specs"}, res.MissingSections)
	require.GreaterOrEqual(t, len(res.Recommendations), 4)
	for _, r := range res.Recommendations[:4] {
		assert.Equal(t, CategoryMissingSection, r.Category)
		assert.Equal(t, PriorityHigh, r.Priority)
	}

	rank := map[string]int{
		CategoryMissingSection:    0,
		CategoryMissingField:      1,
		CategoryLowQuality:        2,
		CategoryIncompleteSection: 3,
		CategoryOptionalField:     4,
	}
	for i := 1; i < len(res.Recommendations); i++ {
		assert.LessOrEqual(t, rank[res.Recommendations[i-1].Category], rank[res.Recommendations[i].Category])
	}
}

func TestAnalyze_UsesHighestConfidenceSection(t *testing.T) {
	t.Parallel()
	text := "Cost notes without figures.\n\nThe total project cost is Rs. 2 crore."
	weakEnd := len("Cost notes without figures.")
	strongStart := weakEnd + 2
	sections := []dpr.Section{
		{Type: dpr.SectionCostEstimate, Content: text[:weakEnd], Confidence: 0.4, StartOffset: 0, EndOffset: weakEnd},
		{Type: dpr.SectionCostEstimate, Content: text[strongStart:], Confidence: 0.8, StartOffset: strongStart, EndOffset: len(text)},
	}
	ext := entity_extractor.New(entity_extractor.DefaultConfig(), nil).Extract(text)

	res, err := newTestAnalyzer().Analyze(sections, ext.Entities)
	require.NoError(t, err)
	sr, ok := res.Section("cost_estimate")
	require.True(t, ok)
	assert.InDelta(t, 0.8, sr.Confidence, 1e-9)
	assert.Equal(t, "Rs. 2 crore", field(t, res, "cost_estimate", "total_cost").Value)
}

func singleFieldChecklist(rule *checklist.ValidationRule) *checklist.Checklist {
	return &checklist.Checklist{
		Version:     "test-1",
		TotalWeight: 100,
		Sections: []checklist.ChecklistSection{{
			ID: "cost", Name: "Cost", SectionType: dpr.SectionCostEstimate, Weight: 100,
			Fields: []checklist.ChecklistField{{
				ID: "total", Name: "Total", Weight: 100, Required: true,
				EntityTypes: []dpr.EntityType{dpr.EntityMonetary},
				Validation:  rule,
			}},
		}},
	}
}

func TestAnalyze_ValidationFailureKeepsPartialCredit(t *testing.T) {
	t.Parallel()
	store, err := NewChecklistStore(singleFieldChecklist(&checklist.ValidationRule{
		Pattern:          "crore",
		RequiredKeywords: []string{"GST"},
	}))
	require.NoError(t, err)
	a := New(store, DefaultConfig(), nil)

	text := "Total cost is Rs. 50 lakh"
	sections := []dpr.Section{{Type: dpr.SectionCostEstimate, Content: text, Confidence: 0.9, EndOffset: len(text)}}
	ext := entity_extractor.New(entity_extractor.DefaultConfig(), nil).Extract(text)

	res, err := a.Analyze(sections, ext.Entities)
	require.NoError(t, err)
	f := field(t, res, "cost", "total")
	assert.True(t, f.Present)
	assert.False(t, f.Valid)
	assert.Len(t, f.ValidationErrors, 2)
	assert.InDelta(t, 100*0.5+100*0.3*0.9, f.Score, 1e-9)
	assert.InDelta(t, 77.0, res.OverallScore, 1e-9)
	assert.Equal(t, []string{"total"}, res.IncompleteFields)

	require.Len(t, res.Recommendations, 1)
	assert.Equal(t, CategoryLowQuality, res.Recommendations[0].Category)
	assert.Contains(t, res.Recommendations[0].Message, "does not match pattern")
}

func TestAnalyze_KeywordFallback(t *testing.T) {
	t.Parallel()
	a := New(nil, DefaultConfig(), nil)
	cl := &checklist.Checklist{
		Version: "kw", TotalWeight: 10,
		Sections: []checklist.ChecklistSection{{
			ID: "tech", Name: "Tech", SectionType: dpr.SectionTechnicalSpecs, Weight: 10,
			Fields: []checklist.ChecklistField{{
				ID: "loc", Name: "Location", Weight: 10,
				EntityTypes: []dpr.EntityType{dpr.EntityLocation},
				Keywords:    []string{"site"},
			}},
		}},
	}
	require.NoError(t, a.UpdateChecklist(cl))

	text := "The site is flat and well drained"
	res, err := a.Analyze([]dpr.Section{{Type: dpr.SectionTechnicalSpecs, Content: text, Confidence: 0.7, EndOffset: len(text)}}, nil)
	require.NoError(t, err)
	f := field(t, res, "tech", "loc")
	assert.Equal(t, SourceKeyword, f.Source)
	assert.InDelta(t, 0.5, f.Confidence, 1e-9)
	assert.InDelta(t, 10*0.5+10*0.3*0.5+10*0.2, f.Score, 1e-9)
}

func TestUpdateChecklist_RejectsBadWeightsAndKeepsPrevious(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()
	bad := checklist.DefaultChecklist()
	bad.Version = "broken"
	bad.Sections[0].Weight = 50

	err := a.UpdateChecklist(bad)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeChecklistInvalid))
	assert.Equal(t, checklist.DefaultVersion, a.Checklist().Version)

	res, err := a.Analyze(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, checklist.DefaultVersion, res.ChecklistVersion)
}

func TestUpdateChecklist_ReplacesWholesale(t *testing.T) {
	t.Parallel()
	a := newTestAnalyzer()
	require.NoError(t, a.UpdateChecklist(singleFieldChecklist(nil)))

	res, err := a.Analyze(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "test-1", res.ChecklistVersion)
	assert.Equal(t, 1, res.TotalSections)
	assert.Equal(t, 1, res.TotalFields)
}

func TestAnalyze_NilAnalyzer(t *testing.T) {
	t.Parallel()
	var a *Analyzer
	_, err := a.Analyze(nil, nil)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeGapAnalysisFailed))
}

func TestFieldScore(t *testing.T) {
	t.Parallel()
	cases := []struct {
		weight, conf float64
		valid        bool
		want         float64
	}{
		{10, 1, true, 10},
		{10, 0, true, 7},
		{10, 0.5, false, 6.5},
		{10, 2, true, 10},
		{0, 1, true, 0},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, fieldScore(tc.weight, tc.conf, tc.valid), 1e-9)
	}
}

//Personal.AI order the ending
