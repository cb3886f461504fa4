package dpr

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSectionType_Ordinal(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0, SectionExecutiveSummary.Ordinal())
	assert.Equal(t, 4, SectionTechnicalSpecs.Ordinal())
	assert.Equal(t, 5, SectionType("APPENDIX").Ordinal())
	assert.False(t, SectionType("APPENDIX").IsValid())
}

func TestParseSectionType(t *testing.T) {
	t.Parallel()
	got, ok := ParseSectionType(" cost_estimate ")
	assert.True(t, ok)
	assert.Equal(t, SectionCostEstimate, got)

	_, ok = ParseSectionType("budget")
	assert.False(t, ok)
}

func TestSectionType_Slug(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "cost-estimate", SectionCostEstimate.Slug())
}

func TestSection_Overlaps(t *testing.T) {
	t.Parallel()
	a := Section{StartOffset: 0, EndOffset: 10}
	tests := []struct {
		name string
		b    Section
		want bool
	}{
		{"disjoint", Section{StartOffset: 10, EndOffset: 20}, false},
		{"inside", Section{StartOffset: 2, EndOffset: 5}, true},
		{"straddle", Section{StartOffset: 9, EndOffset: 12}, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, a.Overlaps(tt.b))
			assert.Equal(t, tt.want, tt.b.Overlaps(a))
		})
	}
}

func TestBestSectionOfType(t *testing.T) {
	t.Parallel()
	sections := []Section{
		{Type: SectionTimeline, Confidence: 0.4, StartOffset: 0},
		{Type: SectionCostEstimate, Confidence: 0.9, StartOffset: 10},
		{Type: SectionTimeline, Confidence: 0.7, StartOffset: 20},
		{Type: SectionTimeline, Confidence: 0.7, StartOffset: 30},
	}
	best, ok := BestSectionOfType(sections, SectionTimeline)
	assert.True(t, ok)
	assert.Equal(t, 20, best.StartOffset)

	_, ok = BestSectionOfType(sections, SectionResources)
	assert.False(t, ok)
}

func TestSortAndDedupEntities(t *testing.T) {
	t.Parallel()
	es := []ExtractedEntity{
		{Type: EntityDate, Value: "March 2024", Position: 40},
		{Type: EntityMonetary, Value: "Rs. 5 crore", Position: 10},
		{Type: EntityLocation, Value: "Odisha", Position: 10},
		{Type: EntityMonetary, Value: "Rs. 5 crore", Position: 10},
	}
	SortEntities(es)
	assert.Equal(t, EntityMonetary, es[0].Type)
	assert.Equal(t, EntityLocation, es[2].Type)
	assert.Equal(t, 40, es[3].Position)

	deduped := DedupEntities(es)
	assert.Len(t, deduped, 3)
	assert.Len(t, es, 4, "input must not be modified")
}

func TestEntitiesInSpan(t *testing.T) {
	t.Parallel()
	es := []ExtractedEntity{{Position: 0}, {Position: 5}, {Position: 10}}
	assert.Len(t, EntitiesInSpan(es, 5, 10), 1)
}

func TestImpactLevel(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ImpactMedium, ImpactHigh.Downgrade())
	assert.Equal(t, ImpactLow, ImpactMedium.Downgrade())
	assert.Equal(t, ImpactLow, ImpactLow.Downgrade())
	assert.Equal(t, ImpactHigh, ImpactLevel("high").Normalize())
	assert.Equal(t, ImpactMedium, ImpactLevel("severe").Normalize())
}

func TestParseRiskType(t *testing.T) {
	t.Parallel()
	rt, ok := ParseRiskType("regulatory")
	assert.True(t, ok)
	assert.Equal(t, RiskRegulatory, rt)
	_, ok = ParseRiskType("political")
	assert.False(t, ok)
}

func TestRiskType_Normalize(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   RiskType
		want RiskType
	}{
		{"timeline", RiskTimeline},
		{" Regulatory ", RiskRegulatory},
		{RiskFinancial, RiskFinancial},
		{"political", "POLITICAL"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.in.Normalize(), "input %q", tt.in)
	}
	assert.False(t, RiskType("political").Normalize().IsValid())
}

func TestNormalizeRisks(t *testing.T) {
	t.Parallel()
	in := []RiskFactor{{ID: "r1", Type: "timeline", Impact: "high"}, {ID: "r2", Type: RiskLocation}}
	out := NormalizeRisks(in)
	assert.Equal(t, RiskTimeline, out[0].Type)
	assert.Equal(t, RiskLocation, out[1].Type)
	assert.Equal(t, RiskType("timeline"), in[0].Type, "input must not be modified")
	assert.Nil(t, NormalizeRisks(nil))
}

func TestProjectFeatures_Normalized(t *testing.T) {
	t.Parallel()
	f := ProjectFeatures{
		DurationMonths:       -3,
		TechnicalComplexity:  1.7,
		FundingSecured:       -0.2,
		SimilarProjectsCount: -1,
		SiteAccessibility:    math.NaN(),
	}.Normalized()
	assert.Equal(t, 0.0, f.DurationMonths)
	assert.Equal(t, 1.0, f.TechnicalComplexity)
	assert.Equal(t, 0.0, f.FundingSecured)
	assert.Equal(t, 0, f.SimilarProjectsCount)
	assert.Equal(t, 0.0, f.SiteAccessibility)
}

func TestRound2(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 5000000.0, Round2(50*1e5))
	assert.Equal(t, 12.35, Round2(12.345000001))
}

func TestMonthsBetween(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 24.0, MonthsBetween(start, time.Date(2026, time.March, 31, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 6.0, MonthsBetween(start, time.Date(2024, time.October, 1, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, 0.0, MonthsBetween(start, start))
	assert.Equal(t, 0.0, MonthsBetween(start, start.AddDate(-1, 0, 0)))
}

//Personal.AI order the ending
