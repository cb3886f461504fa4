package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/entity_extractor"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/gap_analyzer"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/section_classifier"
	"github.com/turtacn/DPR-Intelligence/internal/testutil"
)

func inputFor(t *testing.T, text string) Input {
	t.Helper()
	cls, err := section_classifier.New(section_classifier.DefaultOptions(), nil).Classify(text, nil)
	require.NoError(t, err)
	ext := entity_extractor.New(entity_extractor.DefaultConfig(), nil).Extract(text)
	gap, err := gap_analyzer.New(nil, gap_analyzer.DefaultConfig(), nil).Analyze(cls.Sections, ext.Entities)
	require.NoError(t, err)
	return Input{Text: text, Extraction: ext, Gap: gap}
}

func TestBuild_SampleDPR(t *testing.T) {
	t.Parallel()
	in := inputFor(t, testutil.SampleDPR)
	in.Precedent = Precedent{SuccessRate: 0.75, Count: 4}

	f, risks := NewBuilder(testutil.NewMockLogger()).Build(in)

	assert.Equal(t, 54e6, f.EstimatedCost)
	assert.Equal(t, 24.0, f.DurationMonths)
	assert.Equal(t, "roads", f.Sector)
	assert.Equal(t, "Odisha", f.State)
	assert.InDelta(t, baseTechnical, f.TechnicalComplexity, 1e-9)
	assert.InDelta(t, baseRegulatory, f.RegulatoryComplexity, 1e-9, "land acquisition is complete")
	assert.InDelta(t, baseEnvironmental, f.EnvironmentalComplexity, 1e-9)
	assert.InDelta(t, 0.45, f.SiteAccessibility, 1e-9)
	assert.InDelta(t, 0.5, f.TerrainDifficulty, 1e-9)
	assert.InDelta(t, 0.5, f.FundingSecured, 1e-9, "proposed under a scheme")
	assert.Greater(t, f.ResourceAvailability, 0.8)
	assert.Equal(t, 0.75, f.HistoricalSuccessRate)
	assert.Equal(t, 4, f.SimilarProjectsCount)

	require.Len(t, risks, 3)
	assert.Equal(t, "risk-escalation", risks[0].ID)
	assert.Equal(t, dpr.RiskFinancial, risks[0].Type)
	assert.Contains(t, risks[0].Mitigation, "contingency")
	assert.Equal(t, "risk-monsoon", risks[1].ID)
	assert.Equal(t, dpr.RiskTimeline, risks[1].Type)
	assert.Equal(t, dpr.ImpactMedium, risks[1].Impact)
	assert.Equal(t, 0.5, risks[1].Probability)
	assert.Empty(t, risks[1].Mitigation)
	assert.Equal(t, "risk-terrain", risks[2].ID)
	assert.Equal(t, dpr.RiskLocation, risks[2].Type)
}

func TestBuild_StructuredFieldsWin(t *testing.T) {
	t.Parallel()
	in := inputFor(t, testutil.SampleDPR)
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	in.Structured = dpr.StructuredFields{
		Sector:        "water supply",
		State:         "Assam",
		EstimatedCost: 9e7,
		StartDate:     &start,
		EndDate:       &end,
	}

	f, _ := NewBuilder(nil).Build(in)
	assert.Equal(t, 9e7, f.EstimatedCost)
	assert.Equal(t, 12.0, f.DurationMonths)
	assert.Equal(t, "water supply", f.Sector)
	assert.Equal(t, "Assam", f.State)
}

func TestBuild_TriggerRisks(t *testing.T) {
	t.Parallel()
	text := "The alignment requires land acquisition of 4 hectares. Forest clearance is pending from the state. Work stops during the monsoon."

	f, risks := NewBuilder(nil).Build(Input{Text: text})

	require.Len(t, risks, 3)
	assert.Equal(t, dpr.RiskFactor{
		ID: "risk-land-acquisition", Type: dpr.RiskRegulatory, Impact: dpr.ImpactHigh,
		Probability: 0.6, Description: "Land acquisition pending",
	}, risks[0])
	assert.Equal(t, dpr.RiskEnvironmental, risks[1].Type)
	assert.Equal(t, dpr.ImpactHigh, risks[1].Impact)
	assert.Equal(t, 0.5, risks[1].Probability)
	assert.Equal(t, dpr.RiskTimeline, risks[2].Type)

	assert.InDelta(t, baseRegulatory+0.35+0.3, f.RegulatoryComplexity, 1e-9)
	assert.InDelta(t, baseEnvironmental+0.3, f.EnvironmentalComplexity, 1e-9)
	assert.Equal(t, defaultResourceAvailability, f.ResourceAvailability)
	assert.Zero(t, f.EstimatedCost)
	assert.Zero(t, f.DurationMonths)
}

func TestBuild_MergeDeduplicates(t *testing.T) {
	t.Parallel()
	supplied := []dpr.RiskFactor{
		{ID: "r1", Type: dpr.RiskTimeline, Impact: dpr.ImpactHigh, Probability: 0.7, Description: "monsoon season delays"},
		{ID: "r2", Type: dpr.RiskFinancial, Impact: dpr.ImpactLow, Probability: 0.2, Description: "Fund release lag"},
		{ID: "r3", Type: dpr.RiskFinancial, Impact: dpr.ImpactLow, Probability: 0.2, Description: "Fund release lag"},
	}
	_, risks := NewBuilder(nil).Build(Input{Text: "Heavy monsoon rain is likely.", Risks: supplied})

	require.Len(t, risks, 2)
	assert.Equal(t, "r1", risks[0].ID, "supplied risk wins over the derived one")
	assert.Equal(t, dpr.ImpactHigh, risks[0].Impact)
	assert.Equal(t, "r2", risks[1].ID)
}

func TestBuild_ComplexAndFunded(t *testing.T) {
	t.Parallel()
	text := "The project includes a 2 km tunnel and a river bridge in a remote hilly district. Funds released by the state; the project is sanctioned."

	f, risks := NewBuilder(nil).Build(Input{Text: text})

	assert.InDelta(t, baseTechnical+0.4+0.3, f.TechnicalComplexity, 1e-9)
	assert.InDelta(t, baseAccessibility-0.2-0.15, f.SiteAccessibility, 1e-9)
	assert.InDelta(t, 1.0, f.FundingSecured, 1e-9)
	assert.InDelta(t, baseEnvironmental+0.2, f.EnvironmentalComplexity, 1e-9)

	ids := make([]string, 0, len(risks))
	for _, r := range risks {
		ids = append(ids, r.ID)
	}
	assert.ElementsMatch(t, []string{"risk-terrain", "risk-remote", "risk-design-complexity"}, ids)
}

func TestBuild_Deterministic(t *testing.T) {
	t.Parallel()
	b := NewBuilder(nil)
	in := inputFor(t, testutil.SampleDPR)
	f1, r1 := b.Build(in)
	f2, r2 := b.Build(in)
	assert.Equal(t, f1, f2)
	assert.Equal(t, r1, r2)
}

func TestBuild_EmptyInput(t *testing.T) {
	t.Parallel()
	f, risks := NewBuilder(nil).Build(Input{})
	assert.Empty(t, risks)
	assert.NotNil(t, risks)
	assert.Equal(t, "", f.Sector)
	assert.InDelta(t, baseFunding, f.FundingSecured, 1e-9)
	assert.Equal(t, f, f.Normalized())
}

func TestSplitSentences(t *testing.T) {
	t.Parallel()
	got := splitSentences("Cost is Rs. 5.4 crore. Work starts soon!\nDone")
	assert.Equal(t, []string{"Cost is Rs. 5.4 crore", "Work starts soon", "Done"}, got)
}

func TestInferSector(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "irrigation", inferSector("Lining of the main canal and two distributary canals for irrigation."))
	assert.Equal(t, "", inferSector("A community hall for the village."))
}

//Personal.AI order the ending
