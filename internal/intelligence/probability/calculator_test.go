package probability

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/domain/history"
	"github.com/turtacn/DPR-Intelligence/internal/testutil"
)

func baselineFeatures() dpr.ProjectFeatures {
	return dpr.ProjectFeatures{
		DurationMonths:          24,
		EstimatedCost:           5.4e7,
		TechnicalComplexity:     0.3,
		RegulatoryComplexity:    0.2,
		EnvironmentalComplexity: 0.2,
		ResourceAvailability:    0.7,
		FundingSecured:          0.8,
		SiteAccessibility:       0.6,
		TerrainDifficulty:       0.3,
		HistoricalSuccessRate:   0.75,
		SimilarProjectsCount:    4,
	}
}

func baselineRisks() []dpr.RiskFactor {
	return []dpr.RiskFactor{
		{ID: "r1", Type: dpr.RiskTimeline, Impact: dpr.ImpactMedium, Probability: 0.5, Description: "monsoon delays"},
		{ID: "r2", Type: dpr.RiskRegulatory, Impact: dpr.ImpactHigh, Probability: 0.6, Description: "land acquisition"},
	}
}

func newTestCalculator() *Calculator {
	return NewCalculator(DefaultConfig(), testutil.NewMockLogger())
}

func TestComputeSubScores(t *testing.T) {
	t.Parallel()
	sub := ComputeSubScores(baselineFeatures())
	assert.InDelta(t, 0.78, sub.Timeline, 1e-9)
	assert.InDelta(t, 0.84, sub.Resource, 1e-9)
	assert.InDelta(t, 0.65, sub.Complexity, 1e-9)
	assert.InDelta(t, 0.69, sub.Location, 1e-9)
	assert.InDelta(t, 0.66, sub.Historical, 1e-9)
	assert.InDelta(t, 0.728, sub.Weighted(), 1e-9)
}

func TestComputeSubScores_Adjustments(t *testing.T) {
	t.Parallel()
	f := baselineFeatures()
	f.DurationMonths = 4
	assert.InDelta(t, 0.68, ComputeSubScores(f).Timeline, 1e-9)

	f.DurationMonths = 100
	assert.InDelta(t, 0.48, ComputeSubScores(f).Timeline, 1e-9)

	f.EstimatedCost = 150 * dpr.Crore
	assert.InDelta(t, 0.74, ComputeSubScores(f).Resource, 1e-9)

	f.SimilarProjectsCount = 0
	assert.InDelta(t, 0.6, ComputeSubScores(f).Historical, 1e-9)
}

func TestCalculate_Baseline(t *testing.T) {
	t.Parallel()
	c := newTestCalculator()

	res := c.CalculateCompletionProbability(baselineFeatures(), nil)
	assert.InDelta(t, 72.8, res.CompletionProbability, 1e-6)
	assert.InDelta(t, 0, res.RiskAdjustment, 1e-9)

	res = c.CalculateCompletionProbability(baselineFeatures(), baselineRisks())
	assert.InDelta(t, 55.8, res.CompletionProbability, 1e-6)
	assert.InDelta(t, 17, res.RiskAdjustment, 1e-6)
	assert.Len(t, res.Risks, 2)
}

func TestCalculate_NonIncreasingInRisks(t *testing.T) {
	t.Parallel()
	c := newTestCalculator()
	extra := []dpr.RiskFactor{
		{Type: dpr.RiskFinancial, Impact: dpr.ImpactLow, Probability: 0.3},
		{Type: dpr.RiskResource, Impact: dpr.ImpactHigh, Probability: 0.9},
		{Type: dpr.RiskLocation, Impact: "unknown", Probability: 2},
		{Type: dpr.RiskEnvironmental, Impact: dpr.ImpactHigh, Probability: -1},
		{Type: dpr.RiskComplexity, Impact: dpr.ImpactHigh, Probability: 1},
		{Type: dpr.RiskTimeline, Impact: dpr.ImpactHigh, Probability: 1},
	}
	var risks []dpr.RiskFactor
	prev := c.CalculateCompletionProbability(baselineFeatures(), risks).CompletionProbability
	for _, r := range extra {
		risks = append(risks, r)
		p := c.CalculateCompletionProbability(baselineFeatures(), risks).CompletionProbability
		assert.LessOrEqual(t, p, prev)
		prev = p
	}
}

func TestCalculate_RangeInvariants(t *testing.T) {
	t.Parallel()
	c := newTestCalculator()
	cases := []dpr.ProjectFeatures{
		{},
		{DurationMonths: -5, EstimatedCost: -1, TechnicalComplexity: 7, SiteAccessibility: -3, SimilarProjectsCount: -2},
		{DurationMonths: 500, TechnicalComplexity: 1, RegulatoryComplexity: 1, EnvironmentalComplexity: 1, TerrainDifficulty: 1},
		{ResourceAvailability: 1, FundingSecured: 1, SiteAccessibility: 1, HistoricalSuccessRate: 1, SimilarProjectsCount: 50, DurationMonths: 12},
	}
	heavy := []dpr.RiskFactor{}
	for i := 0; i < 10; i++ {
		heavy = append(heavy, dpr.RiskFactor{Type: dpr.RiskTimeline, Impact: dpr.ImpactHigh, Probability: 1})
	}
	for _, f := range cases {
		for _, risks := range [][]dpr.RiskFactor{nil, heavy} {
			res := c.CalculateCompletionProbability(f, risks)
			assert.GreaterOrEqual(t, res.CompletionProbability, 5.0)
			assert.LessOrEqual(t, res.CompletionProbability, 95.0)
			assert.LessOrEqual(t, res.RiskAdjustment, 40.0+1e-9)
			for _, v := range []float64{res.SubScores.Timeline, res.SubScores.Resource, res.SubScores.Complexity, res.SubScores.Location, res.SubScores.Historical} {
				assert.GreaterOrEqual(t, v, 0.0)
				assert.LessOrEqual(t, v, 1.0)
			}
			assert.GreaterOrEqual(t, res.RiskAnalysis.RiskScore, 0.0)
			assert.LessOrEqual(t, res.RiskAnalysis.RiskScore, 100.0)
			assert.LessOrEqual(t, res.PotentialImprovement, 25.0)
			assert.LessOrEqual(t, len(res.Recommendations), 8)
		}
	}
}

func TestCalculate_Deterministic(t *testing.T) {
	t.Parallel()
	c := newTestCalculator()
	render := func() string {
		res := c.CalculateCompletionProbability(baselineFeatures(), baselineRisks())
		res.ProcessingTimeMs = 0
		b, err := json.Marshal(res)
		require.NoError(t, err)
		return string(b)
	}
	first := render()
	for i := 0; i < 3; i++ {
		assert.JSONEq(t, first, render())
	}
}

func TestRiskAnalyzer(t *testing.T) {
	t.Parallel()
	f := baselineFeatures().Normalized()
	a := NewRiskAnalyzer().Analyze(f, ComputeSubScores(f), baselineRisks())

	assert.InDelta(t, 0.366, a.Categories.Timeline, 1e-9)
	assert.InDelta(t, 0.248, a.Categories.Resource, 1e-9)
	assert.InDelta(t, 0.485, a.Categories.Complexity, 1e-9)
	assert.InDelta(t, 0.21, a.Categories.Environmental, 1e-9)
	assert.InDelta(t, 0.16, a.Categories.Financial, 1e-9)
	assert.InDelta(t, 0.31785, a.OverallRisk, 1e-9)
	assert.InDelta(t, 31.79, a.RiskScore, 0.011)
	assert.Equal(t, RiskLevelLow, a.Level)
	assert.Equal(t, []string{CategoryTimeline, CategoryComplexity}, a.SignificantCategories)
	require.Len(t, a.TopRiskFactors, 2)
	assert.Equal(t, "r2", a.TopRiskFactors[0].ID)
}

func TestCalculate_RiskTypeCaseInsensitive(t *testing.T) {
	t.Parallel()
	c := newTestCalculator()
	mixed := baselineRisks()
	mixed[0].Type = "timeline"
	mixed[1].Type = "Regulatory"

	want := c.CalculateCompletionProbability(baselineFeatures(), baselineRisks())
	got := c.CalculateCompletionProbability(baselineFeatures(), mixed)

	assert.Equal(t, want.CompletionProbability, got.CompletionProbability)
	assert.Equal(t, want.RiskAnalysis.Categories, got.RiskAnalysis.Categories)
	assert.InDelta(t, 0.366, got.RiskAnalysis.Categories.Timeline, 1e-9)
	assert.Equal(t, dpr.RiskTimeline, got.Risks[0].Type)

	f := baselineFeatures().Normalized()
	direct := NewRiskAnalyzer().Analyze(f, ComputeSubScores(f), mixed)
	assert.Equal(t, want.RiskAnalysis.Categories, direct.Categories)
}

func TestLevelFor(t *testing.T) {
	t.Parallel()
	assert.Equal(t, RiskLevelCritical, LevelFor(0.85))
	assert.Equal(t, RiskLevelHigh, LevelFor(0.7))
	assert.Equal(t, RiskLevelMedium, LevelFor(0.5))
	assert.Equal(t, RiskLevelLow, LevelFor(0.49))
}

func TestTopRisksCappedAtFive(t *testing.T) {
	t.Parallel()
	var risks []dpr.RiskFactor
	for i := 0; i < 7; i++ {
		risks = append(risks, dpr.RiskFactor{Type: dpr.RiskResource, Impact: dpr.ImpactLow, Probability: float64(i) / 10})
	}
	top := topRisks(risks, maxTopRisks)
	require.Len(t, top, 5)
	assert.InDelta(t, 0.6, top[0].Probability, 1e-9)
}

func TestRiskClassifier(t *testing.T) {
	t.Parallel()
	c := NewRiskClassifier()
	f := baselineFeatures().Normalized()
	sub := ComputeSubScores(f)

	calm := c.Classify(sub, f, nil)
	assert.Equal(t, ClassifierMethod, calm.Method)
	assert.GreaterOrEqual(t, calm.Probability, 0.0)
	assert.LessOrEqual(t, calm.Probability, 1.0)
	assert.LessOrEqual(t, len(calm.Drivers), 3)
	assert.Equal(t, calm, c.Classify(sub, f, nil))

	stressed := c.Classify(sub, f, append(baselineRisks(), dpr.RiskFactor{Type: dpr.RiskFinancial, Impact: dpr.ImpactHigh, Probability: 1}))
	assert.Greater(t, stressed.Probability, calm.Probability)
	assert.Contains(t, stressed.Drivers, "identified risk load")
}

func TestGenerateRecommendations_Stressed(t *testing.T) {
	t.Parallel()
	f := dpr.ProjectFeatures{
		DurationMonths:          48,
		EstimatedCost:           150 * dpr.Crore,
		TechnicalComplexity:     0.8,
		RegulatoryComplexity:    0.7,
		EnvironmentalComplexity: 0.7,
		ResourceAvailability:    0.3,
		FundingSecured:          0.3,
		SiteAccessibility:       0.3,
		SimilarProjectsCount:    1,
	}
	risks := []dpr.RiskFactor{
		{Type: dpr.RiskRegulatory, Impact: dpr.ImpactHigh, Probability: 0.6},
		{Type: dpr.RiskEnvironmental, Impact: dpr.ImpactHigh, Probability: 0.5},
		{Type: dpr.RiskTimeline, Impact: dpr.ImpactHigh, Probability: 0.5},
	}
	recs := GenerateRecommendations(f, ComputeSubScores(f), risks, 8)

	require.Len(t, recs, 8)
	assert.Equal(t, CategoryFinancial, recs[0].Category)
	assert.Equal(t, PriorityHigh, recs[0].Priority)
	assert.Equal(t, 6.0, recs[0].EstimatedImpact)
	for i := 1; i < len(recs); i++ {
		assert.LessOrEqual(t, recs[i-1].Priority.rank(), recs[i].Priority.rank())
	}
	assert.Equal(t, 25.0, PotentialImprovement(recs, 25))
}

func TestGenerateRecommendations_UnmitigatedRisks(t *testing.T) {
	t.Parallel()
	f := baselineFeatures().Normalized()
	recs := GenerateRecommendations(f, ComputeSubScores(f), baselineRisks(), 8)
	require.Len(t, recs, 1)
	assert.Equal(t, "Document risk mitigations", recs[0].Title)
	assert.Equal(t, 2.0, recs[0].EstimatedImpact)

	mitigated := baselineRisks()
	for i := range mitigated {
		mitigated[i].Mitigation = "covered"
	}
	assert.Empty(t, GenerateRecommendations(f, ComputeSubScores(f), mitigated, 8))
}

func TestPrecedentFromHistory(t *testing.T) {
	t.Parallel()
	rate, n := PrecedentFromHistory(nil)
	assert.Zero(t, rate)
	assert.Zero(t, n)

	rate, n = PrecedentFromHistory([]history.HistoricalProject{
		{PlannedMonths: 24, ActualMonths: 24, Completed: true},
		{PlannedMonths: 24, ActualMonths: 28, Completed: true},
		{PlannedMonths: 24, ActualMonths: 36, Completed: true},
		{PlannedMonths: 24, ActualMonths: 12, Completed: false},
	})
	assert.Equal(t, 0.5, rate)
	assert.Equal(t, 4, n)
}

//Personal.AI order the ending
