package probability

import (
	"sort"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
)

// RiskLevel is the four-tier overall risk grade.
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// LevelFor grades a 0–1 risk value.
func LevelFor(risk float64) RiskLevel {
	switch {
	case risk >= 0.85:
		return RiskLevelCritical
	case risk >= 0.70:
		return RiskLevelHigh
	case risk >= 0.50:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}

// Category names used in the analysis.
const (
	CategoryTimeline      = "timeline"
	CategoryResource      = "resource"
	CategoryComplexity    = "complexity"
	CategoryEnvironmental = "environmental"
	CategoryFinancial     = "financial"
)

const (
	significantRisk = 0.30
	maxTopRisks     = 5
)

// CategoryRisks are the five 0–1 category risks.
type CategoryRisks struct {
	Timeline      float64 `json:"timeline"`
	Resource      float64 `json:"resource"`
	Complexity    float64 `json:"complexity"`
	Environmental float64 `json:"environmental"`
	Financial     float64 `json:"financial"`
}

// ordered lists categories with their values in canonical order.
func (c CategoryRisks) ordered() []struct {
	name  string
	value float64
} {
	return []struct {
		name  string
		value float64
	}{
		{CategoryTimeline, c.Timeline},
		{CategoryResource, c.Resource},
		{CategoryComplexity, c.Complexity},
		{CategoryEnvironmental, c.Environmental},
		{CategoryFinancial, c.Financial},
	}
}

// RiskAnalysis is the output of RiskAnalyzer.Analyze.
type RiskAnalysis struct {
	Categories            CategoryRisks    `json:"categories"`
	OverallRisk           float64          `json:"overall_risk"`
	RiskScore             float64          `json:"risk_score"`
	Level                 RiskLevel        `json:"level"`
	SignificantCategories []string         `json:"significant_categories"`
	TopRiskFactors        []dpr.RiskFactor `json:"top_risk_factors"`
}

// RiskAnalyzer combines feature-derived baselines with explicit risk factors.
type RiskAnalyzer struct{}

// NewRiskAnalyzer returns a RiskAnalyzer.
func NewRiskAnalyzer() *RiskAnalyzer { return &RiskAnalyzer{} }

// contribution is how much one factor adds to its category risk.
func contribution(r dpr.RiskFactor) float64 {
	tier := 0.2
	switch r.Impact.Normalize() {
	case dpr.ImpactLow:
		tier = 0.1
	case dpr.ImpactHigh:
		tier = 0.3
	}
	return tier * dpr.Clamp01(r.Probability)
}

// Analyze scores each category and the overall risk. Features must already
// be normalised and sub match them.
func (a *RiskAnalyzer) Analyze(f dpr.ProjectFeatures, sub SubScores, risks []dpr.RiskFactor) *RiskAnalysis {
	sums := map[dpr.RiskType]float64{}
	for _, r := range risks {
		sums[r.Type.Normalize()] += contribution(r)
	}

	financial := 0.1 + 0.3*(1-f.FundingSecured) + sums[dpr.RiskFinancial]
	if f.EstimatedCost > largeProjectCost {
		financial += 0.1
	}
	cats := CategoryRisks{
		Timeline:      dpr.Clamp01(0.2 + 0.3*(1-sub.Timeline) + sums[dpr.RiskTimeline]),
		Resource:      dpr.Clamp01(0.2 + 0.3*(1-sub.Resource) + sums[dpr.RiskResource]),
		Complexity:    dpr.Clamp01(0.2 + 0.3*(1-sub.Complexity) + sums[dpr.RiskComplexity] + sums[dpr.RiskRegulatory]),
		Environmental: dpr.Clamp01(0.1 + 0.4*f.EnvironmentalComplexity + 0.1*f.TerrainDifficulty + sums[dpr.RiskEnvironmental] + sums[dpr.RiskLocation]),
		Financial:     dpr.Clamp01(financial),
	}

	overall := dpr.Clamp01(weightTimeline*cats.Timeline + weightResource*cats.Resource +
		weightComplexity*cats.Complexity + weightLocation*cats.Environmental + weightHistorical*cats.Financial)

	res := &RiskAnalysis{
		Categories:            cats,
		OverallRisk:           overall,
		RiskScore:             dpr.Round2(overall * 100),
		Level:                 LevelFor(overall),
		SignificantCategories: []string{},
		TopRiskFactors:        topRisks(risks, maxTopRisks),
	}
	for _, c := range cats.ordered() {
		if c.value >= significantRisk {
			res.SignificantCategories = append(res.SignificantCategories, c.name)
		}
	}
	return res
}

// topRisks returns up to n factors by contribution, ties by type then
// description.
func topRisks(risks []dpr.RiskFactor, n int) []dpr.RiskFactor {
	out := dpr.CloneRisks(risks)
	if out == nil {
		return []dpr.RiskFactor{}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ci, cj := contribution(out[i]), contribution(out[j])
		if ci != cj {
			return ci > cj
		}
		if out[i].Type != out[j].Type {
			return out[i].Type < out[j].Type
		}
		return out[i].Description < out[j].Description
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

//Personal.AI order the ending
