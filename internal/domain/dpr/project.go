package dpr

import (
	"math"
	"strings"
	"time"
)

// RiskType is the category a risk factor belongs to.
type RiskType string

const (
	RiskTimeline      RiskType = "TIMELINE"
	RiskResource      RiskType = "RESOURCE"
	RiskComplexity    RiskType = "COMPLEXITY"
	RiskEnvironmental RiskType = "ENVIRONMENTAL"
	RiskFinancial     RiskType = "FINANCIAL"
	RiskRegulatory    RiskType = "REGULATORY"
	RiskLocation      RiskType = "LOCATION"
)

// AllRiskTypes lists risk types in canonical order.
var AllRiskTypes = []RiskType{
	RiskTimeline, RiskResource, RiskComplexity, RiskEnvironmental,
	RiskFinancial, RiskRegulatory, RiskLocation,
}

// IsValid reports whether t is a known risk type.
func (t RiskType) IsValid() bool {
	for _, r := range AllRiskTypes {
		if r == t {
			return true
		}
	}
	return false
}

// ParseRiskType accepts the canonical name case-insensitively.
func ParseRiskType(s string) (RiskType, bool) {
	t := RiskType(strings.ToUpper(strings.TrimSpace(s)))
	return t, t.IsValid()
}

// Normalize returns the canonical spelling of t. Unknown types keep their
// upper-cased form so they still fail IsValid.
func (t RiskType) Normalize() RiskType {
	n, _ := ParseRiskType(string(t))
	return n
}

// ImpactLevel grades how much a risk hurts when it materialises.
type ImpactLevel string

const (
	ImpactLow    ImpactLevel = "LOW"
	ImpactMedium ImpactLevel = "MEDIUM"
	ImpactHigh   ImpactLevel = "HIGH"
)

// Downgrade returns the next lower tier. LOW stays LOW.
func (l ImpactLevel) Downgrade() ImpactLevel {
	switch l {
	case ImpactHigh:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// Normalize maps unknown values to MEDIUM.
func (l ImpactLevel) Normalize() ImpactLevel {
	switch ImpactLevel(strings.ToUpper(string(l))) {
	case ImpactLow:
		return ImpactLow
	case ImpactHigh:
		return ImpactHigh
	default:
		return ImpactMedium
	}
}

// RiskFactor is a single identified threat to project completion.
type RiskFactor struct {
	ID          string      `json:"id"`
	Type        RiskType    `json:"type"`
	Impact      ImpactLevel `json:"impact"`
	Probability float64     `json:"probability"`
	Description string      `json:"description"`
	Mitigation  string      `json:"mitigation,omitempty"`
}

// CloneRisks returns a deep copy of rs.
func CloneRisks(rs []RiskFactor) []RiskFactor {
	if rs == nil {
		return nil
	}
	out := make([]RiskFactor, len(rs))
	copy(out, rs)
	return out
}

// NormalizeRisks returns a copy of rs with canonical risk types, so
// "timeline" and "TIMELINE" land in the same category.
func NormalizeRisks(rs []RiskFactor) []RiskFactor {
	out := CloneRisks(rs)
	for i := range out {
		out[i].Type = out[i].Type.Normalize()
	}
	return out
}

// ProjectFeatures is the numeric profile the probability calculus runs on.
// Unit-interval fields are clamped by Normalized.
type ProjectFeatures struct {
	DurationMonths          float64 `json:"duration_months"`
	EstimatedCost           float64 `json:"estimated_cost"`
	TechnicalComplexity     float64 `json:"technical_complexity"`
	RegulatoryComplexity    float64 `json:"regulatory_complexity"`
	EnvironmentalComplexity float64 `json:"environmental_complexity"`
	ResourceAvailability    float64 `json:"resource_availability"`
	FundingSecured          float64 `json:"funding_secured"`
	SiteAccessibility       float64 `json:"site_accessibility"`
	TerrainDifficulty       float64 `json:"terrain_difficulty"`
	HistoricalSuccessRate   float64 `json:"historical_success_rate"`
	SimilarProjectsCount    int     `json:"similar_projects_count"`
	Sector                  string  `json:"sector,omitempty"`
	State                   string  `json:"state,omitempty"`
}

// Normalized returns a copy with every field clamped to its declared range.
func (f ProjectFeatures) Normalized() ProjectFeatures {
	f.DurationMonths = math.Max(0, f.DurationMonths)
	f.EstimatedCost = math.Max(0, f.EstimatedCost)
	f.TechnicalComplexity = Clamp01(f.TechnicalComplexity)
	f.RegulatoryComplexity = Clamp01(f.RegulatoryComplexity)
	f.EnvironmentalComplexity = Clamp01(f.EnvironmentalComplexity)
	f.ResourceAvailability = Clamp01(f.ResourceAvailability)
	f.FundingSecured = Clamp01(f.FundingSecured)
	f.SiteAccessibility = Clamp01(f.SiteAccessibility)
	f.TerrainDifficulty = Clamp01(f.TerrainDifficulty)
	f.HistoricalSuccessRate = Clamp01(f.HistoricalSuccessRate)
	if f.SimilarProjectsCount < 0 {
		f.SimilarProjectsCount = 0
	}
	return f
}

// StructuredFields are facts supplied alongside the raw text, typically from
// a form. They take precedence over values extracted from prose.
type StructuredFields struct {
	Sector        string     `json:"sector,omitempty"`
	State         string     `json:"state,omitempty"`
	District      string     `json:"district,omitempty"`
	EstimatedCost float64    `json:"estimated_cost,omitempty"`
	StartDate     *time.Time `json:"start_date,omitempty"`
	EndDate       *time.Time `json:"end_date,omitempty"`
}

// Crore is ten million rupees.
const Crore = 1e7

// Clamp bounds v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 bounds v to the unit interval.
func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 { return math.Round(v*100) / 100 }

const daysPerMonth = 365.25 / 12

// MonthsBetween returns the whole number of months from a to b, rounded to
// the nearest month. A b before a yields 0.
func MonthsBetween(a, b time.Time) float64 {
	if !b.After(a) {
		return 0
	}
	return math.Round(b.Sub(a).Hours() / 24 / daysPerMonth)
}

//Personal.AI order the ending
