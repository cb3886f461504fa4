package probability

import (
	"fmt"
	"math"
	"sort"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
)

// Priority of a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Recommendation is an action that should raise the completion probability.
type Recommendation struct {
	Category        string   `json:"category"`
	Priority        Priority `json:"priority"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	EstimatedImpact float64  `json:"estimated_impact"`
}

// GenerateRecommendations applies the threshold rules, orders the result by
// priority, impact and category, and keeps at most limit entries. Features
// must already be normalised.
func GenerateRecommendations(f dpr.ProjectFeatures, sub SubScores, risks []dpr.RiskFactor, limit int) []Recommendation {
	var out []Recommendation
	add := func(cat string, p Priority, impact float64, title, desc string) {
		out = append(out, Recommendation{Category: cat, Priority: p, Title: title, Description: desc, EstimatedImpact: impact})
	}

	if f.DurationMonths > 36 {
		add(CategoryTimeline, PriorityHigh, 5, "Phase the schedule",
			fmt.Sprintf("a %.0f month schedule exceeds 36 months; split it into independently completable phases", f.DurationMonths))
	}
	if sub.Timeline < 0.6 {
		add(CategoryTimeline, PriorityMedium, 4, "Add schedule buffer",
			"timeline score is weak; add float on critical activities and track them weekly")
	}
	if f.ResourceAvailability < 0.5 {
		add(CategoryResource, PriorityHigh, 5, "Secure manpower and materials",
			"resource availability is low; tie up labour contractors and rate contracts before award")
	}
	if f.FundingSecured < 0.5 {
		add(CategoryFinancial, PriorityHigh, 6, "Close the funding tie-up",
			"less than half the funding is secured; obtain sanction or scheme convergence before tendering")
	}
	if f.TechnicalComplexity > 0.7 {
		add(CategoryComplexity, PriorityMedium, 4, "Engage specialist design review",
			"technical complexity is high; commission a proof check and an experienced PMC")
	}
	if f.RegulatoryComplexity > 0.6 {
		add(CategoryComplexity, PriorityHigh, 5, "Front-load statutory approvals",
			"regulatory complexity is high; start land and clearance processes before mobilisation")
	}
	if f.EnvironmentalComplexity > 0.6 {
		add(CategoryEnvironmental, PriorityMedium, 3, "Prepare an environmental management plan",
			"environmental sensitivity is high; budget mitigation and monitoring")
	}
	if f.SiteAccessibility < 0.4 {
		add(CategoryEnvironmental, PriorityMedium, 3, "Plan site access",
			"the site is hard to reach; build access works and camps ahead of main works")
	}
	if f.SimilarProjectsCount < 3 {
		add(CategoryTimeline, PriorityLow, 2, "Benchmark against comparable projects",
			"few comparable projects are known; validate estimates against external precedent")
	}

	high, unmitigated := 0, 0
	for _, r := range risks {
		if r.Impact.Normalize() == dpr.ImpactHigh {
			high++
		}
		if r.Mitigation == "" {
			unmitigated++
		}
	}
	if high >= 2 {
		add(CategoryComplexity, PriorityHigh, 4, "Set up a risk management cell",
			fmt.Sprintf("%d high-impact risks are open; assign owners and review them monthly", high))
	}
	if unmitigated > 0 {
		add(CategoryComplexity, PriorityMedium, math.Min(float64(unmitigated), 4), "Document risk mitigations",
			fmt.Sprintf("%d risk factor(s) have no mitigation recorded", unmitigated))
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority.rank() != out[j].Priority.rank() {
			return out[i].Priority.rank() < out[j].Priority.rank()
		}
		if out[i].EstimatedImpact != out[j].EstimatedImpact {
			return out[i].EstimatedImpact > out[j].EstimatedImpact
		}
		return out[i].Category < out[j].Category
	})
	if len(out) > limit {
		out = out[:limit]
	}
	if out == nil {
		out = []Recommendation{}
	}
	return out
}

// PotentialImprovement sums estimated impacts, capped at limit points.
func PotentialImprovement(recs []Recommendation, limit float64) float64 {
	sum := 0.0
	for _, r := range recs {
		sum += r.EstimatedImpact
	}
	return math.Min(sum, limit)
}

//Personal.AI order the ending
