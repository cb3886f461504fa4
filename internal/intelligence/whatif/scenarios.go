package whatif

import "github.com/turtacn/DPR-Intelligence/internal/domain/dpr"

// Names of the comprehensive analysis scenarios.
const (
	ScenarioOptimistic          = "optimistic"
	ScenarioPessimistic         = "pessimistic"
	ScenarioAcceleratedTimeline = "accelerated_timeline"
	ScenarioResourceConstrained = "resource_constrained"
	ScenarioFullRiskMitigation  = "full_risk_mitigation"
	ScenarioImprovedAccess      = "improved_access"
)

// NamedScenarios returns the fixed battery in comparison order. Each call
// returns fresh values.
func NamedScenarios() []ScenarioParameters {
	return []ScenarioParameters{
		{
			Name:                    ScenarioOptimistic,
			TimelineMultiplier:      0.9,
			ResourceMultiplier:      1.2,
			ComplexityMultiplier:    0.9,
			AccessibilityMultiplier: 1.1,
		},
		{
			Name:                    ScenarioPessimistic,
			TimelineMultiplier:      1.3,
			ResourceMultiplier:      0.8,
			ComplexityMultiplier:    1.2,
			AccessibilityMultiplier: 0.9,
			CostMultiplier:          1.15,
		},
		{
			Name:               ScenarioAcceleratedTimeline,
			TimelineMultiplier: 0.8,
			ResourceMultiplier: 1.15,
			CostMultiplier:     1.1,
		},
		{
			Name:               ScenarioResourceConstrained,
			TimelineMultiplier: 1.15,
			ResourceMultiplier: 0.7,
		},
		{
			Name:               ScenarioFullRiskMitigation,
			MitigatedRiskTypes: append([]dpr.RiskType(nil), dpr.AllRiskTypes...),
		},
		{
			Name:                    ScenarioImprovedAccess,
			AccessibilityMultiplier: 1.3,
			CostMultiplier:          1.05,
		},
	}
}

//Personal.AI order the ending
