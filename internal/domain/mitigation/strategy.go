// Package mitigation defines risk mitigation strategies. The simulator reads
// effectiveness and cost from here when a scenario mitigates a risk type
// without an explicit effectiveness.
package mitigation

import (
	"strings"

	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// Strategy is a named countermeasure for one risk type.
type Strategy struct {
	ID            string       `json:"id"`
	RiskType      dpr.RiskType `json:"risk_type"`
	Title         string       `json:"title"`
	Description   string       `json:"description"`
	Effectiveness float64      `json:"effectiveness"`
	CostPercent   float64      `json:"cost_percent"`
	Actions       []string     `json:"actions,omitempty"`
}

// Validate checks a strategy before it enters the registry.
func (s *Strategy) Validate() error {
	if s == nil {
		return apperrors.New(apperrors.ErrCodeStrategyInvalid, "strategy is nil")
	}
	if strings.TrimSpace(s.ID) == "" {
		return apperrors.New(apperrors.ErrCodeStrategyInvalid, "strategy id is required")
	}
	if strings.TrimSpace(s.Title) == "" {
		return apperrors.New(apperrors.ErrCodeStrategyInvalid, "strategy title is required")
	}
	if !s.RiskType.IsValid() {
		return apperrors.Newf(apperrors.ErrCodeStrategyInvalid, "unknown risk type %q", s.RiskType)
	}
	if s.Effectiveness <= 0 || s.Effectiveness > 1 {
		return apperrors.Newf(apperrors.ErrCodeStrategyInvalid, "effectiveness %g must be in (0,1]", s.Effectiveness)
	}
	if s.CostPercent < 0 {
		return apperrors.Newf(apperrors.ErrCodeStrategyInvalid, "cost_percent %g must be non-negative", s.CostPercent)
	}
	return nil
}

// Provider supplies the best strategy for a risk type.
type Provider interface {
	BestFor(rt dpr.RiskType) (Strategy, bool)
}

// DefaultStrategies returns the seed strategies, one or two per risk type.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{
			ID: "mit-timeline-buffer", RiskType: dpr.RiskTimeline,
			Title:         "Schedule buffer and critical path monitoring",
			Description:   "Add float to critical activities and track them weekly",
			Effectiveness: 0.6, CostPercent: 2,
			Actions: []string{"add 10-15% schedule buffer", "weekly critical path review", "plan work around monsoon"},
		},
		{
			ID: "mit-timeline-fasttrack", RiskType: dpr.RiskTimeline,
			Title:         "Fast-track parallel packages",
			Description:   "Split the work into packages executed in parallel",
			Effectiveness: 0.5, CostPercent: 4,
			Actions: []string{"split contract packages", "parallel mobilisation"},
		},
		{
			ID: "mit-resource-contracts", RiskType: dpr.RiskResource,
			Title:         "Framework contracts for labour and materials",
			Description:   "Lock supply of critical materials and skilled labour in advance",
			Effectiveness: 0.55, CostPercent: 3,
			Actions: []string{"rate contracts for cement and steel", "empanel labour contractors"},
		},
		{
			ID: "mit-complexity-pmc", RiskType: dpr.RiskComplexity,
			Title:         "Project management consultant",
			Description:   "Engage a PMC with experience of comparable structures",
			Effectiveness: 0.5, CostPercent: 2.5,
			Actions: []string{"appoint PMC", "independent design proof check"},
		},
		{
			ID: "mit-env-clearance", RiskType: dpr.RiskEnvironmental,
			Title:         "Early environmental and forest clearance",
			Description:   "Start clearance applications before tendering",
			Effectiveness: 0.6, CostPercent: 1,
			Actions: []string{"file forest clearance early", "environmental management plan", "compensatory afforestation land"},
		},
		{
			ID: "mit-financial-escrow", RiskType: dpr.RiskFinancial,
			Title:         "Escrowed funding and price variation clause",
			Description:   "Secure committed funds and index contract prices",
			Effectiveness: 0.5, CostPercent: 1.5,
			Actions: []string{"escrow state share", "price variation clause", "contingency of 5%"},
		},
		{
			ID: "mit-regulatory-cell", RiskType: dpr.RiskRegulatory,
			Title:         "Dedicated land and approvals cell",
			Description:   "A cell that drives land acquisition and statutory approvals",
			Effectiveness: 0.55, CostPercent: 1,
			Actions: []string{"land acquisition cell", "single window approvals tracker"},
		},
		{
			ID: "mit-location-access", RiskType: dpr.RiskLocation,
			Title:         "Site access works and local camps",
			Description:   "Build temporary access roads and site camps before main works",
			Effectiveness: 0.45, CostPercent: 2,
			Actions: []string{"temporary access road", "site labour camp", "local material sourcing"},
		},
	}
}

//Personal.AI order the ending
