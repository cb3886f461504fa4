// Package history holds completed infrastructure projects used as precedent
// when estimating completion probability.
package history

import (
	"context"
	"time"
)

// HistoricalProject is a past project with planned and actual outcomes.
type HistoricalProject struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Sector        string     `json:"sector"`
	State         string     `json:"state"`
	PlannedMonths float64    `json:"planned_months"`
	ActualMonths  float64    `json:"actual_months"`
	PlannedCost   float64    `json:"planned_cost"`
	ActualCost    float64    `json:"actual_cost"`
	Completed     bool       `json:"completed"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}

// OverrunTolerance is the schedule slack a project may use and still count
// as a success.
const OverrunTolerance = 1.2

// Succeeded reports whether the project completed within tolerance of plan.
func (p HistoricalProject) Succeeded() bool {
	if !p.Completed {
		return false
	}
	if p.PlannedMonths <= 0 {
		return true
	}
	return p.ActualMonths <= OverrunTolerance*p.PlannedMonths
}

// Repository is the precedent store contract.
type Repository interface {
	FindSimilar(ctx context.Context, sector, state string, limit int) ([]HistoricalProject, error)
	Save(ctx context.Context, p *HistoricalProject) error
}

//Personal.AI order the ending
