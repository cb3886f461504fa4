// Package analysis holds the persisted summary of one document analysis.
package analysis

import (
	"context"
	"time"
)

// RunSummary is the queryable slice of an analysis report. The full report
// lives in the archive under ReportKey.
type RunSummary struct {
	ID                    string    `json:"id"`
	DocumentID            string    `json:"document_id"`
	ChecklistVersion      string    `json:"checklist_version"`
	OverallScore          float64   `json:"overall_score"`
	CompletenessPercent   float64   `json:"completeness_percent"`
	CompletionProbability float64   `json:"completion_probability"`
	RiskLevel             string    `json:"risk_level"`
	SchemeAccuracy        float64   `json:"scheme_accuracy"`
	ReportKey             string    `json:"report_key,omitempty"`
	DurationMs            int64     `json:"duration_ms"`
	CreatedAt             time.Time `json:"created_at"`
}

// RunRepository persists run summaries. Get fails with a not-found coded
// error for an unknown id.
type RunRepository interface {
	Save(ctx context.Context, r *RunSummary) error
	Get(ctx context.Context, id string) (*RunSummary, error)
	ListByDocument(ctx context.Context, documentID string, limit int) ([]RunSummary, error)
}

//Personal.AI order the ending
