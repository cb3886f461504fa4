package kafka

import (
	"context"
	"time"

	"github.com/turtacn/DPR-Intelligence/internal/domain/analysis"
	"github.com/turtacn/DPR-Intelligence/internal/domain/checklist"
	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// AnalysisRequestedPayload asks the worker to analyse a document.
type AnalysisRequestedPayload struct {
	RequestID        string               `json:"request_id,omitempty"`
	DocumentID       string               `json:"document_id,omitempty"`
	Text             string               `json:"text"`
	Structured       dpr.StructuredFields `json:"structured,omitempty"`
	MentionedSchemes []string             `json:"mentioned_schemes,omitempty"`
	RiskFactors      []dpr.RiskFactor     `json:"risk_factors,omitempty"`
	SkipSchemes      bool                 `json:"skip_schemes,omitempty"`
}

// AnalysisCompletedPayload carries the run summary of a finished analysis.
// The full report is fetched from the archive by ReportKey.
type AnalysisCompletedPayload struct {
	analysis.RunSummary
	CompletedAt time.Time `json:"completed_at"`
}

// EventWriter publishes enveloped events. *Producer implements it.
type EventWriter interface {
	PublishEvent(ctx context.Context, topic, eventType, key string, payload any) error
}

// Events publishes the domain events of the analysis pipeline and the
// checklist service.
type Events struct {
	w   EventWriter
	now func() time.Time
}

// NewEvents returns an event publisher over w.
func NewEvents(w EventWriter) *Events {
	return &Events{w: w, now: func() time.Time { return time.Now().UTC() }}
}

// PublishAnalysisRequested enqueues a document for the worker, keyed by
// document id so retries of one document stay ordered.
func (e *Events) PublishAnalysisRequested(ctx context.Context, p *AnalysisRequestedPayload) error {
	if p == nil || p.Text == "" {
		return errors.New(errors.ErrCodeValidation, "analysis request text is required")
	}
	return e.w.PublishEvent(ctx, TopicAnalysisRequested, EventAnalysisRequested, p.DocumentID, p)
}

func (e *Events) PublishAnalysisCompleted(ctx context.Context, s *analysis.RunSummary) error {
	if s == nil {
		return errors.New(errors.ErrCodeValidation, "run summary is required")
	}
	return e.w.PublishEvent(ctx, TopicAnalysisCompleted, EventAnalysisCompleted, s.DocumentID,
		AnalysisCompletedPayload{RunSummary: *s, CompletedAt: e.now()})
}

func (e *Events) PublishAnalysisFailed(ctx context.Context, documentID, requestID string, cause error) error {
	p := AnalysisFailedPayload{
		DocumentID: documentID,
		RequestID:  requestID,
		Code:       string(errors.GetCode(cause)),
		FailedAt:   e.now(),
	}
	if cause != nil {
		p.Message = cause.Error()
	}
	return e.w.PublishEvent(ctx, TopicAnalysisFailed, EventAnalysisFailed, documentID, p)
}

func (e *Events) PublishChecklistUpdated(ctx context.Context, c *checklist.Checklist, source string) error {
	if c == nil {
		return errors.New(errors.ErrCodeValidation, "checklist is required")
	}
	return e.w.PublishEvent(ctx, TopicChecklistUpdated, EventChecklistUpdated, c.Version, ChecklistUpdatedPayload{
		Version:   c.Version,
		Source:    source,
		Sections:  len(c.Sections),
		Items:     c.FieldCount(),
		UpdatedAt: e.now(),
	})
}

//Personal.AI order the ending
