// Package worker adapts Kafka analysis requests to the analysis service.
package worker

import (
	"context"

	"github.com/turtacn/DPR-Intelligence/internal/application/analysis"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// Analyzer runs one analysis. *analysis.Service implements it.
type Analyzer interface {
	Analyze(ctx context.Context, req *analysis.AnalyzeRequest) (*analysis.AnalysisReport, error)
}

// Subscriber registers topic handlers. *kafka.Consumer implements it.
type Subscriber interface {
	Subscribe(topic string, handler kafka.MessageHandler)
}

// Handler consumes analysis.requested events. Completion and failure events
// are published by the analysis service sinks.
type Handler struct {
	svc    Analyzer
	logger logging.Logger
}

func NewHandler(svc Analyzer, logger logging.Logger) *Handler {
	return &Handler{svc: svc, logger: logging.OrNop(logger).Named("worker")}
}

// Register subscribes the handler on the request topic.
func (h *Handler) Register(s Subscriber) {
	s.Subscribe(kafka.TopicAnalysisRequested, h.HandleAnalysisRequested)
}

// HandleAnalysisRequested decodes and analyses one request. Malformed
// messages and deterministic pipeline failures are permanent; only transient
// failures are returned for retry.
func (h *Handler) HandleAnalysisRequested(ctx context.Context, msg *kafka.Message) error {
	env, err := kafka.MessageToEventEnvelope(msg)
	if err != nil {
		return kafka.Permanent(err)
	}
	if env.EventType != kafka.EventAnalysisRequested {
		h.logger.Warn("unexpected event type", logging.String("event_type", env.EventType), logging.Int64("offset", msg.Offset))
		return nil
	}

	var p kafka.AnalysisRequestedPayload
	if err := env.DecodePayload(&p); err != nil {
		return kafka.Permanent(err)
	}
	if p.RequestID == "" {
		p.RequestID = env.EventID
	}

	report, err := h.svc.Analyze(ctx, &analysis.AnalyzeRequest{
		DocumentID:       p.DocumentID,
		RequestID:        p.RequestID,
		Text:             p.Text,
		Structured:       p.Structured,
		MentionedSchemes: p.MentionedSchemes,
		RiskFactors:      p.RiskFactors,
		Options:          analysis.Options{SkipSchemes: p.SkipSchemes},
	})
	if err != nil {
		if Transient(err) {
			return err
		}
		return kafka.Permanent(err)
	}

	h.logger.Info("analysis request processed",
		logging.String("request_id", p.RequestID),
		logging.String("document_id", report.DocumentID),
		logging.String("analysis_id", report.ID))
	return nil
}

// Transient reports whether a retry could succeed.
func Transient(err error) bool {
	for _, code := range []apperrors.ErrorCode{
		apperrors.ErrCodeTimeout,
		apperrors.ErrCodeServiceUnavailable,
		apperrors.ErrCodeSchemeRegistryUnavailable,
		apperrors.ErrCodeDatabaseError,
		apperrors.ErrCodeCacheError,
	} {
		if apperrors.IsCode(err, code) {
			return true
		}
	}
	return false
}

//Personal.AI order the ending
