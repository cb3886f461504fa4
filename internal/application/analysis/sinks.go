package analysis

import (
	"context"

	runs "github.com/turtacn/DPR-Intelligence/internal/domain/analysis"
	"github.com/turtacn/DPR-Intelligence/internal/domain/dpr"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/feature_aggregator"
	"github.com/turtacn/DPR-Intelligence/internal/intelligence/whatif"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// ReportArchive stores full reports. Put returns the object key.
type ReportArchive interface {
	Put(ctx context.Context, id, documentID string, report any) (string, error)
	Get(ctx context.Context, id string, dest any) error
}

// MetadataIndexer makes a document's search metadata queryable.
type MetadataIndexer interface {
	IndexMetadata(ctx context.Context, md *feature_aggregator.SearchMetadata) error
}

// EventPublisher announces analysis outcomes.
type EventPublisher interface {
	PublishAnalysisCompleted(ctx context.Context, summary *runs.RunSummary) error
	PublishAnalysisFailed(ctx context.Context, documentID, requestID string, cause error) error
}

// SessionStarter opens a what-if session for a profile.
type SessionStarter interface {
	StartSession(ctx context.Context, features dpr.ProjectFeatures, risks []dpr.RiskFactor) (*whatif.SimulationSession, error)
}

// Sinks receive finished reports. Every field is optional.
type Sinks struct {
	Archive ReportArchive
	Indexer MetadataIndexer
	Runs    runs.RunRepository
	Events  EventPublisher
}

// Summarize is the persisted summary of report.
func Summarize(report *AnalysisReport) *runs.RunSummary {
	sum := &runs.RunSummary{
		ID:         report.ID,
		DocumentID: report.DocumentID,
		DurationMs: report.DurationMs,
		CreatedAt:  report.CreatedAt,
	}
	if report.Gap != nil {
		sum.ChecklistVersion = report.Gap.ChecklistVersion
		sum.OverallScore = report.Gap.OverallScore
		sum.CompletenessPercent = report.Gap.CompletenessPercent
	}
	if report.Probability != nil {
		sum.CompletionProbability = report.Probability.CompletionProbability
		sum.RiskLevel = string(report.Probability.Classification.Level)
	}
	if report.Schemes != nil {
		sum.SchemeAccuracy = report.Schemes.Accuracy
	}
	return sum
}

// deliver hands report to each configured sink in order: archive, index, run
// summary, completion event. The summary carries the archive key when the
// archive write succeeded.
func (s *Service) deliver(parent context.Context, report *AnalysisReport) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.cfg.SinkTimeout)
	defer cancel()

	sum := Summarize(report)
	log := s.logger.With(logging.String("analysis_id", report.ID))

	if s.sinks.Archive != nil {
		key, err := s.sinks.Archive.Put(ctx, report.ID, report.DocumentID, report)
		if err != nil {
			log.Warn("report archive failed", logging.Err(err))
		} else {
			sum.ReportKey = key
		}
	}
	if s.sinks.Indexer != nil {
		if err := s.sinks.Indexer.IndexMetadata(ctx, report.Metadata); err != nil {
			log.Warn("metadata indexing failed", logging.Err(err))
		}
	}
	if s.sinks.Runs != nil {
		if err := s.sinks.Runs.Save(ctx, sum); err != nil {
			log.Warn("run summary save failed", logging.Err(err))
		}
	}
	if s.sinks.Events != nil {
		if err := s.sinks.Events.PublishAnalysisCompleted(ctx, sum); err != nil {
			log.Warn("completion event failed", logging.Err(err))
		}
	}
}

func (s *Service) notifyFailure(parent context.Context, req *AnalyzeRequest, cause error) {
	if s.sinks.Events == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), s.cfg.SinkTimeout)
	defer cancel()
	if err := s.sinks.Events.PublishAnalysisFailed(ctx, req.DocumentID, req.RequestID, cause); err != nil {
		s.logger.Warn("failure event failed", logging.String("document_id", req.DocumentID), logging.Err(err))
	}
}

// GetReport reads an archived report.
func (s *Service) GetReport(ctx context.Context, id string) (*AnalysisReport, error) {
	if s.sinks.Archive == nil {
		return nil, apperrors.New(apperrors.ErrCodeServiceUnavailable, "report archive is not configured")
	}
	var report AnalysisReport
	if err := s.sinks.Archive.Get(ctx, id, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// ListRuns returns run summaries for a document, newest first.
func (s *Service) ListRuns(ctx context.Context, documentID string, limit int) ([]runs.RunSummary, error) {
	if s.sinks.Runs == nil {
		return nil, apperrors.New(apperrors.ErrCodeServiceUnavailable, "run history is not configured")
	}
	return s.sinks.Runs.ListByDocument(ctx, documentID, limit)
}

//Personal.AI order the ending
