package repositories

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/turtacn/DPR-Intelligence/internal/domain/analysis"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

const runColumns = `id, document_id, checklist_version, overall_score, completeness_percent,
	completion_probability, risk_level, scheme_accuracy, report_key, duration_ms, created_at`

// AnalysisRunRepository implements analysis.RunRepository on analysis_runs.
type AnalysisRunRepository struct {
	db     querier
	logger logging.Logger
}

func NewAnalysisRunRepository(db querier, logger logging.Logger) *AnalysisRunRepository {
	return &AnalysisRunRepository{db: db, logger: logging.OrNop(logger)}
}

var _ analysis.RunRepository = (*AnalysisRunRepository)(nil)

// Save inserts a summary. Runs are immutable, so a duplicate id conflicts.
func (r *AnalysisRunRepository) Save(ctx context.Context, s *analysis.RunSummary) error {
	if s == nil || s.DocumentID == "" {
		return apperrors.New(apperrors.ErrCodeValidation, "document id is required")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO analysis_runs (`+runColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		s.ID, s.DocumentID, s.ChecklistVersion, s.OverallScore, s.CompletenessPercent,
		s.CompletionProbability, s.RiskLevel, s.SchemeAccuracy, s.ReportKey, s.DurationMs, s.CreatedAt)
	if err != nil {
		return mapDBError(err, "save analysis run")
	}
	return nil
}

func (r *AnalysisRunRepository) Get(ctx context.Context, id string) (*analysis.RunSummary, error) {
	rows, err := r.db.Query(ctx, `SELECT `+runColumns+` FROM analysis_runs WHERE id = $1`, id)
	if err != nil {
		return nil, mapDBError(err, "get analysis run")
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanRun)
	if err != nil {
		return nil, mapDBError(err, "analysis run "+id+" not found")
	}
	return &s, nil
}

// ListByDocument returns the newest runs for a document first.
func (r *AnalysisRunRepository) ListByDocument(ctx context.Context, documentID string, limit int) ([]analysis.RunSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+runColumns+`
		FROM analysis_runs
		WHERE document_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2`, documentID, clampLimit(limit, 20, 100))
	if err != nil {
		return nil, mapDBError(err, "list analysis runs")
	}
	out, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, mapDBError(err, "scan analysis runs")
	}
	return out, nil
}

func scanRun(row pgx.CollectableRow) (analysis.RunSummary, error) {
	var s analysis.RunSummary
	err := row.Scan(&s.ID, &s.DocumentID, &s.ChecklistVersion, &s.OverallScore, &s.CompletenessPercent,
		&s.CompletionProbability, &s.RiskLevel, &s.SchemeAccuracy, &s.ReportKey, &s.DurationMs, &s.CreatedAt)
	return s, err
}

//Personal.AI order the ending
