package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/turtacn/DPR-Intelligence/internal/domain/history"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

const historyColumns = `id, name, sector, state, planned_months, actual_months, planned_cost,
	actual_cost, completed, completed_at`

// HistoryRepository implements history.Repository on historical_projects.
type HistoryRepository struct {
	db     querier
	logger logging.Logger
}

func NewHistoryRepository(db querier, logger logging.Logger) *HistoryRepository {
	return &HistoryRepository{db: db, logger: logging.OrNop(logger)}
}

var _ history.Repository = (*HistoryRepository)(nil)

// FindSimilar returns projects in the same sector, preferring the same state
// and then the most recently completed. An empty sector matches nothing.
func (r *HistoryRepository) FindSimilar(ctx context.Context, sector, state string, limit int) ([]history.HistoricalProject, error) {
	if sector == "" {
		return nil, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+historyColumns+`
		FROM historical_projects
		WHERE lower(sector) = lower($1)
		ORDER BY (lower(state) = lower($2)) DESC, completed_at DESC NULLS LAST, id
		LIMIT $3`, sector, state, clampLimit(limit, 20, 200))
	if err != nil {
		return nil, mapDBError(err, "find similar projects")
	}
	out, err := pgx.CollectRows(rows, scanHistorical)
	if err != nil {
		return nil, mapDBError(err, "scan historical projects")
	}
	return out, nil
}

// Save inserts or replaces p, assigning an id when empty.
func (r *HistoryRepository) Save(ctx context.Context, p *history.HistoricalProject) error {
	if p == nil || p.Name == "" {
		return apperrors.New(apperrors.ErrCodeValidation, "project name is required")
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO historical_projects (`+historyColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			sector = EXCLUDED.sector,
			state = EXCLUDED.state,
			planned_months = EXCLUDED.planned_months,
			actual_months = EXCLUDED.actual_months,
			planned_cost = EXCLUDED.planned_cost,
			actual_cost = EXCLUDED.actual_cost,
			completed = EXCLUDED.completed,
			completed_at = EXCLUDED.completed_at`,
		p.ID, p.Name, p.Sector, p.State, p.PlannedMonths, p.ActualMonths, p.PlannedCost,
		p.ActualCost, p.Completed, p.CompletedAt)
	if err != nil {
		return mapDBError(err, "save historical project")
	}
	r.logger.Debug("historical project saved", logging.String("id", p.ID), logging.String("sector", p.Sector))
	return nil
}

func scanHistorical(row pgx.CollectableRow) (history.HistoricalProject, error) {
	var p history.HistoricalProject
	err := row.Scan(&p.ID, &p.Name, &p.Sector, &p.State, &p.PlannedMonths, &p.ActualMonths,
		&p.PlannedCost, &p.ActualCost, &p.Completed, &p.CompletedAt)
	return p, err
}

//Personal.AI order the ending
