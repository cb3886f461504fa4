package repositories

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/turtacn/DPR-Intelligence/internal/domain/scheme"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

const schemeColumns = `id, code, name, ministry, description, objectives, min_funding, max_funding,
	sectors, regions, keywords, status, verification_status, required_documents,
	eligibility_criteria, processing_time_days`

// SchemeRepository implements scheme.Repository on the schemes table.
type SchemeRepository struct {
	db     querier
	logger logging.Logger
}

// NewSchemeRepository accepts a pool or a transaction.
func NewSchemeRepository(db querier, logger logging.Logger) *SchemeRepository {
	return &SchemeRepository{db: db, logger: logging.OrNop(logger)}
}

var _ scheme.Repository = (*SchemeRepository)(nil)

func (r *SchemeRepository) ListAll(ctx context.Context) ([]scheme.GovernmentScheme, error) {
	return r.list(ctx, `SELECT `+schemeColumns+` FROM schemes ORDER BY lower(code) COLLATE "C", code COLLATE "C"`)
}

func (r *SchemeRepository) ListActive(ctx context.Context) ([]scheme.GovernmentScheme, error) {
	return r.list(ctx, `SELECT `+schemeColumns+` FROM schemes WHERE upper(status) = $1 ORDER BY lower(code) COLLATE "C", code COLLATE "C"`,
		string(scheme.StatusActive))
}

func (r *SchemeRepository) list(ctx context.Context, sql string, args ...any) ([]scheme.GovernmentScheme, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, mapDBError(err, "list schemes")
	}
	out, err := pgx.CollectRows(rows, scanScheme)
	if err != nil {
		return nil, mapDBError(err, "scan schemes")
	}
	return out, nil
}

// GetByCode matches the code case-insensitively.
func (r *SchemeRepository) GetByCode(ctx context.Context, code string) (*scheme.GovernmentScheme, error) {
	rows, err := r.db.Query(ctx, `SELECT `+schemeColumns+` FROM schemes WHERE upper(code) = upper($1)`,
		strings.TrimSpace(code))
	if err != nil {
		return nil, mapDBError(err, "get scheme")
	}
	s, err := pgx.CollectExactlyOneRow(rows, scanScheme)
	if err != nil {
		if apperrors.IsCode(mapDBError(err, ""), apperrors.ErrCodeNotFound) {
			return nil, apperrors.Newf(apperrors.ErrCodeSchemeNotFound, "scheme %q not found", code)
		}
		return nil, mapDBError(err, "get scheme")
	}
	return &s, nil
}

// Upsert inserts s or replaces the row with the same code.
func (r *SchemeRepository) Upsert(ctx context.Context, s *scheme.GovernmentScheme) error {
	if s == nil || strings.TrimSpace(s.Code) == "" {
		return apperrors.New(apperrors.ErrCodeValidation, "scheme code is required")
	}
	id := s.ID
	if id == "" {
		id = "scheme-" + strings.ToLower(s.Code)
	}
	status := s.Status
	if status == "" {
		status = scheme.StatusActive
	}
	verification := s.VerificationStatus
	if verification == "" {
		verification = scheme.Pending
	}

	_, err := r.db.Exec(ctx, `
		INSERT INTO schemes (`+schemeColumns+`, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,NOW())
		ON CONFLICT (code) DO UPDATE SET
			name = EXCLUDED.name,
			ministry = EXCLUDED.ministry,
			description = EXCLUDED.description,
			objectives = EXCLUDED.objectives,
			min_funding = EXCLUDED.min_funding,
			max_funding = EXCLUDED.max_funding,
			sectors = EXCLUDED.sectors,
			regions = EXCLUDED.regions,
			keywords = EXCLUDED.keywords,
			status = EXCLUDED.status,
			verification_status = EXCLUDED.verification_status,
			required_documents = EXCLUDED.required_documents,
			eligibility_criteria = EXCLUDED.eligibility_criteria,
			processing_time_days = EXCLUDED.processing_time_days,
			updated_at = NOW()`,
		id, s.Code, s.Name, s.Ministry, s.Description, nonNil(s.Objectives), s.MinFunding, s.MaxFunding,
		nonNil(s.Sectors), nonNil(s.Regions), nonNil(s.Keywords), string(status), string(verification),
		nonNil(s.RequiredDocuments), nonNil(s.EligibilityCriteria), s.ProcessingTimeDays)
	if err != nil {
		return mapDBError(err, "upsert scheme")
	}
	r.logger.Debug("scheme upserted", logging.String("code", s.Code))
	return nil
}

func scanScheme(row pgx.CollectableRow) (scheme.GovernmentScheme, error) {
	var (
		s            scheme.GovernmentScheme
		status       string
		verification string
	)
	err := row.Scan(&s.ID, &s.Code, &s.Name, &s.Ministry, &s.Description, &s.Objectives,
		&s.MinFunding, &s.MaxFunding, &s.Sectors, &s.Regions, &s.Keywords, &status, &verification,
		&s.RequiredDocuments, &s.EligibilityCriteria, &s.ProcessingTimeDays)
	s.Status = scheme.Status(status)
	s.VerificationStatus = scheme.VerificationStatus(verification)
	return s, err
}

//Personal.AI order the ending
