// Package repositories provides PostgreSQL-backed implementations of the
// scheme, history and analysis run repositories.
package repositories

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// querier is satisfied by *pgxpool.Pool, *pgxpool.Conn and pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// mapDBError converts a driver error into an AppError. A missing row maps to
// the not-found code with msg.
func mapDBError(err error, msg string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.New(apperrors.ErrCodeNotFound, msg)
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return apperrors.Wrap(err, apperrors.ErrCodeConflict, msg)
	}
	return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, msg)
}

// nonNil returns s, or an empty slice so TEXT[] NOT NULL columns accept it.
func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// clampLimit bounds a caller-supplied page size.
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}

//Personal.AI order the ending
