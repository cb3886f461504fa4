package postgres

import (
	"embed"
	"errors"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // pgx5:// driver
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/DPR-Intelligence/pkg/errors"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// ─────────────────────────────────────────────────────────────────────────────
// Migrator
// ─────────────────────────────────────────────────────────────────────────────

// Migrator applies the embedded schema migrations.
type Migrator struct {
	m      *migrate.Migrate
	logger logging.Logger
}

// MigrateURL rewrites a postgres:// DSN to the pgx5:// scheme the migrate
// driver registers.
func MigrateURL(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "postgres", "postgresql":
		u.Scheme = "pgx5"
	}
	return u.String(), nil
}

// NewMigrator opens the embedded source against dsn.
func NewMigrator(dsn string, logger logging.Logger) (*Migrator, error) {
	src, err := iofs.New(migrationFS, "migrations")
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMigrationFailed, "open embedded migrations")
	}
	target, err := MigrateURL(dsn)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMigrationFailed, "parse database url")
	}
	m, err := migrate.NewWithSourceInstance("iofs", src, target)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeMigrationFailed, "create migrate instance")
	}
	return &Migrator{m: m, logger: logging.OrNop(logger)}, nil
}

// Up applies all pending migrations. No pending migrations is not an error.
func (g *Migrator) Up() error {
	if err := g.m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return apperrors.Wrap(err, apperrors.ErrCodeMigrationFailed, "apply migrations")
	}
	v, dirty, _ := g.Version()
	g.logger.Info("database migrations applied", logging.Int("version", int(v)), logging.Bool("dirty", dirty))
	return nil
}

// Down rolls back steps migrations.
func (g *Migrator) Down(steps int) error {
	if steps <= 0 {
		return apperrors.Newf(apperrors.ErrCodeMigrationFailed, "steps must be greater than 0, got %d", steps)
	}
	if err := g.m.Steps(-steps); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return apperrors.New(apperrors.ErrCodeMigrationFailed, "no migrations to roll back")
		}
		return apperrors.Wrapf(err, apperrors.ErrCodeMigrationFailed, "roll back %d step(s)", steps)
	}
	return nil
}

// Version reports the applied version. A fresh database is version 0.
func (g *Migrator) Version() (uint, bool, error) {
	v, dirty, err := g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, apperrors.Wrap(err, apperrors.ErrCodeMigrationFailed, "read migration version")
	}
	return v, dirty, nil
}

// Force marks version as applied without running it, to clear a dirty state.
func (g *Migrator) Force(version int) error {
	if err := g.m.Force(version); err != nil {
		return apperrors.Wrapf(err, apperrors.ErrCodeMigrationFailed, "force version %d", version)
	}
	return nil
}

// Close releases the source and database handles.
func (g *Migrator) Close() error {
	srcErr, dbErr := g.m.Close()
	if srcErr != nil {
		return srcErr
	}
	return dbErr
}

//Personal.AI order the ending
