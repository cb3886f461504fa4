package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/database/postgres"
	"github.com/turtacn/DPR-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/DPR-Intelligence/pkg/errors"
)

// NewMigrateCmd manages the PostgreSQL schema used by the history, scheme
// registry and analysis run tables.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "migrate",
		Short:       "Apply or roll back database migrations",
		Annotations: map[string]string{annotationOffline: "true"},
	}

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps <= 0 {
				return errors.New(errors.ErrCodeValidation, "--steps must be positive")
			}
			return withMigrator(cmd, func(m *postgres.Migrator) error {
				if err := m.Down(steps); err != nil {
					return err
				}
				PrintSuccess(cmd, fmt.Sprintf("rolled back %d migration(s)", steps))
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m *postgres.Migrator) error {
					if err := m.Up(); err != nil {
						return err
					}
					PrintSuccess(cmd, "migrations applied")
					return nil
				})
			},
		},
		down,
		&cobra.Command{
			Use:   "version",
			Short: "Print the current schema version",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withMigrator(cmd, func(m *postgres.Migrator) error {
					v, dirty, err := m.Version()
					if err != nil {
						return err
					}
					state := "clean"
					if dirty {
						state = "dirty"
					}
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (%s)\n", v, state)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "force <version>",
			Short: "Set the schema version without running migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var v int
				if _, err := fmt.Sscanf(args[0], "%d", &v); err != nil {
					return errors.Newf(errors.ErrCodeValidation, "invalid version %q", args[0])
				}
				return withMigrator(cmd, func(m *postgres.Migrator) error {
					if err := m.Force(v); err != nil {
						return err
					}
					PrintSuccess(cmd, fmt.Sprintf("forced version %d", v))
					return nil
				})
			},
		},
	)
	return cmd
}

func withMigrator(cmd *cobra.Command, fn func(*postgres.Migrator) error) error {
	cliCtx, err := GetCLIContext(cmd)
	if err != nil {
		return err
	}
	if !cliCtx.Config.Database.Enabled {
		return errors.New(errors.ErrCodeValidation, "database is not enabled in the configuration")
	}
	m, err := postgres.NewMigrator(cliCtx.Config.Database.DSN(), cliCtx.Logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := m.Close(); cerr != nil {
			cliCtx.Logger.Warn("failed to close migrator", logging.Err(cerr))
		}
	}()
	return fn(m)
}

//Personal.AI order the ending
