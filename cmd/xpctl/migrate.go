package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/XPEngine_Go/internal/config"
	"github.com/osse101/XPEngine_Go/internal/database"
)

const migrateTimeout = 2 * time.Minute

// migrator is the part of *database.Migrator the commands drive
type migrator interface {
	Up(ctx context.Context) error
	Down(ctx context.Context) error
	Status(ctx context.Context) ([]database.MigrationStatus, error)
	Close() error
}

// openMigrator connects using the DB_* environment; replaced in tests
var openMigrator = func(ctx context.Context, dsn string) (migrator, func(), error) {
	if dsn == "" {
		dsn = config.LoadDatabase().GetDBConnString()
	}
	pool, err := database.NewPool(dsn, 2, time.Minute, 5*time.Minute)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	m, err := database.NewMigrator(pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return m, pool.Close, nil
}

func newMigrateCmd() *cobra.Command {
	var dsn string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "postgres connection string (defaults to DB_* environment)")

	run := func(action func(ctx context.Context, m migrator, out io.Writer) error) func(*cobra.Command, []string) error {
		return func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), migrateTimeout)
			defer cancel()

			m, closePool, err := openMigrator(ctx, dsn)
			if err != nil {
				return err
			}
			defer closePool()
			defer m.Close()

			return action(ctx, m, cmd.OutOrStdout())
		}
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, m migrator, out io.Writer) error {
				if err := m.Up(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "migrations applied")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the most recent migration",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, m migrator, out io.Writer) error {
				if err := m.Down(ctx); err != nil {
					return err
				}
				fmt.Fprintln(out, "rolled back one migration")
				return nil
			}),
		},
		&cobra.Command{
			Use:   "status",
			Short: "List migrations and whether they are applied",
			Args:  cobra.NoArgs,
			RunE: run(func(ctx context.Context, m migrator, out io.Writer) error {
				statuses, err := m.Status(ctx)
				if err != nil {
					return err
				}
				return writeStatus(out, statuses)
			}),
		},
	)
	return cmd
}

func writeStatus(w io.Writer, statuses []database.MigrationStatus) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "VERSION\tSTATE\tFILE")
	for _, s := range statuses {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		fmt.Fprintf(tw, "%05d\t%s\t%s\n", s.Version, state, s.Path)
	}
	return tw.Flush()
}
