package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/nerrad567/gray-logic-sim/internal/clock"
	"github.com/nerrad567/gray-logic-sim/internal/history"
	"github.com/nerrad567/gray-logic-sim/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-sim/internal/infrastructure/database"
)

var errHistoryPath = errors.New("history.path must name a database file")

// historyFunc queries an open store and writes the result.
type historyFunc func(ctx context.Context, store *history.Store, out io.Writer) error

func newHistoryCmd(configPath *string) *cobra.Command {
	var (
		limit   int
		asJSON  bool
		pruneBy time.Duration
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect recorded transitions",
	}
	cmd.PersistentFlags().BoolVar(&asJSON, "json", false, "print entries as JSON")

	deviceCmd := &cobra.Command{
		Use:   "device <device-id>",
		Short: "Show the most recent transitions of a device",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd.Context(), *configPath, cmd.OutOrStdout(),
				func(ctx context.Context, store *history.Store, out io.Writer) error {
					entries, err := store.DeviceHistory(ctx, args[0], limit)
					if err != nil {
						return err
					}
					return printEntries(out, entries, asJSON)
				})
		},
	}
	deviceCmd.Flags().IntVarP(&limit, "limit", "n", 0, "maximum entries (default 50, max 200)")

	runCmd := &cobra.Command{
		Use:   "run <run-id>",
		Short: "Show every transition of a run in recorded order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withHistory(cmd.Context(), *configPath, cmd.OutOrStdout(),
				func(ctx context.Context, store *history.Store, out io.Writer) error {
					entries, err := store.RunHistory(ctx, args[0])
					if err != nil {
						return err
					}
					return printEntries(out, entries, asJSON)
				})
		},
	}

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Delete transitions recorded before a retention window",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withHistory(cmd.Context(), *configPath, cmd.OutOrStdout(),
				func(ctx context.Context, store *history.Store, out io.Writer) error {
					n, err := store.Prune(ctx, pruneBy)
					if err != nil {
						return err
					}
					_, err = fmt.Fprintf(out, "pruned %d transitions\n", n)
					return err
				})
		},
	}
	pruneCmd.Flags().DurationVar(&pruneBy, "older-than", 30*24*time.Hour, "retention window (wall-clock)")

	cmd.AddCommand(deviceCmd, runCmd, pruneCmd, newMigrateCmd(configPath))
	return cmd
}

// newMigrateCmd manages the history schema. Recording migrates up on its
// own; these commands inspect the schema or roll it back.
func newMigrateCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Inspect or change the history schema",
	}

	statusCmd := &cobra.Command{
		Use:   "status",
		Short: "List applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), *configPath, func(ctx context.Context, db *database.DB) error {
				return printMigrationStatus(ctx, db, cmd.OutOrStdout())
			})
		},
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), *configPath, func(ctx context.Context, db *database.DB) error {
				if err := db.Migrate(ctx); err != nil {
					return fmt.Errorf("running migrations: %w", err)
				}
				return printMigrationStatus(ctx, db, cmd.OutOrStdout())
			})
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withDatabase(cmd.Context(), *configPath, func(ctx context.Context, db *database.DB) error {
				if err := db.MigrateDown(ctx); err != nil {
					return fmt.Errorf("rolling back migration: %w", err)
				}
				return printMigrationStatus(ctx, db, cmd.OutOrStdout())
			})
		},
	}

	cmd.AddCommand(statusCmd, upCmd, downCmd)
	return cmd
}

func printMigrationStatus(ctx context.Context, db *database.DB, out io.Writer) error {
	applied, pending, err := db.MigrationStatus(ctx)
	if err != nil {
		return err
	}
	for _, r := range applied {
		if _, err := fmt.Fprintf(out, "applied\t%s\t%s\n", r.Version, r.AppliedAt.Format(time.RFC3339)); err != nil {
			return err
		}
	}
	for _, m := range pending {
		if _, err := fmt.Fprintf(out, "pending\t%s\t%s\n", m.Version, m.Name); err != nil {
			return err
		}
	}
	return nil
}

// withDatabase opens the configured history database without migrating it.
// The history.enabled switch only governs recording, so these commands work
// on a database written by an earlier run.
func withDatabase(ctx context.Context, configPath string, fn func(ctx context.Context, db *database.DB) error) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if cfg.History.Path == "" || cfg.History.Path == database.MemoryPath {
		return errHistoryPath
	}

	db, err := database.Open(cfg.History)
	if err != nil {
		return fmt.Errorf("opening history database: %w", err)
	}
	defer db.Close() //nolint:errcheck // Read path

	return fn(ctx, db)
}

// withHistory migrates the database and runs fn against a store on it.
func withHistory(ctx context.Context, configPath string, out io.Writer, fn historyFunc) error {
	return withDatabase(ctx, configPath, func(ctx context.Context, db *database.DB) error {
		if err := db.Migrate(ctx); err != nil {
			return fmt.Errorf("running migrations: %w", err)
		}
		return fn(ctx, history.NewStore(db.DB, ""), out)
	})
}

func printEntries(out io.Writer, entries []history.Entry, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	for i := range entries {
		e := &entries[i]
		line := fmt.Sprintf("%s\t%-8s\t%s\t%s -> %s", clock.Format(e.SimTime), e.Source, e.DeviceName, e.From, e.To)
		if e.Removed {
			line += "\t(removed)"
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}
