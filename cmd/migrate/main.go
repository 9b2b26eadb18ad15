package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"netch-backend/config"
	"netch-backend/pkg/database"
	"netch-backend/pkg/logger"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dbURL string

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the onboarding database schema",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&dbURL, "database-url", "", "Postgres connection string (defaults to DATABASE_URL)")

	run := func(command string, args ...string) func(cmd *cobra.Command, _ []string) error {
		return func(cmd *cobra.Command, _ []string) error {
			return withDB(cmd.Context(), dbURL, func(db *sql.DB) error {
				logger.Log.Info("Running migration command", "command", command)
				return database.Migrate(cmd.Context(), db, command, args...)
			})
		}
	}

	root.AddCommand(
		&cobra.Command{Use: "up", Short: "Apply all pending migrations", RunE: run("up")},
		&cobra.Command{Use: "down", Short: "Roll back the latest migration", RunE: run("down")},
		&cobra.Command{Use: "status", Short: "Show applied and pending migrations", RunE: run("status")},
		&cobra.Command{Use: "version", Short: "Print the current schema version", RunE: run("version")},
	)
	return root
}

func withDB(ctx context.Context, dbURL string, fn func(db *sql.DB) error) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	logger.Init(cfg.LogLevel)

	if dbURL == "" {
		dbURL = cfg.DBUrl
	}
	if dbURL == "" {
		return fmt.Errorf("no database url: set DATABASE_URL or --database-url")
	}

	pool, err := database.NewPostgresConnection(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	db := database.SQLDB(pool)
	defer db.Close()

	return fn(db)
}
