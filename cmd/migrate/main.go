package main

// Database and template maintenance:
//   go run ./cmd/migrate            # apply migrations
//   go run ./cmd/migrate down       # roll back one migration
//   go run ./cmd/migrate status
//   go run ./cmd/migrate templates  # render and upload template files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"contract-scanner/internal/bootstrap"
	"contract-scanner/internal/shared/config"
	"contract-scanner/internal/shared/storage/db"
	"contract-scanner/internal/shared/telemetry"
	"contract-scanner/internal/templates"
)

func main() {
	defer telemetry.Sync()
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error()})
		telemetry.Sync()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Apply database migrations and seed template files",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(cmd.Context(), db.RunMigrations)
		},
	}
	root.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), db.RunMigrations)
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back the latest migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), db.RollbackMigration)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Print migration status",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDB(cmd.Context(), db.MigrationStatus)
			},
		},
		newTemplatesCmd(),
	)
	return root
}

func newTemplatesCmd() *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "Render catalog sources and store them in the template store",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			ctx := cmd.Context()
			catalog, err := templates.LoadCatalogFile(cfg.TemplatesCatalog)
			if err != nil {
				return err
			}
			store, err := bootstrap.TemplateStore(ctx, cfg)
			if err != nil {
				return err
			}
			res, err := templates.Seed(ctx, catalog, store, overwrite)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "templates: %d written, %d skipped\n", res.Written, res.Skipped)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace files that already exist")
	return cmd
}

func withDB(ctx context.Context, fn func(context.Context, *sql.DB) error) error {
	cfg := config.Load()
	if cfg.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultMigrateOptions()))
	if err != nil {
		return err
	}
	defer database.Close()
	return fn(ctx, database)
}
