package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tomitschek/crptrial/internal/adapters/sqlite"
	"github.com/tomitschek/crptrial/internal/app"
	"github.com/tomitschek/crptrial/internal/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate [version]",
	Short: "Run database migrations",
	Long: `Run database migrations.

Without arguments, runs all pending migrations (up).
With a version number, migrates down to that version.

Examples:
  crptrial migrate      # Run all pending migrations
  crptrial migrate 0    # Rollback all migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := app.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := migrate.EnsureMigrationsTable(ctx, db); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}
	currentVersion, _, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to get current version: %w", err)
	}
	fmt.Printf("Current version: %d\n", currentVersion)

	if len(args) == 0 {
		if err := migrate.RunAll(ctx, db); err != nil {
			return err
		}
	} else {
		targetVersion, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid version number: %s", args[0])
		}
		switch {
		case targetVersion < currentVersion:
			if err := migrate.DownTo(ctx, db, targetVersion); err != nil {
				return err
			}
		case targetVersion == currentVersion:
			fmt.Println("Already at target version")
			return nil
		default:
			if err := migrate.RunAll(ctx, db); err != nil {
				return err
			}
		}
	}

	newVersion, _, err := migrate.CurrentVersion(ctx, db)
	if err != nil {
		return err
	}
	fmt.Printf("Migrated to version %d\n", newVersion)
	return nil
}
