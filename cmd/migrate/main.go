package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"support-desk-api/internal/config"
	"support-desk-api/internal/database"
	"support-desk-api/migrations"
)

var (
	driver  string
	dsn     string
	steps   int
	verbose bool
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Support desk schema migrations",
		Long:         `Apply, roll back and inspect the ticket store schema on Postgres or the local SQLite store.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&driver, "driver", "d", migrations.Postgres, "Database driver (postgres, sqlite)")
	cmd.PersistentFlags().StringVar(&dsn, "dsn", "", "Connection string (default: DATABASE_URL or SQLITE_PATH)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	down := &cobra.Command{
		Use:   "down",
		Short: "Rollback migrations",
		RunE:  runDown,
	}
	down.Flags().IntVarP(&steps, "steps", "n", 1, "Number of migrations to rollback")

	cmd.AddCommand(
		&cobra.Command{Use: "up", Short: "Run all pending migrations", RunE: runUp},
		down,
		&cobra.Command{Use: "status", Short: "Show migration status", RunE: runStatus},
	)
	return cmd
}

func initEnv() (*database.MigrationManager, string, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, "", nil, fmt.Errorf("failed to load config: %w", err)
	}

	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	logger := config.NewLogger(level, false)

	target := dsn
	if target == "" {
		switch driver {
		case migrations.SQLite:
			target = cfg.DataStore.SQLitePath
		default:
			target = cfg.Database.URL
		}
	}

	logger.WithField("driver", driver).Info("Starting migration tool")
	return database.NewMigrationManager(driver, logger), target, logger, nil
}

func runUp(cmd *cobra.Command, args []string) error {
	manager, target, logger, err := initEnv()
	if err != nil {
		return err
	}
	if err := manager.Up(target); err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}
	logger.Info("Migrations applied")
	return nil
}

func runDown(cmd *cobra.Command, args []string) error {
	manager, target, logger, err := initEnv()
	if err != nil {
		return err
	}
	if err := manager.Down(target, steps); err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	}
	logger.WithField("steps", steps).Info("Migrations rolled back")
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	manager, target, _, err := initEnv()
	if err != nil {
		return err
	}
	info, err := manager.Status(target)
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	if !info.Applied {
		fmt.Fprintf(cmd.OutOrStdout(), "%s: no migrations applied\n", info.Driver)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: version %d (dirty: %t)\n", info.Driver, info.Version, info.Dirty)
	return nil
}
