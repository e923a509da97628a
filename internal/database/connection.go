package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"support-desk-api/migrations"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
)

// SQLiteConfig holds the local database settings
type SQLiteConfig struct {
	Path        string
	BusyTimeout time.Duration
	Migrate     bool
	Logger      *logrus.Logger
}

// DefaultSQLiteConfig returns a configuration for the local development database
func DefaultSQLiteConfig() *SQLiteConfig {
	return &SQLiteConfig{
		Path:        "./data/support-desk.db",
		BusyTimeout: 5 * time.Second,
		Migrate:     true,
		Logger:      logrus.New(),
	}
}

// OpenSQLite opens the local database, applies pending migrations and checks it responds
func OpenSQLite(ctx context.Context, cfg *SQLiteConfig) (*sql.DB, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	path := cfg.Path
	if path != ":memory:" {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("failed to get absolute database path: %w", err)
		}
		if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		path = abs
	}

	dsn := buildSQLiteDSN(path, cfg.BusyTimeout)
	cfg.Logger.WithFields(logrus.Fields{
		"driver": "sqlite",
		"path":   path,
	}).Info("Opening SQLite database")

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	// A single connection serializes writers, which the ticket counter relies on.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping SQLite database: %w", err)
	}

	if cfg.Migrate {
		m := NewMigrationManager(migrations.SQLite, cfg.Logger)
		if err := m.UpSQLite(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to run migrations: %w", err)
		}
	}

	if err := HealthCheck(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	cfg.Logger.WithField("path", path).Info("SQLite database ready")
	return db, nil
}

// buildSQLiteDSN builds a SQLite DSN with the options the store depends on
func buildSQLiteDSN(path string, busyTimeout time.Duration) string {
	options := []string{"_foreign_keys=on"}
	if path != ":memory:" {
		options = append(options, "_journal_mode=WAL")
	}
	if busyTimeout > 0 {
		options = append(options, fmt.Sprintf("_busy_timeout=%d", busyTimeout.Milliseconds()))
	}
	return fmt.Sprintf("%s?%s", path, strings.Join(options, "&"))
}

// HealthCheck verifies the connection answers queries and enforces foreign keys
func HealthCheck(ctx context.Context, db *sql.DB) error {
	if err := db.PingContext(ctx); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}

	var result int
	if err := db.QueryRowContext(ctx, "SELECT 1").Scan(&result); err != nil {
		return fmt.Errorf("test query failed: %w", err)
	}
	if result != 1 {
		return fmt.Errorf("test query returned unexpected result: %d", result)
	}

	var fkEnabled int
	if err := db.QueryRowContext(ctx, "PRAGMA foreign_keys").Scan(&fkEnabled); err != nil {
		return fmt.Errorf("failed to check foreign key status: %w", err)
	}
	if fkEnabled != 1 {
		return fmt.Errorf("foreign keys are not enabled")
	}
	return nil
}
