package database

import (
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"support-desk-api/migrations"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/sirupsen/logrus"
)

// MigrationManager applies the embedded schema migrations for one driver
type MigrationManager struct {
	driver string
	logger *logrus.Logger
}

// MigrationInfo describes the schema version of a database
type MigrationInfo struct {
	Driver  string
	Version uint
	Dirty   bool
	Applied bool
}

// NewMigrationManager creates a migration manager for migrations.Postgres or migrations.SQLite
func NewMigrationManager(driver string, logger *logrus.Logger) *MigrationManager {
	if logger == nil {
		logger = logrus.New()
	}
	return &MigrationManager{driver: driver, logger: logger}
}

// Up applies every pending migration to the database at dsn
func (m *MigrationManager) Up(dsn string) error {
	mig, err := m.open(dsn)
	if err != nil {
		return err
	}
	defer mig.Close()
	return m.up(mig)
}

// UpSQLite applies pending migrations over an already open SQLite handle.
// The handle stays open afterwards.
func (m *MigrationManager) UpSQLite(db *sql.DB) error {
	src, err := m.source()
	if err != nil {
		return err
	}
	defer src.Close()

	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	// Closing the migrate instance would close db as well.
	mig, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m.up(mig)
}

// Down rolls back the given number of migrations
func (m *MigrationManager) Down(dsn string, steps int) error {
	if steps <= 0 {
		return fmt.Errorf("steps must be positive, got %d", steps)
	}

	mig, err := m.open(dsn)
	if err != nil {
		return err
	}
	defer mig.Close()

	version, _, err := mig.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("no migrations to roll back")
	}
	if err != nil {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	m.logger.WithFields(logrus.Fields{
		"driver":          m.driver,
		"current_version": version,
		"steps":           steps,
	}).Info("Rolling back migrations")

	if err := mig.Steps(-steps); err != nil {
		return fmt.Errorf("failed to roll back migration: %w", err)
	}

	newVersion, _, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}
	m.logger.WithField("new_version", newVersion).Info("Rollback completed successfully")
	return nil
}

// Status reports the current schema version
func (m *MigrationManager) Status(dsn string) (*MigrationInfo, error) {
	mig, err := m.open(dsn)
	if err != nil {
		return nil, err
	}
	defer mig.Close()

	version, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return nil, fmt.Errorf("failed to get migration version: %w", err)
	}

	return &MigrationInfo{
		Driver:  m.driver,
		Version: version,
		Dirty:   dirty,
		Applied: err == nil,
	}, nil
}

func (m *MigrationManager) up(mig *migrate.Migrate) error {
	m.logger.WithField("driver", m.driver).Info("Starting database migrations...")

	current, dirty, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		m.logger.WithField("version", current).Warn("Database is in dirty state, forcing version")
		if err := mig.Force(int(current)); err != nil {
			return fmt.Errorf("failed to force migration version: %w", err)
		}
	}

	if err := mig.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, _, err := mig.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get new migration version: %w", err)
	}
	m.logger.WithFields(logrus.Fields{
		"driver":      m.driver,
		"old_version": current,
		"new_version": version,
	}).Info("Migrations completed successfully")
	return nil
}

func (m *MigrationManager) source() (source.Driver, error) {
	files, err := migrations.Source(m.driver)
	if err != nil {
		return nil, err
	}
	src, err := iofs.New(files, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to open migration source: %w", err)
	}
	return src, nil
}

func (m *MigrationManager) open(dsn string) (*migrate.Migrate, error) {
	url, err := migrationURL(m.driver, dsn)
	if err != nil {
		return nil, err
	}

	src, err := m.source()
	if err != nil {
		return nil, err
	}

	mig, err := migrate.NewWithSourceInstance("iofs", src, url)
	if err != nil {
		src.Close()
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return mig, nil
}

// migrationURL turns a connection string into the URL form golang-migrate expects
func migrationURL(driver, dsn string) (string, error) {
	if strings.TrimSpace(dsn) == "" {
		return "", fmt.Errorf("no database configured for %s migrations", driver)
	}

	switch driver {
	case migrations.Postgres:
		for _, prefix := range []string{"postgres://", "postgresql://"} {
			if strings.HasPrefix(dsn, prefix) {
				return "pgx5://" + strings.TrimPrefix(dsn, prefix), nil
			}
		}
		if strings.HasPrefix(dsn, "pgx5://") {
			return dsn, nil
		}
		return "", fmt.Errorf("unsupported postgres connection string")
	case migrations.SQLite:
		path := strings.TrimPrefix(dsn, "sqlite3://")
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute database path: %w", err)
		}
		return "sqlite3://" + abs, nil
	}
	return "", fmt.Errorf("unknown migration driver %q", driver)
}
