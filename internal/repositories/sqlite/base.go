package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"support-desk-api/internal/models"
	"support-desk-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// BaseRepository provides query execution and logging shared by the SQLite repositories
type BaseRepository struct {
	db     *sql.DB
	table  string
	logger *logrus.Logger
}

// NewBaseRepository creates a new base repository
func NewBaseRepository(db *sql.DB, table string, logger *logrus.Logger) *BaseRepository {
	if logger == nil {
		logger = logrus.New()
	}
	return &BaseRepository{
		db:     db,
		table:  table,
		logger: logger,
	}
}

// logQuery logs a query with its execution time
func (r *BaseRepository) logQuery(operation string, query string, args []interface{}, duration time.Duration, err error) {
	fields := logrus.Fields{
		"operation": operation,
		"table":     r.table,
		"query":     strings.Join(strings.Fields(query), " "),
		"args":      len(args),
		"duration":  duration,
	}

	if err != nil {
		fields["error"] = err.Error()
		r.logger.WithFields(fields).Error("Query failed")
	} else {
		r.logger.WithFields(fields).Debug("Query executed")
	}
}

// executeQuery executes a query and logs the result
func (r *BaseRepository) executeQuery(ctx context.Context, operation, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, args...)
	r.logQuery(operation, query, args, time.Since(start), err)

	if err != nil {
		return nil, repositories.UpstreamError(operation, r.table, err)
	}
	return rows, nil
}

// executeQueryRow executes a single-row query and logs the result
func (r *BaseRepository) executeQueryRow(ctx context.Context, operation, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := r.db.QueryRowContext(ctx, query, args...)
	r.logQuery(operation, query, args, time.Since(start), nil)
	return row
}

// executeExec executes a non-query statement and logs the result
func (r *BaseRepository) executeExec(ctx context.Context, operation, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	result, err := r.db.ExecContext(ctx, query, args...)
	r.logQuery(operation, query, args, time.Since(start), err)

	if err != nil {
		if isUniqueViolation(err) {
			return nil, repositories.NewRepositoryError(operation, r.table, "", repositories.ErrDuplicateEntry)
		}
		return nil, repositories.UpstreamError(operation, r.table, err)
	}
	return result, nil
}

// validateID validates that an ID is not empty
func (r *BaseRepository) validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return repositories.NewRepositoryError("validate", r.table, id, repositories.ErrInvalidID)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// nullString maps an empty string to SQL NULL
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}

// attachmentsColumn stores attachments as JSON text, NULL when absent
func attachmentsColumn(raw json.RawMessage) sql.NullString {
	if !models.HasAttachments(raw) {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}
