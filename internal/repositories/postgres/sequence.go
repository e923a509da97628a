// Package postgres allocates ticket numbers straight from the Postgres sequence
// when a direct database connection is available.
package postgres

import (
	"context"
	"fmt"
	"time"

	"support-desk-api/internal/models"
	"support-desk-api/internal/repositories"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

const nextTicketNumberQuery = "SELECT nextval('ticket_number_seq')"

// rowQuerier is the subset of pgxpool.Pool used by the sequence
type rowQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgxRow
}

type pgxRow interface {
	Scan(dest ...any) error
}

// poolQuerier adapts *pgxpool.Pool to rowQuerier
type poolQuerier struct {
	pool *pgxpool.Pool
}

func (p poolQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgxRow {
	return p.pool.QueryRow(ctx, sql, args...)
}

// TicketSequence implements repositories.TicketNumberSequence over ticket_number_seq
type TicketSequence struct {
	db     rowQuerier
	pool   *pgxpool.Pool
	logger *logrus.Logger
}

// Connect opens a small pool against databaseURL
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns = 4
	cfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open database pool: %w", err)
	}
	return pool, nil
}

// NewTicketSequence creates a sequence reading from pool
func NewTicketSequence(pool *pgxpool.Pool, logger *logrus.Logger) *TicketSequence {
	if logger == nil {
		logger = logrus.New()
	}
	return &TicketSequence{db: poolQuerier{pool: pool}, pool: pool, logger: logger}
}

// NextTicketNumber returns the next value of the sequence
func (s *TicketSequence) NextTicketNumber(ctx context.Context) (int64, error) {
	start := time.Now()
	var next int64
	err := s.db.QueryRow(ctx, nextTicketNumberQuery).Scan(&next)

	fields := logrus.Fields{"query": nextTicketNumberQuery, "duration": time.Since(start)}
	if err != nil {
		s.logger.WithFields(fields).WithError(err).Error("Ticket number allocation failed")
		return 0, repositories.UpstreamError("nextval", "ticket_number_seq", err)
	}
	if next < models.FirstTicketNumber {
		return 0, repositories.UpstreamError("nextval", "ticket_number_seq",
			fmt.Errorf("sequence returned %d, expected at least %d", next, models.FirstTicketNumber))
	}

	s.logger.WithFields(fields).WithField("ticket_number", next).Debug("Ticket number allocated")
	return next, nil
}

// Close releases the pool
func (s *TicketSequence) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
