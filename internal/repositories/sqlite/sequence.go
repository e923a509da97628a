package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"support-desk-api/internal/models"
	"support-desk-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// TicketSequence hands out ticket numbers from the single-row ticket_sequence table
type TicketSequence struct {
	*BaseRepository
}

// NewTicketSequence creates a new SQLite ticket number sequence
func NewTicketSequence(db *sql.DB, logger *logrus.Logger) *TicketSequence {
	return &TicketSequence{
		BaseRepository: NewBaseRepository(db, "ticket_sequence", logger),
	}
}

// NextTicketNumber increments the counter and returns the new value in one statement
func (s *TicketSequence) NextTicketNumber(ctx context.Context) (int64, error) {
	query := `UPDATE ticket_sequence SET value = value + 1 WHERE id = 1 RETURNING value`

	var next int64
	if err := s.executeQueryRow(ctx, "next", query).Scan(&next); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repositories.UpstreamError("next", "ticket_sequence", fmt.Errorf("counter row missing"))
		}
		return 0, repositories.UpstreamError("next", "ticket_sequence", err)
	}
	if next < models.FirstTicketNumber {
		return 0, repositories.UpstreamError("next", "ticket_sequence",
			fmt.Errorf("counter returned %d, expected at least %d", next, models.FirstTicketNumber))
	}
	return next, nil
}
