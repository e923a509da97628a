package sqlite

import (
	"database/sql"

	"support-desk-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// NewRepositoryContainer builds the ticket repositories over a local database.
// Equipment profiles live in the commerce platform, so EquipmentRepo is left for the caller.
func NewRepositoryContainer(db *sql.DB, logger *logrus.Logger) *repositories.RepositoryContainer {
	if logger == nil {
		logger = logrus.New()
	}
	return &repositories.RepositoryContainer{
		TicketRepo:     NewTicketRepository(db, logger),
		TicketSequence: NewTicketSequence(db, logger),
		MessageRepo:    NewMessageRepository(db, logger),
	}
}
