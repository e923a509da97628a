package repositories

import (
	"context"

	"support-desk-api/internal/models"
)

// TicketRepository defines ticket persistence operations
type TicketRepository interface {
	// GetByID retrieves a ticket by its ID
	GetByID(ctx context.Context, id string) (*models.Ticket, error)

	// List returns one page of tickets ordered newest first, plus the total
	// number of tickets matching the filters
	List(ctx context.Context, filters *TicketFilters) ([]*models.Ticket, int64, error)

	// Create persists a new ticket. TicketNumber must already be assigned.
	Create(ctx context.Context, ticket *models.Ticket) error

	// Update applies a partial update and returns the stored ticket
	Update(ctx context.Context, id string, patch *models.TicketPatch) (*models.Ticket, error)
}

// TicketNumberSequence hands out display numbers for new tickets.
// Implementations must be atomic across concurrent callers; the first number
// handed out by an empty store is models.FirstTicketNumber.
type TicketNumberSequence interface {
	NextTicketNumber(ctx context.Context) (int64, error)
}

// MessageRepository defines ticket message persistence operations
type MessageRepository interface {
	// ListByTicket returns a ticket's messages oldest first
	ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]*models.Message, error)

	// Create appends a message to a ticket
	Create(ctx context.Context, message *models.Message) error
}

// EquipmentRepository stores per-customer equipment profiles
type EquipmentRepository interface {
	// ListCustomers returns customers whose profile holds at least one machine
	ListCustomers(ctx context.Context, cursor string, limit int) ([]models.EquipmentCustomer, models.PageInfo, error)

	// GetProfile returns a customer's profile, or an empty profile when none is stored
	GetProfile(ctx context.Context, customerID string) (*models.EquipmentProfile, error)

	// SaveProfile replaces a customer's profile in a single write
	SaveProfile(ctx context.Context, customerID string, profile *models.EquipmentProfile) error
}

// RepositoryContainer holds the repositories used by the services
type RepositoryContainer struct {
	TicketRepo     TicketRepository
	TicketSequence TicketNumberSequence
	MessageRepo    MessageRepository
	EquipmentRepo  EquipmentRepository
}
