package postgrest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"support-desk-api/internal/models"
	"support-desk-api/internal/repositories"
)

const messagesTable = "ticket_messages"

var errEmptyRepresentation = errors.New("data store returned no row for the write")

func errBadSequenceValue(value string) error {
	return fmt.Errorf("unexpected sequence value %q", value)
}

// messageRow mirrors a row of the ticket_messages table
type messageRow struct {
	ID          string          `json:"id"`
	TicketID    string          `json:"ticket_id"`
	Message     string          `json:"message"`
	AuthorID    *string         `json:"author_id"`
	AuthorName  *string         `json:"author_name"`
	AuthorEmail *string         `json:"author_email"`
	IsStaff     bool            `json:"is_staff"`
	IsInternal  bool            `json:"is_internal"`
	Attachments json.RawMessage `json:"attachments"`
	CreatedAt   timestamp       `json:"created_at"`
}

func (r *messageRow) toModel() *models.Message {
	return &models.Message{
		ID:          r.ID,
		TicketID:    r.TicketID,
		Message:     r.Message,
		AuthorID:    r.AuthorID,
		AuthorName:  deref(r.AuthorName),
		AuthorEmail: r.AuthorEmail,
		IsStaff:     r.IsStaff,
		IsInternal:  r.IsInternal,
		Attachments: models.DecodeAttachments(r.Attachments),
		CreatedAt:   r.CreatedAt.Time,
	}
}

func messageRowFromModel(m *models.Message) *messageRow {
	row := &messageRow{
		ID:          m.ID,
		TicketID:    m.TicketID,
		Message:     m.Message,
		AuthorID:    m.AuthorID,
		AuthorName:  nullable(m.AuthorName),
		AuthorEmail: m.AuthorEmail,
		IsStaff:     m.IsStaff,
		IsInternal:  m.IsInternal,
		Attachments: m.Attachments,
		CreatedAt:   timestamp{m.CreatedAt},
	}
	if len(row.Attachments) == 0 {
		row.Attachments = models.NullJSON()
	}
	return row
}

// MessageRepository implements repositories.MessageRepository over the REST data store
type MessageRepository struct {
	client *Client
}

// NewMessageRepository creates a new REST-backed message repository
func NewMessageRepository(client *Client) *MessageRepository {
	return &MessageRepository{client: client}
}

// ListByTicket returns a ticket's messages in chronological order
func (r *MessageRepository) ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]*models.Message, error) {
	query := url.Values{}
	query.Set("select", "*")
	query.Set("ticket_id", eq(ticketID))
	query.Set("order", "created_at.asc")
	if !includeInternal {
		query.Set("is_internal", "is.false")
	}

	var rows []messageRow
	if _, err := r.client.do(ctx, http.MethodGet, messagesTable, query, nil, nil, &rows); err != nil {
		return nil, err
	}

	messages := make([]*models.Message, 0, len(rows))
	for i := range rows {
		messages = append(messages, rows[i].toModel())
	}
	return messages, nil
}

// Create inserts a message row
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	var rows []messageRow
	if _, err := r.client.do(ctx, http.MethodPost, messagesTable, nil, messageRowFromModel(message), []string{preferRepresentation}, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		return repositories.UpstreamError("create", "ticket message", errEmptyRepresentation)
	}
	*message = *rows[0].toModel()
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
