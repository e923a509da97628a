package sqlite

import (
	"context"
	"database/sql"

	"support-desk-api/internal/models"
	"support-desk-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// MessageRepository implements repositories.MessageRepository for SQLite
type MessageRepository struct {
	*BaseRepository
}

// NewMessageRepository creates a new SQLite message repository
func NewMessageRepository(db *sql.DB, logger *logrus.Logger) *MessageRepository {
	return &MessageRepository{
		BaseRepository: NewBaseRepository(db, "ticket_messages", logger),
	}
}

// ListByTicket returns a ticket's messages in chronological order
func (r *MessageRepository) ListByTicket(ctx context.Context, ticketID string, includeInternal bool) ([]*models.Message, error) {
	if err := r.validateID(ticketID); err != nil {
		return nil, err
	}

	query := `
		SELECT id, ticket_id, message, author_id, author_name, author_email,
			   is_staff, is_internal, attachments, created_at
		FROM ticket_messages
		WHERE ticket_id = ?`
	if !includeInternal {
		query += ` AND is_internal = 0`
	}
	query += ` ORDER BY created_at ASC, rowid ASC`

	rows, err := r.executeQuery(ctx, "list_by_ticket", query, ticketID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []*models.Message{}
	for rows.Next() {
		var (
			m                                models.Message
			authorID, authorName, authorMail sql.NullString
			attachments                      sql.NullString
		)
		if err := rows.Scan(&m.ID, &m.TicketID, &m.Message, &authorID, &authorName, &authorMail,
			&m.IsStaff, &m.IsInternal, &attachments, &m.CreatedAt); err != nil {
			return nil, repositories.UpstreamError("scan", "ticket message", err)
		}
		m.AuthorID = stringPtr(authorID)
		m.AuthorName = authorName.String
		m.AuthorEmail = stringPtr(authorMail)
		m.Attachments = models.DecodeAttachments([]byte(attachments.String))
		m.CreatedAt = m.CreatedAt.UTC()
		messages = append(messages, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, repositories.UpstreamError("list_by_ticket", "ticket message", err)
	}
	return messages, nil
}

// Create inserts a message
func (r *MessageRepository) Create(ctx context.Context, message *models.Message) error {
	if err := r.validateID(message.TicketID); err != nil {
		return err
	}

	query := `
		INSERT INTO ticket_messages (
			id, ticket_id, message, author_id, author_name, author_email,
			is_staff, is_internal, attachments, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		message.ID,
		message.TicketID,
		message.Message,
		nullStringPtr(message.AuthorID),
		nullString(message.AuthorName),
		nullStringPtr(message.AuthorEmail),
		message.IsStaff,
		message.IsInternal,
		attachmentsColumn(message.Attachments),
		message.CreatedAt.UTC(),
	)
	if err != nil {
		if repositories.IsDuplicate(err) {
			return repositories.DuplicateError("ticket message", "id", message.ID)
		}
		return err
	}
	return nil
}
