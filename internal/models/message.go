package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AttachmentPlaceholder is stored as the message text when a reply carries only attachments
const AttachmentPlaceholder = "[Attachment]"

// DefaultAuthorName is used when a reply does not name its author
const DefaultAuthorName = "Customer"

// Message is one entry in a ticket's conversation thread
type Message struct {
	ID          string          `json:"id"`
	TicketID    string          `json:"ticketId"`
	Message     string          `json:"message"`
	AuthorID    *string         `json:"authorId"`
	AuthorName  string          `json:"authorName"`
	AuthorEmail *string         `json:"authorEmail"`
	IsStaff     bool            `json:"isStaff"`
	IsInternal  bool            `json:"isInternal"`
	Attachments json.RawMessage `json:"attachments"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// NewMessage creates a message for a ticket with a generated ID
func NewMessage(ticketID, text string) *Message {
	return &Message{
		ID:          "msg_" + strings.ReplaceAll(uuid.New().String(), "-", ""),
		TicketID:    ticketID,
		Message:     text,
		AuthorName:  DefaultAuthorName,
		Attachments: NullJSON(),
		CreatedAt:   time.Now().UTC(),
	}
}

// IsPublicStaffReply reports whether a customer can see this staff reply
func (m *Message) IsPublicStaffReply() bool {
	return m.IsStaff && !m.IsInternal
}

// ResultingTicketStatus returns the status the parent ticket moves to after this
// message is posted. The second value is false when the status must not change.
func (m *Message) ResultingTicketStatus() (TicketStatus, bool) {
	switch {
	case m.IsStaff && m.IsInternal:
		return "", false
	case m.IsStaff:
		return TicketStatusPending, true
	default:
		return TicketStatusOpen, true
	}
}
