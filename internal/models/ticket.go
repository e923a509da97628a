package models

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TicketStatus represents where a ticket sits in its lifecycle
type TicketStatus string

const (
	TicketStatusOpen     TicketStatus = "Open"
	TicketStatusPending  TicketStatus = "Pending"
	TicketStatusResolved TicketStatus = "Resolved"
	TicketStatusClosed   TicketStatus = "Closed"
)

// TicketPriority represents how urgently a ticket needs attention
type TicketPriority string

const (
	TicketPriorityNormal TicketPriority = "normal"
	TicketPriorityHigh   TicketPriority = "high"
	TicketPriorityUrgent TicketPriority = "urgent"
)

// TicketType represents the kind of support request
type TicketType string

const (
	TicketTypeReturn        TicketType = "return"
	TicketTypeParts         TicketType = "parts"
	TicketTypeEquipmentHelp TicketType = "equipment-help"
	TicketTypeOrderIssue    TicketType = "order-issue"
	TicketTypeGeneral       TicketType = "general"
)

// FirstTicketNumber is the display number assigned to the first ticket in an empty store
const FirstTicketNumber int64 = 1001

// Ticket represents a customer support request
type Ticket struct {
	ID               string          `json:"id"`
	TicketNumber     int64           `json:"ticketNumber"`
	CustomerID       string          `json:"customerId"`
	CustomerEmail    string          `json:"customerEmail"`
	CustomerName     string          `json:"customerName"`
	Type             TicketType      `json:"type"`
	Priority         TicketPriority  `json:"priority"`
	Status           TicketStatus    `json:"status"`
	Subject          string          `json:"subject"`
	Description      string          `json:"description"`
	OrderNumber      *string         `json:"orderNumber"`
	ReturnReason     *string         `json:"returnReason"`
	EquipmentID      *string         `json:"equipmentId"`
	EquipmentName    *string         `json:"equipmentName"`
	PartNumber       *string         `json:"partNumber"`
	Attachments      json.RawMessage `json:"attachments"`
	CustomerArchived bool            `json:"customerArchived"`
	AdminArchived    bool            `json:"adminArchived"`
	AssignedTo       *string         `json:"assignedTo,omitempty"`
	AssignedName     *string         `json:"assignedName,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
	ResolvedAt       *time.Time      `json:"resolvedAt,omitempty"`
}

// NewTicket creates an open ticket with a generated ID and creation timestamps
func NewTicket(customerID string, ticketType TicketType, subject, description string) *Ticket {
	now := time.Now().UTC()
	return &Ticket{
		ID:          NewTicketID(),
		CustomerID:  customerID,
		Type:        ticketType,
		Priority:    TicketPriorityNormal,
		Status:      TicketStatusOpen,
		Subject:     subject,
		Description: description,
		Attachments: NullJSON(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NewTicketID generates an opaque ticket identifier
func NewTicketID() string {
	return "tkt_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// IsValid reports whether the status is one of the known lifecycle states
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusOpen, TicketStatusPending, TicketStatusResolved, TicketStatusClosed:
		return true
	}
	return false
}

// IsTerminal reports whether moving into this status stamps resolvedAt
func (s TicketStatus) IsTerminal() bool {
	return s == TicketStatusResolved || s == TicketStatusClosed
}

// IsValid reports whether the priority is known
func (p TicketPriority) IsValid() bool {
	switch p {
	case TicketPriorityNormal, TicketPriorityHigh, TicketPriorityUrgent:
		return true
	}
	return false
}

// IsValid reports whether the ticket type is known
func (t TicketType) IsValid() bool {
	switch t {
	case TicketTypeReturn, TicketTypeParts, TicketTypeEquipmentHelp, TicketTypeOrderIssue, TicketTypeGeneral:
		return true
	}
	return false
}

// TicketStatuses lists every status in lifecycle order
func TicketStatuses() []TicketStatus {
	return []TicketStatus{TicketStatusOpen, TicketStatusPending, TicketStatusResolved, TicketStatusClosed}
}

// TicketPriorities lists every priority from lowest to highest
func TicketPriorities() []TicketPriority {
	return []TicketPriority{TicketPriorityNormal, TicketPriorityHigh, TicketPriorityUrgent}
}

// TicketPatch carries a partial ticket update. Nil fields are left untouched.
type TicketPatch struct {
	Status           *TicketStatus
	Priority         *TicketPriority
	AssignedTo       *string
	AssignedName     *string
	CustomerArchived *bool
	AdminArchived    *bool
	ResolvedAt       *time.Time
	UpdatedAt        time.Time
}

// IsEmpty reports whether the patch changes nothing besides updatedAt
func (p *TicketPatch) IsEmpty() bool {
	return p.Status == nil && p.Priority == nil && p.AssignedTo == nil && p.AssignedName == nil &&
		p.CustomerArchived == nil && p.AdminArchived == nil
}

// Apply copies the patch onto an existing ticket
func (p *TicketPatch) Apply(t *Ticket) {
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssignedTo != nil {
		t.AssignedTo = p.AssignedTo
	}
	if p.AssignedName != nil {
		t.AssignedName = p.AssignedName
	}
	if p.CustomerArchived != nil {
		t.CustomerArchived = *p.CustomerArchived
	}
	if p.AdminArchived != nil {
		t.AdminArchived = *p.AdminArchived
	}
	if p.ResolvedAt != nil {
		t.ResolvedAt = p.ResolvedAt
	}
	t.UpdatedAt = p.UpdatedAt
}
