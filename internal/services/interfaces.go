package services

import (
	"context"
	"encoding/json"

	"support-desk-api/internal/models"
	"support-desk-api/internal/notify"
)

// TicketService defines ticket business logic operations
type TicketService interface {
	GetTicket(ctx context.Context, id string) (*models.Ticket, error)
	ListCustomerTickets(ctx context.Context, req *ListTicketsRequest) (*TicketList, error)
	ListAdminTickets(ctx context.Context, req *ListTicketsRequest) (*TicketList, error)
	CreateTicket(ctx context.Context, req *CreateTicketRequest) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, req *UpdateTicketRequest) (*models.Ticket, error)
}

// MessageService defines ticket conversation operations
type MessageService interface {
	ListMessages(ctx context.Context, ticketID string, includeInternal bool) ([]*models.Message, error)
	Reply(ctx context.Context, req *ReplyRequest) (*models.Message, error)
}

// NotificationService renders and sends a single templated email
type NotificationService interface {
	Send(ctx context.Context, req *NotificationRequest) (*NotificationResult, error)
}

// EquipmentService defines equipment profile operations
type EquipmentService interface {
	ListCustomers(ctx context.Context, cursor string, limit int) (*CustomerPage, error)
	GetProfile(ctx context.Context, customerID string) (*CustomerEquipment, error)
	SaveProfile(ctx context.Context, customerID string, profile *models.EquipmentProfile) (*CustomerEquipment, error)
	AddMachine(ctx context.Context, customerID string, machine *models.Machine) (*CustomerEquipment, error)
}

// NotificationDispatcher fans notifications out without blocking the caller
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notification notify.Notification)
}

// Request/Response types

// ListTicketsRequest carries the raw listing filters from the query string
type ListTicketsRequest struct {
	CustomerID string `json:"customerId"`
	Status     string `json:"status" validate:"omitempty,oneof=Open Pending Resolved Closed"`
	Type       string `json:"type" validate:"omitempty,oneof=return parts equipment-help order-issue general"`
	Priority   string `json:"priority" validate:"omitempty,oneof=normal high urgent"`
	Archived   string `json:"archived"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
}

// TicketList is one page of a ticket listing
type TicketList struct {
	Tickets    []*models.Ticket `json:"tickets"`
	Count      int              `json:"count"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}

// CreateTicketRequest represents a request to open a ticket
type CreateTicketRequest struct {
	CustomerID    string          `json:"customerId" validate:"required"`
	CustomerEmail string          `json:"customerEmail" validate:"omitempty,email"`
	CustomerName  string          `json:"customerName" validate:"max=200"`
	Type          string          `json:"type" validate:"required,oneof=return parts equipment-help order-issue general"`
	Priority      string          `json:"priority" validate:"omitempty,oneof=normal high urgent"`
	Subject       string          `json:"subject" validate:"required,max=200"`
	Description   string          `json:"description" validate:"required,max=10000"`
	OrderNumber   *string         `json:"orderNumber,omitempty" validate:"omitempty,max=100"`
	ReturnReason  *string         `json:"returnReason,omitempty" validate:"omitempty,max=1000"`
	EquipmentID   *string         `json:"equipmentId,omitempty" validate:"omitempty,max=100"`
	EquipmentName *string         `json:"equipmentName,omitempty" validate:"omitempty,max=200"`
	PartNumber    *string         `json:"partNumber,omitempty" validate:"omitempty,max=100"`
	Attachments   json.RawMessage `json:"attachments,omitempty" swaggertype:"array,object"`
}

// UpdateTicketRequest represents a partial ticket update. Omitted fields are left untouched.
type UpdateTicketRequest struct {
	TicketID         string  `json:"ticketId" validate:"required"`
	Status           *string `json:"status,omitempty"`
	Priority         *string `json:"priority,omitempty"`
	AssignedTo       *string `json:"assignedTo,omitempty" validate:"omitempty,max=100"`
	AssignedName     *string `json:"assignedName,omitempty" validate:"omitempty,max=200"`
	CustomerArchived *bool   `json:"customerArchived,omitempty"`
	AdminArchived    *bool   `json:"adminArchived,omitempty"`
}

// ReplyRequest represents a new message on a ticket
type ReplyRequest struct {
	TicketID    string          `json:"ticketId" validate:"required"`
	Message     string          `json:"message" validate:"max=10000"`
	AuthorID    *string         `json:"authorId,omitempty"`
	AuthorName  string          `json:"authorName" validate:"max=200"`
	AuthorEmail *string         `json:"authorEmail,omitempty" validate:"omitempty,email"`
	IsStaff     bool            `json:"isStaff"`
	IsInternal  bool            `json:"isInternal"`
	Attachments json.RawMessage `json:"attachments,omitempty" swaggertype:"array,object"`
}

// NotificationRequest is the body of an explicit notification call
type NotificationRequest struct {
	Type           string `json:"type" validate:"required"`
	TicketID       string `json:"ticketId"`
	TicketNumber   int64  `json:"ticketNumber"`
	Subject        string `json:"subject"`
	Description    string `json:"description"`
	TicketType     string `json:"ticketType"`
	Priority       string `json:"priority"`
	Status         string `json:"status"`
	PreviousStatus string `json:"previousStatus"`
	Message        string `json:"message"`
	AuthorName     string `json:"authorName"`
	CustomerEmail  string `json:"customerEmail" validate:"omitempty,email"`
	CustomerName   string `json:"customerName"`
	AdminEmail     string `json:"adminEmail" validate:"omitempty,email"`
}

// NotificationResult reports the outcome of a send
type NotificationResult = notify.Result

// CustomerPage is one page of customers that have saved equipment
type CustomerPage struct {
	Customers []models.EquipmentCustomer `json:"customers"`
	PageInfo  models.PageInfo            `json:"pageInfo"`
}

// CustomerEquipment pairs a normalized customer id with its profile
type CustomerEquipment struct {
	CustomerID string                   `json:"customerId"`
	Equipment  *models.EquipmentProfile `json:"equipment"`
}
