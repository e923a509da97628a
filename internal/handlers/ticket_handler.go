package handlers

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"support-desk-api/internal/models"
	"support-desk-api/internal/services"
	"support-desk-api/pkg/lambda"
)

// TicketHandler handles ticket-related requests
type TicketHandler struct {
	ticketService services.TicketService
	logger        *logrus.Logger
}

// NewTicketHandler creates a new ticket handler
func NewTicketHandler(ticketService services.TicketService, logger *logrus.Logger) *TicketHandler {
	return &TicketHandler{
		ticketService: ticketService,
		logger:        logger,
	}
}

// TicketResponse wraps a single ticket
type TicketResponse struct {
	Ticket *models.Ticket `json:"ticket"`
}

// CustomerTicketsResponse is a customer's ticket listing
type CustomerTicketsResponse struct {
	Tickets []*models.Ticket `json:"tickets"`
	Count   int              `json:"count"`
}

// CreateTicketResponse is returned after a ticket is opened
type CreateTicketResponse struct {
	Success bool           `json:"success"`
	Ticket  *models.Ticket `json:"ticket"`
}

// UpdatedTicket is the subset of fields returned after an update
type UpdatedTicket struct {
	ID               string                `json:"id"`
	TicketNumber     int64                 `json:"ticketNumber"`
	Status           models.TicketStatus   `json:"status"`
	Priority         models.TicketPriority `json:"priority"`
	AssignedTo       *string               `json:"assignedTo"`
	AssignedName     *string               `json:"assignedName"`
	CustomerArchived bool                  `json:"customerArchived"`
	AdminArchived    bool                  `json:"adminArchived"`
	ResolvedAt       *time.Time            `json:"resolvedAt"`
	UpdatedAt        time.Time             `json:"updatedAt"`
}

// UpdateTicketResponse is returned after an update
type UpdateTicketResponse struct {
	Success bool          `json:"success"`
	Ticket  UpdatedTicket `json:"ticket"`
}

// @Summary Get a ticket or list a customer's tickets
// @Description With ticketId returns one ticket. Otherwise customerId is required and the customer's tickets are listed newest first.
// @Tags tickets
// @Produce json
// @Param ticketId query string false "Ticket ID"
// @Param customerId query string false "Customer ID"
// @Param status query string false "Status filter" Enums(Open, Pending, Resolved, Closed)
// @Param type query string false "Type filter"
// @Param priority query string false "Priority filter" Enums(normal, high, urgent)
// @Param archived query string false "Archive scope" Enums(true, all)
// @Param limit query int false "Page size" default(50)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} CustomerTicketsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ticket-get [get]
func (h *TicketHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	if ticketID := req.Query("ticketId"); ticketID != "" {
		ticket, err := h.ticketService.GetTicket(ctx, ticketID)
		if err != nil {
			return errorResponse(h.logger, FunctionTicketGet, err)
		}
		return ok(TicketResponse{Ticket: ticket})
	}

	list, err := h.ticketService.ListCustomerTickets(ctx, listRequest(req))
	if err != nil {
		return errorResponse(h.logger, FunctionTicketGet, err)
	}
	return ok(CustomerTicketsResponse{Tickets: list.Tickets, Count: list.Count})
}

// @Summary List tickets for staff
// @Description Lists tickets across customers with pagination totals. The archived filter applies to the admin archive flag.
// @Tags tickets
// @Produce json
// @Param status query string false "Status filter" Enums(Open, Pending, Resolved, Closed)
// @Param type query string false "Type filter"
// @Param priority query string false "Priority filter" Enums(normal, high, urgent)
// @Param archived query string false "Archive scope" Enums(true, all)
// @Param limit query int false "Page size" default(50)
// @Param page query int false "Page number" default(1)
// @Success 200 {object} services.TicketList
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ticket-admin-list [get]
func (h *TicketHandler) HandleAdminList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	listReq := listRequest(req)
	listReq.CustomerID = ""

	list, err := h.ticketService.ListAdminTickets(ctx, listReq)
	if err != nil {
		return errorResponse(h.logger, FunctionTicketAdminList, err)
	}
	return ok(list)
}

// @Summary Open a ticket
// @Tags tickets
// @Accept json
// @Produce json
// @Param ticket body services.CreateTicketRequest true "Ticket data"
// @Success 200 {object} CreateTicketResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ticket-create [post]
func (h *TicketHandler) HandleCreate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body services.CreateTicketRequest
	if err := decodeBody(req, &body); err != nil {
		return errorResponse(h.logger, FunctionTicketCreate, err)
	}

	ticket, err := h.ticketService.CreateTicket(ctx, &body)
	if err != nil {
		return errorResponse(h.logger, FunctionTicketCreate, err)
	}
	return ok(CreateTicketResponse{Success: true, Ticket: ticket})
}

// @Summary Update a ticket
// @Description Partially updates status, priority, assignment or archive flags. Moving to Resolved or Closed stamps resolvedAt.
// @Tags tickets
// @Accept json
// @Produce json
// @Param update body services.UpdateTicketRequest true "Fields to change"
// @Success 200 {object} UpdateTicketResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ticket-update [post]
func (h *TicketHandler) HandleUpdate(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body services.UpdateTicketRequest
	if err := decodeBody(req, &body); err != nil {
		return errorResponse(h.logger, FunctionTicketUpdate, err)
	}

	ticket, err := h.ticketService.UpdateTicket(ctx, &body)
	if err != nil {
		return errorResponse(h.logger, FunctionTicketUpdate, err)
	}

	return ok(UpdateTicketResponse{
		Success: true,
		Ticket: UpdatedTicket{
			ID:               ticket.ID,
			TicketNumber:     ticket.TicketNumber,
			Status:           ticket.Status,
			Priority:         ticket.Priority,
			AssignedTo:       ticket.AssignedTo,
			AssignedName:     ticket.AssignedName,
			CustomerArchived: ticket.CustomerArchived,
			AdminArchived:    ticket.AdminArchived,
			ResolvedAt:       ticket.ResolvedAt,
			UpdatedAt:        ticket.UpdatedAt,
		},
	})
}

func listRequest(req *lambda.Request) *services.ListTicketsRequest {
	return &services.ListTicketsRequest{
		CustomerID: req.Query("customerId"),
		Status:     req.Query("status"),
		Type:       req.Query("type"),
		Priority:   req.Query("priority"),
		Archived:   req.Query("archived"),
		Page:       queryInt(req, "page"),
		Limit:      queryInt(req, "limit"),
	}
}
