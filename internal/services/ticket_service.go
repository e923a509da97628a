package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"support-desk-api/internal/models"
	"support-desk-api/internal/notify"
	"support-desk-api/internal/repositories"
)

// ticketService implements the TicketService interface
type ticketService struct {
	ticketRepo repositories.TicketRepository
	sequence   repositories.TicketNumberSequence
	dispatcher NotificationDispatcher
	validator  *validator.Validate
	logger     *logrus.Logger
	now        func() time.Time
}

// NewTicketService creates a new ticket service instance. dispatcher may be nil,
// in which case ticket creation sends no notifications.
func NewTicketService(ticketRepo repositories.TicketRepository, sequence repositories.TicketNumberSequence, dispatcher NotificationDispatcher, logger *logrus.Logger) TicketService {
	if logger == nil {
		logger = logrus.New()
	}
	return &ticketService{
		ticketRepo: ticketRepo,
		sequence:   sequence,
		dispatcher: dispatcher,
		validator:  newValidator(),
		logger:     logger,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// GetTicket retrieves a ticket by ID
func (s *ticketService) GetTicket(ctx context.Context, id string) (*models.Ticket, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, repositories.ValidationMessage("ticket", "ticketId is required")
	}
	return s.ticketRepo.GetByID(ctx, id)
}

// ListCustomerTickets lists one customer's tickets, honouring the customer archive flag
func (s *ticketService) ListCustomerTickets(ctx context.Context, req *ListTicketsRequest) (*TicketList, error) {
	if req == nil || strings.TrimSpace(req.CustomerID) == "" {
		return nil, repositories.ValidationMessage("ticket", "customerId or ticketId is required")
	}
	return s.list(ctx, req, repositories.CustomerView)
}

// ListAdminTickets lists tickets across all customers, honouring the admin archive flag
func (s *ticketService) ListAdminTickets(ctx context.Context, req *ListTicketsRequest) (*TicketList, error) {
	if req == nil {
		req = &ListTicketsRequest{}
	}
	return s.list(ctx, req, repositories.AdminView)
}

func (s *ticketService) list(ctx context.Context, req *ListTicketsRequest, view repositories.TicketView) (*TicketList, error) {
	if err := validateRequest(s.validator, "ticket", req); err != nil {
		return nil, err
	}

	filters := &repositories.TicketFilters{
		CustomerID: strings.TrimSpace(req.CustomerID),
		View:       view,
		Archived:   repositories.ParseArchiveScope(req.Archived),
		Limit:      req.Limit,
	}
	if req.Status != "" {
		status := models.TicketStatus(req.Status)
		filters.Status = &status
	}
	if req.Type != "" {
		ticketType := models.TicketType(req.Type)
		filters.Type = &ticketType
	}
	if req.Priority != "" {
		priority := models.TicketPriority(req.Priority)
		filters.Priority = &priority
	}
	filters.Normalize()

	page := req.Page
	if page < 1 {
		page = 1
	}
	filters.Offset = repositories.PageOffset(page, filters.Limit)

	tickets, total, err := s.ticketRepo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	if tickets == nil {
		tickets = []*models.Ticket{}
	}

	totalPages := int((total + int64(filters.Limit) - 1) / int64(filters.Limit))
	return &TicketList{
		Tickets:    tickets,
		Count:      len(tickets),
		Total:      total,
		Page:       page,
		Limit:      filters.Limit,
		TotalPages: totalPages,
	}, nil
}

// CreateTicket validates the request, assigns the next ticket number and persists an open ticket
func (s *ticketService) CreateTicket(ctx context.Context, req *CreateTicketRequest) (*models.Ticket, error) {
	if req == nil {
		return nil, repositories.ValidationMessage("ticket", "request body is required")
	}

	req.CustomerID = strings.TrimSpace(req.CustomerID)
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Description = strings.TrimSpace(req.Description)
	if err := validateRequest(s.validator, "ticket", req); err != nil {
		return nil, err
	}

	ticket := models.NewTicket(req.CustomerID, models.TicketType(req.Type), req.Subject, req.Description)
	ticket.CustomerEmail = req.CustomerEmail
	ticket.CustomerName = req.CustomerName
	if req.Priority != "" {
		ticket.Priority = models.TicketPriority(req.Priority)
	}
	ticket.OrderNumber = trimPtr(req.OrderNumber)
	ticket.ReturnReason = trimPtr(req.ReturnReason)
	ticket.EquipmentID = trimPtr(req.EquipmentID)
	ticket.EquipmentName = trimPtr(req.EquipmentName)
	ticket.PartNumber = trimPtr(req.PartNumber)
	ticket.Attachments = models.DecodeAttachments(req.Attachments)

	number, err := s.sequence.NextTicketNumber(ctx)
	if err != nil {
		return nil, err
	}
	ticket.TicketNumber = number

	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"ticket_id":     ticket.ID,
		"ticket_number": ticket.TicketNumber,
		"type":          ticket.Type,
	}).Info("Ticket created")

	s.notifyCreated(ctx, ticket)
	return ticket, nil
}

// notifyCreated queues the customer confirmation and the admin alert
func (s *ticketService) notifyCreated(ctx context.Context, ticket *models.Ticket) {
	if s.dispatcher == nil {
		return
	}

	base := notify.Notification{
		TicketID:      ticket.ID,
		TicketNumber:  ticket.TicketNumber,
		Subject:       ticket.Subject,
		Description:   ticket.Description,
		TicketType:    string(ticket.Type),
		Priority:      string(ticket.Priority),
		Status:        string(ticket.Status),
		CustomerEmail: ticket.CustomerEmail,
		CustomerName:  ticket.CustomerName,
	}

	if ticket.CustomerEmail != "" {
		confirmation := base
		confirmation.Type = notify.TypeTicketCreated
		s.dispatcher.Dispatch(ctx, confirmation)
	}

	alert := base
	alert.Type = notify.TypeNewTicketAdmin
	alert.StaffOnly = true
	s.dispatcher.Dispatch(ctx, alert)
}

// UpdateTicket applies a partial update to an existing ticket
func (s *ticketService) UpdateTicket(ctx context.Context, req *UpdateTicketRequest) (*models.Ticket, error) {
	if req == nil {
		return nil, repositories.ValidationMessage("ticket", "request body is required")
	}
	req.TicketID = strings.TrimSpace(req.TicketID)
	if err := validateRequest(s.validator, "ticket", req); err != nil {
		return nil, err
	}

	patch := &models.TicketPatch{
		AssignedTo:       req.AssignedTo,
		AssignedName:     req.AssignedName,
		CustomerArchived: req.CustomerArchived,
		AdminArchived:    req.AdminArchived,
	}

	if req.Status != nil {
		status := models.TicketStatus(strings.TrimSpace(*req.Status))
		if !status.IsValid() {
			return nil, repositories.ValidationMessage("ticket", "status must be one of: %s", strings.Join(models.StatusValues(), ", "))
		}
		patch.Status = &status
	}
	if req.Priority != nil {
		priority := models.TicketPriority(strings.TrimSpace(*req.Priority))
		if !priority.IsValid() {
			return nil, repositories.ValidationMessage("ticket", "priority must be one of: %s", strings.Join(models.PriorityValues(), ", "))
		}
		patch.Priority = &priority
	}
	if patch.IsEmpty() {
		return nil, repositories.ValidationMessage("ticket", "no updatable fields supplied")
	}

	existing, err := s.ticketRepo.GetByID(ctx, req.TicketID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	patch.UpdatedAt = now
	if patch.Status != nil && patch.Status.IsTerminal() && *patch.Status != existing.Status {
		patch.ResolvedAt = &now
	}

	updated, err := s.ticketRepo.Update(ctx, req.TicketID, patch)
	if err != nil {
		return nil, err
	}

	entry := s.logger.WithFields(logrus.Fields{
		"ticket_id":     updated.ID,
		"ticket_number": updated.TicketNumber,
	})
	if patch.Status != nil && *patch.Status != existing.Status {
		entry = entry.WithFields(logrus.Fields{"from": existing.Status, "to": updated.Status})
	}
	entry.Info("Ticket updated")

	return updated, nil
}
