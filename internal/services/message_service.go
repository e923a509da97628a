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

// messageService implements the MessageService interface
type messageService struct {
	messageRepo repositories.MessageRepository
	ticketRepo  repositories.TicketRepository
	dispatcher  NotificationDispatcher
	validator   *validator.Validate
	logger      *logrus.Logger
	now         func() time.Time
}

// NewMessageService creates a new message service instance
func NewMessageService(messageRepo repositories.MessageRepository, ticketRepo repositories.TicketRepository, dispatcher NotificationDispatcher, logger *logrus.Logger) MessageService {
	if logger == nil {
		logger = logrus.New()
	}
	return &messageService{
		messageRepo: messageRepo,
		ticketRepo:  ticketRepo,
		dispatcher:  dispatcher,
		validator:   newValidator(),
		logger:      logger,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ListMessages returns a ticket's conversation oldest first. Internal notes are
// only included when includeInternal is set.
func (s *messageService) ListMessages(ctx context.Context, ticketID string, includeInternal bool) ([]*models.Message, error) {
	ticketID = strings.TrimSpace(ticketID)
	if ticketID == "" {
		return nil, repositories.ValidationMessage("message", "ticketId is required")
	}

	messages, err := s.messageRepo.ListByTicket(ctx, ticketID, includeInternal)
	if err != nil {
		return nil, err
	}

	// The store already filters; this keeps the privacy boundary independent of it.
	visible := make([]*models.Message, 0, len(messages))
	for _, m := range messages {
		if m.IsInternal && !includeInternal {
			continue
		}
		visible = append(visible, m)
	}
	return visible, nil
}

// Reply appends a message to a ticket and moves the ticket status accordingly
func (s *messageService) Reply(ctx context.Context, req *ReplyRequest) (*models.Message, error) {
	if req == nil {
		return nil, repositories.ValidationMessage("message", "request body is required")
	}
	req.TicketID = strings.TrimSpace(req.TicketID)
	req.Message = strings.TrimSpace(req.Message)
	req.AuthorName = strings.TrimSpace(req.AuthorName)
	if err := validateRequest(s.validator, "message", req); err != nil {
		return nil, err
	}

	attachments := models.DecodeAttachments(req.Attachments)
	hasAttachments := models.HasAttachments(attachments)
	if req.Message == "" && !hasAttachments {
		return nil, repositories.ValidationMessage("message", "message or attachments is required")
	}

	ticket, err := s.ticketRepo.GetByID(ctx, req.TicketID)
	if err != nil {
		return nil, err
	}

	text := req.Message
	if text == "" {
		text = models.AttachmentPlaceholder
	}
	message := models.NewMessage(ticket.ID, text)
	message.CreatedAt = s.now()
	message.AuthorID = trimPtr(req.AuthorID)
	message.AuthorEmail = trimPtr(req.AuthorEmail)
	if req.AuthorName != "" {
		message.AuthorName = req.AuthorName
	}
	message.IsStaff = req.IsStaff
	// Only staff can write notes hidden from the customer.
	message.IsInternal = req.IsStaff && req.IsInternal
	message.Attachments = attachments

	if err := s.messageRepo.Create(ctx, message); err != nil {
		return nil, err
	}

	entry := s.logger.WithFields(logrus.Fields{
		"ticket_id":   ticket.ID,
		"message_id":  message.ID,
		"is_staff":    message.IsStaff,
		"is_internal": message.IsInternal,
	})

	if status, ok := message.ResultingTicketStatus(); ok {
		patch := &models.TicketPatch{Status: &status, UpdatedAt: message.CreatedAt}
		if _, err := s.ticketRepo.Update(ctx, ticket.ID, patch); err != nil {
			// The message is stored; failing here would invite a duplicate retry.
			entry.WithError(err).Error("Failed to update ticket status after reply")
		} else {
			entry = entry.WithField("status", status)
		}
	}
	entry.Info("Reply posted")

	if message.IsPublicStaffReply() && ticket.CustomerEmail != "" && s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, notify.Notification{
			Type:          notify.TypeAdminReply,
			TicketID:      ticket.ID,
			TicketNumber:  ticket.TicketNumber,
			Subject:       ticket.Subject,
			Status:        string(models.TicketStatusPending),
			Message:       message.Message,
			AuthorName:    message.AuthorName,
			CustomerEmail: ticket.CustomerEmail,
			CustomerName:  ticket.CustomerName,
		})
	}

	return message, nil
}
