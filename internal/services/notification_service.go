package services

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"

	"support-desk-api/internal/notify"
	"support-desk-api/internal/repositories"
)

// Sender delivers one rendered notification
type Sender interface {
	Send(ctx context.Context, notification *notify.Notification) (*notify.Result, error)
}

// notificationService implements the NotificationService interface
type notificationService struct {
	sender    Sender
	validator *validator.Validate
}

// NewNotificationService creates a new notification service instance
func NewNotificationService(sender Sender) NotificationService {
	return &notificationService{
		sender:    sender,
		validator: newValidator(),
	}
}

// Send validates an explicit notification request and delivers it
func (s *notificationService) Send(ctx context.Context, req *NotificationRequest) (*NotificationResult, error) {
	if req == nil {
		return nil, repositories.ValidationMessage("notification", "request body is required")
	}
	req.CustomerEmail = strings.TrimSpace(req.CustomerEmail)
	req.AdminEmail = strings.TrimSpace(req.AdminEmail)
	if err := validateRequest(s.validator, "notification", req); err != nil {
		return nil, err
	}

	return s.sender.Send(ctx, &notify.Notification{
		Type:           notify.Type(req.Type),
		TicketID:       req.TicketID,
		TicketNumber:   req.TicketNumber,
		Subject:        req.Subject,
		Description:    req.Description,
		TicketType:     req.TicketType,
		Priority:       req.Priority,
		Status:         req.Status,
		PreviousStatus: req.PreviousStatus,
		Message:        req.Message,
		AuthorName:     req.AuthorName,
		CustomerEmail:  req.CustomerEmail,
		CustomerName:   req.CustomerName,
		AdminEmail:     req.AdminEmail,
	})
}
