package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"support-desk-api/internal/services"
	"support-desk-api/pkg/lambda"
)

// NotifyHandler handles explicit notification requests
type NotifyHandler struct {
	notificationService services.NotificationService
	logger              *logrus.Logger
}

// NewNotifyHandler creates a new notify handler
func NewNotifyHandler(notificationService services.NotificationService, logger *logrus.Logger) *NotifyHandler {
	return &NotifyHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// @Summary Send a ticket notification
// @Description Renders one of admin_reply, status_changed, ticket_created or new_ticket_admin and emails it. Without a configured provider the send is skipped with a warning.
// @Tags notifications
// @Accept json
// @Produce json
// @Param notification body services.NotificationRequest true "Notification"
// @Success 200 {object} services.NotificationResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ticket-notify [post]
func (h *NotifyHandler) HandleNotify(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body services.NotificationRequest
	if err := decodeBody(req, &body); err != nil {
		return errorResponse(h.logger, FunctionTicketNotify, err)
	}

	result, err := h.notificationService.Send(ctx, &body)
	if err != nil {
		return errorResponse(h.logger, FunctionTicketNotify, err)
	}
	return ok(result)
}
