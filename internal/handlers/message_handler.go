package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"support-desk-api/internal/models"
	"support-desk-api/internal/services"
	"support-desk-api/pkg/lambda"
)

// MessageHandler handles ticket conversation requests
type MessageHandler struct {
	messageService services.MessageService
	logger         *logrus.Logger
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(messageService services.MessageService, logger *logrus.Logger) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		logger:         logger,
	}
}

// MessagesResponse is a ticket's conversation
type MessagesResponse struct {
	Messages []*models.Message `json:"messages"`
	Count    int               `json:"count"`
}

// ReplyResponse is returned after a message is posted
type ReplyResponse struct {
	Success bool            `json:"success"`
	Message *models.Message `json:"message"`
}

// @Summary List a ticket's messages
// @Description Oldest first. Internal notes are only returned when includeInternal is exactly "true".
// @Tags messages
// @Produce json
// @Param ticketId query string true "Ticket ID"
// @Param includeInternal query string false "Include staff-only notes"
// @Success 200 {object} MessagesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ticket-messages [get]
func (h *MessageHandler) HandleList(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	includeInternal := req.QueryParams["includeInternal"] == "true"

	messages, err := h.messageService.ListMessages(ctx, req.Query("ticketId"), includeInternal)
	if err != nil {
		return errorResponse(h.logger, FunctionTicketMessages, err)
	}
	return ok(MessagesResponse{Messages: messages, Count: len(messages)})
}

// @Summary Reply to a ticket
// @Description Customer replies reopen the ticket, public staff replies set it to Pending and email the customer, internal notes leave it unchanged.
// @Tags messages
// @Accept json
// @Produce json
// @Param reply body services.ReplyRequest true "Reply"
// @Success 200 {object} ReplyResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /ticket-reply [post]
func (h *MessageHandler) HandleReply(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body services.ReplyRequest
	if err := decodeBody(req, &body); err != nil {
		return errorResponse(h.logger, FunctionTicketReply, err)
	}

	message, err := h.messageService.Reply(ctx, &body)
	if err != nil {
		return errorResponse(h.logger, FunctionTicketReply, err)
	}
	return ok(ReplyResponse{Success: true, Message: message})
}
