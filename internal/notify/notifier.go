package notify

import (
	"context"
	"strings"

	"support-desk-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

// warningNotConfigured is returned to callers when no provider credential is set
const warningNotConfigured = "email provider is not configured; notification skipped"

// Result reports the outcome of one notification
type Result struct {
	Success   bool   `json:"success"`
	Skipped   bool   `json:"skipped,omitempty"`
	Warning   string `json:"warning,omitempty"`
	MessageID string `json:"id,omitempty"`
}

// Notifier renders a notification and hands it to the configured mailer
type Notifier struct {
	mailer       Mailer
	renderer     *Renderer
	from         string
	defaultAdmin string
	logger       *logrus.Logger
}

// NewNotifier creates a notifier. A nil mailer turns every send into a logged no-op.
func NewNotifier(mailer Mailer, renderer *Renderer, from, defaultAdmin string, logger *logrus.Logger) *Notifier {
	if logger == nil {
		logger = logrus.New()
	}
	return &Notifier{
		mailer:       mailer,
		renderer:     renderer,
		from:         from,
		defaultAdmin: defaultAdmin,
		logger:       logger,
	}
}

// Recipient picks the address a notification is delivered to. Admin templates
// prefer the admin address and customer templates the customer address; either
// falls back to whichever address is available.
func (n *Notifier) Recipient(notification *Notification) string {
	customer := strings.TrimSpace(notification.CustomerEmail)
	admin := strings.TrimSpace(notification.AdminEmail)
	if admin == "" {
		admin = strings.TrimSpace(n.defaultAdmin)
	}

	if notification.StaffOnly {
		return admin
	}
	if notification.Type.ForAdmin() {
		return firstNonEmpty(admin, customer)
	}
	return firstNonEmpty(customer, admin)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Send validates, renders and delivers one notification
func (n *Notifier) Send(ctx context.Context, notification *Notification) (*Result, error) {
	if !notification.Type.IsValid() {
		return nil, repositories.ValidationMessage("notification", "unknown notification type %q", notification.Type)
	}

	recipient := n.Recipient(notification)
	if recipient == "" {
		return nil, repositories.ValidationMessage("notification", "a customer or admin recipient email is required")
	}

	fields := logrus.Fields{
		"type":          notification.Type,
		"ticket_number": notification.TicketNumber,
	}

	if n.mailer == nil {
		n.logger.WithFields(fields).Warn("Email provider not configured, skipping notification")
		return &Result{Success: true, Skipped: true, Warning: warningNotConfigured}, nil
	}

	subject, htmlBody, textBody, err := n.renderer.Render(notification)
	if err != nil {
		return nil, err
	}

	id, err := n.mailer.Send(ctx, &Email{
		From:    n.from,
		To:      []string{recipient},
		Subject: subject,
		HTML:    htmlBody,
		Text:    textBody,
	})
	if err != nil {
		n.logger.WithFields(fields).WithError(err).Error("Notification delivery failed")
		return nil, err
	}

	n.logger.WithFields(fields).WithField("provider", n.mailer.Name()).Info("Notification sent")
	return &Result{Success: true, MessageID: id}, nil
}
