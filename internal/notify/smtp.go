package notify

import (
	"context"
	"fmt"

	"support-desk-api/internal/repositories"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// SMTPConfig holds SMTP relay settings
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// sender abstracts gomail.Dialer so tests can capture messages
type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPMailer sends email through an SMTP relay
type SMTPMailer struct {
	dialer sender
	host   string
	logger *logrus.Logger
}

// NewSMTPMailer creates a mailer for the given relay
func NewSMTPMailer(cfg SMTPConfig, logger *logrus.Logger) *SMTPMailer {
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		host:   cfg.Host,
		logger: logger,
	}
}

// Name identifies the provider in logs
func (m *SMTPMailer) Name() string {
	return "smtp"
}

// Send delivers the email. SMTP relays report no message id.
func (m *SMTPMailer) Send(ctx context.Context, email *Email) (string, error) {
	if err := email.Validate(); err != nil {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", email.From)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	switch {
	case email.Text != "" && email.HTML != "":
		msg.SetBody("text/plain", email.Text)
		msg.AddAlternative("text/html", email.HTML)
	case email.HTML != "":
		msg.SetBody("text/html", email.HTML)
	default:
		msg.SetBody("text/plain", email.Text)
	}

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.WithFields(logrus.Fields{
			"provider": m.Name(),
			"host":     m.host,
			"subject":  email.Subject,
		}).WithError(err).Error("SMTP delivery failed")
		return "", repositories.UpstreamError("send", "email provider", fmt.Errorf("smtp: %w", err))
	}

	m.logger.WithFields(logrus.Fields{
		"provider": m.Name(),
		"subject":  email.Subject,
	}).Info("Email sent")
	return "", nil
}
