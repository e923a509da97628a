package notify

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"support-desk-api/internal/repositories"

	"github.com/resend/resend-go/v2"
	"github.com/sirupsen/logrus"
)

// DefaultResendURL is the API base used when none is configured
const DefaultResendURL = "https://api.resend.com/"

// ResendMailer sends email through the Resend API
type ResendMailer struct {
	client *resend.Client
	logger *logrus.Logger
}

// NewResendMailer creates a mailer authenticated with apiKey. apiURL overrides
// the API base; a full ".../emails" endpoint is accepted too.
func NewResendMailer(apiKey, apiURL string, timeout time.Duration, logger *logrus.Logger) *ResendMailer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = logrus.New()
	}

	client := resend.NewCustomClient(&http.Client{Timeout: timeout}, strings.TrimSpace(apiKey))
	if base, err := resendBaseURL(apiURL); err == nil {
		client.BaseURL = base
	} else {
		logger.WithError(err).WithField("api_url", apiURL).Warn("Ignoring invalid email provider URL")
	}

	return &ResendMailer{client: client, logger: logger}
}

func resendBaseURL(apiURL string) (*url.URL, error) {
	apiURL = strings.TrimSpace(apiURL)
	if apiURL == "" {
		apiURL = DefaultResendURL
	}
	apiURL = strings.TrimSuffix(strings.TrimRight(apiURL, "/"), "/emails") + "/"
	base, err := url.Parse(apiURL)
	if err != nil {
		return nil, err
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, errors.New("email provider URL must be absolute")
	}
	return base, nil
}

// Name identifies the provider in logs
func (m *ResendMailer) Name() string {
	return "resend"
}

// Send submits the email to the provider and returns its message id
func (m *ResendMailer) Send(ctx context.Context, email *Email) (string, error) {
	if m.client.ApiKey == "" {
		return "", repositories.ConfigurationError("email provider", "RESEND_API_KEY")
	}
	if err := email.Validate(); err != nil {
		return "", err
	}

	start := time.Now()
	sent, err := m.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	})
	fields := logrus.Fields{
		"provider": m.Name(),
		"subject":  email.Subject,
		"duration": time.Since(start),
	}
	if err != nil {
		msg := strings.TrimSpace(strings.TrimPrefix(err.Error(), "[ERROR]:"))
		if errors.Is(err, resend.ErrRateLimit) {
			fields["rate_limited"] = true
		}
		m.logger.WithFields(fields).WithField("error", msg).Error("Email provider rejected message")
		return "", repositories.UpstreamError("send", "email provider", errors.New(msg))
	}

	m.logger.WithFields(fields).WithField("message_id", sent.Id).Info("Email sent")
	return sent.Id, nil
}
