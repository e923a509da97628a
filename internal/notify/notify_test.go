package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"support-desk-api/internal/repositories"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []*Email
	err  error
}

func (m *recordingMailer) Name() string { return "recording" }

func (m *recordingMailer) Send(ctx context.Context, email *Email) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.sent = append(m.sent, email)
	return "msg_1", nil
}

func newTestNotifier(t *testing.T, mailer Mailer) *Notifier {
	t.Helper()
	renderer, err := NewRenderer(StoreInfo{Name: "Acme Parts", URL: "https://acme.example.com"})
	require.NoError(t, err)
	return NewNotifier(mailer, renderer, "support@acme.example.com", "team@acme.example.com", quietLogger())
}

func TestNotifier_SendCustomerTemplate(t *testing.T) {
	mailer := &recordingMailer{}
	notifier := newTestNotifier(t, mailer)

	result, err := notifier.Send(context.Background(), &Notification{
		Type:          TypeAdminReply,
		TicketID:      "tkt_1",
		TicketNumber:  1001,
		Subject:       "Broken belt",
		Message:       "We **shipped** a replacement <script>alert(1)</script>",
		CustomerEmail: "jane@example.com",
		CustomerName:  "Jane",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "msg_1", result.MessageID)

	require.Len(t, mailer.sent, 1)
	email := mailer.sent[0]
	assert.Equal(t, []string{"jane@example.com"}, email.To)
	assert.Equal(t, "support@acme.example.com", email.From)
	assert.Contains(t, email.Subject, "Acme Parts")
	assert.Contains(t, email.Subject, "#1001")
	assert.Contains(t, email.HTML, "<strong>shipped</strong>")
	assert.NotContains(t, email.HTML, "<script>")
	assert.Contains(t, email.HTML, "https://acme.example.com/account/support?ticket=tkt_1")
	assert.Contains(t, email.Text, "Hi Jane,")
}

func TestNotifier_AdminTemplateUsesDefaultRecipient(t *testing.T) {
	mailer := &recordingMailer{}
	notifier := newTestNotifier(t, mailer)

	_, err := notifier.Send(context.Background(), &Notification{
		Type:          TypeNewTicketAdmin,
		TicketNumber:  1002,
		Subject:       "Need help",
		CustomerEmail: "jane@example.com",
	})
	require.NoError(t, err)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, []string{"team@acme.example.com"}, mailer.sent[0].To)

	_, err = notifier.Send(context.Background(), &Notification{
		Type:       TypeNewTicketAdmin,
		Subject:    "Need help",
		AdminEmail: "owner@acme.example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"owner@acme.example.com"}, mailer.sent[1].To)
}

func TestNotifier_FallsBackToAvailableRecipient(t *testing.T) {
	renderer, err := NewRenderer(StoreInfo{})
	require.NoError(t, err)
	mailer := &recordingMailer{}
	notifier := NewNotifier(mailer, renderer, "from@example.com", "", quietLogger())

	_, err = notifier.Send(context.Background(), &Notification{
		Type:       TypeAdminReply,
		Message:    "Replacement shipped",
		AdminEmail: "staff@example.com",
	})
	require.NoError(t, err)

	_, err = notifier.Send(context.Background(), &Notification{
		Type:          TypeNewTicketAdmin,
		Subject:       "Need help",
		CustomerEmail: "jane@example.com",
	})
	require.NoError(t, err)

	require.Len(t, mailer.sent, 2)
	assert.Equal(t, []string{"staff@example.com"}, mailer.sent[0].To)
	assert.Equal(t, []string{"jane@example.com"}, mailer.sent[1].To)

	_, err = notifier.Send(context.Background(), &Notification{
		Type:          TypeNewTicketAdmin,
		Subject:       "Need help",
		CustomerEmail: "jane@example.com",
		StaffOnly:     true,
	})
	assert.True(t, repositories.IsValidation(err))
	assert.Len(t, mailer.sent, 2)
}

func TestNotifier_ValidationErrors(t *testing.T) {
	notifier := newTestNotifier(t, &recordingMailer{})

	_, err := notifier.Send(context.Background(), &Notification{Type: "weekly_digest", CustomerEmail: "a@example.com"})
	assert.True(t, repositories.IsValidation(err))

	renderer, err := NewRenderer(StoreInfo{})
	require.NoError(t, err)
	noAdmin := NewNotifier(&recordingMailer{}, renderer, "from@example.com", "", quietLogger())

	_, err = noAdmin.Send(context.Background(), &Notification{Type: TypeStatusChanged, Status: "Closed"})
	assert.True(t, repositories.IsValidation(err))

	_, err = noAdmin.Send(context.Background(), &Notification{Type: TypeNewTicketAdmin, Subject: "x", AdminEmail: "  "})
	assert.True(t, repositories.IsValidation(err))
}

func TestNotifier_UnconfiguredProviderSkips(t *testing.T) {
	notifier := newTestNotifier(t, nil)

	result, err := notifier.Send(context.Background(), &Notification{
		Type:          TypeTicketCreated,
		CustomerEmail: "jane@example.com",
	})
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.True(t, result.Skipped)
	assert.NotEmpty(t, result.Warning)
}

func TestNotifier_ProviderFailureSurfaces(t *testing.T) {
	failure := repositories.UpstreamError("send", "email provider", errors.New("domain not verified"))
	notifier := newTestNotifier(t, &recordingMailer{err: failure})

	_, err := notifier.Send(context.Background(), &Notification{Type: TypeTicketCreated, CustomerEmail: "jane@example.com"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "domain not verified")
}

func TestRenderer_StatusChanged(t *testing.T) {
	renderer, err := NewRenderer(StoreInfo{Name: "Acme"})
	require.NoError(t, err)

	subject, html, text, err := renderer.Render(&Notification{
		Type:           TypeStatusChanged,
		TicketNumber:   1005,
		Subject:        "Wrong <part>",
		Status:         "Resolved",
		PreviousStatus: "Pending",
	})
	require.NoError(t, err)
	assert.Equal(t, "[Acme] Ticket #1005 is now Resolved", subject)
	assert.Contains(t, html, "Wrong &lt;part&gt;")
	assert.Contains(t, text, "from Pending to Resolved")
	assert.Contains(t, text, "Hello,")
}

func TestResendMailer_Send(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_key", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "support@acme.example.com", body["from"])
		assert.Equal(t, []any{"jane@example.com"}, body["to"])
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"re_123"}`))
	}))
	defer server.Close()

	mailer := NewResendMailer("re_key", server.URL, time.Second, quietLogger())
	id, err := mailer.Send(context.Background(), &Email{
		From:    "support@acme.example.com",
		To:      []string{"jane@example.com"},
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
	})
	require.NoError(t, err)
	assert.Equal(t, "re_123", id)
}

func TestResendMailer_ProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"statusCode":422,"name":"validation_error","message":"The acme.example.com domain is not verified"}`))
	}))
	defer server.Close()

	mailer := NewResendMailer("re_key", server.URL, time.Second, quietLogger())
	_, err := mailer.Send(context.Background(), &Email{From: "a@acme.example.com", To: []string{"b@example.com"}, Subject: "x"})
	require.Error(t, err)
	assert.True(t, repositories.IsUpstream(err))
	assert.Contains(t, err.Error(), "domain is not verified")
}

func TestResendMailer_MissingKey(t *testing.T) {
	mailer := NewResendMailer(" ", "", time.Second, quietLogger())
	_, err := mailer.Send(context.Background(), &Email{From: "a@acme.example.com", To: []string{"b@example.com"}, Subject: "x"})
	require.Error(t, err)
	assert.True(t, repositories.IsConfiguration(err))
}

func TestResendBaseURL(t *testing.T) {
	tests := map[string]string{
		"":                              "https://api.resend.com/",
		"https://api.resend.com/emails": "https://api.resend.com/",
		"http://localhost:8025":         "http://localhost:8025/",
		"http://localhost:8025/v1/":     "http://localhost:8025/v1/",
	}
	for input, want := range tests {
		base, err := resendBaseURL(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, base.String(), input)
	}

	_, err := resendBaseURL("api.resend.com")
	assert.Error(t, err)
}

type fakeDialer struct {
	messages []*gomail.Message
	err      error
}

func (d *fakeDialer) DialAndSend(m ...*gomail.Message) error {
	d.messages = append(d.messages, m...)
	return d.err
}

func TestSMTPMailer_Send(t *testing.T) {
	dialer := &fakeDialer{}
	mailer := &SMTPMailer{dialer: dialer, host: "smtp.example.com", logger: quietLogger()}

	_, err := mailer.Send(context.Background(), &Email{
		From:    "support@acme.example.com",
		To:      []string{"jane@example.com"},
		Subject: "Hello",
		HTML:    "<p>Hi</p>",
		Text:    "Hi",
	})
	require.NoError(t, err)
	require.Len(t, dialer.messages, 1)
	assert.Equal(t, []string{"Hello"}, dialer.messages[0].GetHeader("Subject"))

	dialer.err = errors.New("connection refused")
	_, err = mailer.Send(context.Background(), &Email{From: "a@example.com", To: []string{"b@example.com"}, Subject: "x"})
	assert.True(t, repositories.IsUpstream(err))
}

type slowSender struct {
	mu    sync.Mutex
	calls int
	delay time.Duration
	err   error
}

func (s *slowSender) Send(ctx context.Context, n *Notification) (*Result, error) {
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return &Result{Success: true}, s.err
}

func TestDispatcher_DispatchDoesNotBlockAndWaitFlushes(t *testing.T) {
	sender := &slowSender{delay: 20 * time.Millisecond}
	dispatcher := NewDispatcher(sender, time.Second, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	start := time.Now()
	dispatcher.Dispatch(ctx, Notification{Type: TypeTicketCreated})
	dispatcher.Dispatch(ctx, Notification{Type: TypeNewTicketAdmin})
	assert.Less(t, time.Since(start), 15*time.Millisecond)

	// Cancelling the request context must not abort pending sends.
	cancel()

	require.NoError(t, dispatcher.Wait(context.Background()))
	assert.Equal(t, 2, sender.calls)
}

func TestDispatcher_FailuresAreSwallowed(t *testing.T) {
	sender := &slowSender{err: errors.New("provider down")}
	dispatcher := NewDispatcher(sender, time.Second, quietLogger())

	dispatcher.Dispatch(context.Background(), Notification{Type: TypeAdminReply})
	assert.NoError(t, dispatcher.Wait(context.Background()))
}

func TestDispatcher_WaitIsBounded(t *testing.T) {
	sender := &slowSender{delay: time.Second}
	dispatcher := NewDispatcher(sender, 2*time.Second, quietLogger())
	dispatcher.Dispatch(context.Background(), Notification{Type: TypeAdminReply})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := dispatcher.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestType_IsValid(t *testing.T) {
	for _, typ := range []Type{TypeAdminReply, TypeStatusChanged, TypeTicketCreated, TypeNewTicketAdmin} {
		assert.True(t, typ.IsValid(), string(typ))
	}
	assert.False(t, Type(strings.ToUpper(string(TypeAdminReply))).IsValid())
}
