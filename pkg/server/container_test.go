package server

import (
	"context"
	"encoding/json"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"support-desk-api/internal/config"
	"support-desk-api/internal/notify"
	"support-desk-api/pkg/lambda"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Environment: "test",
		Port:        "8081",
		LogLevel:    "error",
		HTTPTimeout: 2 * time.Second,
		DataStore: config.DataStoreConfig{
			Backend:    config.DataStoreSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "support.db"),
		},
		Shopify: config.ShopifyConfig{
			APIVersion:         "2024-10",
			MetafieldNamespace: "custom",
			MetafieldKey:       "equipment",
		},
		Email: config.EmailConfig{
			From:      "support@example.com",
			StoreName: "Test Store",
		},
	}
}

// TestNewContainer verifies that the container can be created successfully
func TestNewContainer(t *testing.T) {
	container, err := NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}

	if container.Services == nil {
		t.Fatal("Services is nil")
	}
	if container.Services.TicketService == nil {
		t.Error("TicketService is nil")
	}
	if container.Services.MessageService == nil {
		t.Error("MessageService is nil")
	}
	if container.Services.NotificationService == nil {
		t.Error("NotificationService is nil")
	}
	if container.Services.EquipmentService == nil {
		t.Error("EquipmentService is nil")
	}
	if container.Router == nil {
		t.Error("Router is nil")
	}
	if got := container.sequenceSource(); got != "sqlite" {
		t.Errorf("sequence source = %q, want sqlite", got)
	}

	if err := container.Close(); err != nil {
		t.Errorf("Failed to close container: %v", err)
	}
}

func TestNewContainer_NilConfig(t *testing.T) {
	if _, err := NewContainer(nil); err == nil {
		t.Fatal("expected an error for a nil config")
	}
}

// TestContainerServesTickets runs a create through the runtime the Lambda entrypoints use
func TestContainerServesTickets(t *testing.T) {
	container, err := NewContainer(testConfig(t))
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}
	defer container.Close()

	runtime := container.Runtime()
	resp := runtime.Router.Serve(context.Background(), &lambda.Request{
		Method: http.MethodPost,
		Path:   "/api/ticket-create",
		Body:   []byte(`{"customerId":"42","customerEmail":"jo@example.com","type":"general","subject":"Pump noise","description":"It rattles"}`),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body = %s", resp.StatusCode, resp.Body)
	}

	var body struct {
		Success bool `json:"success"`
		Ticket  struct {
			TicketNumber int64 `json:"ticketNumber"`
		} `json:"ticket"`
	}
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body.Success || body.Ticket.TicketNumber != 1001 {
		t.Errorf("unexpected create response: %s", resp.Body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := runtime.Flusher.Wait(ctx); err != nil {
		t.Errorf("notifications did not drain: %v", err)
	}
}

// TestContainerMissingCredentials verifies that missing credentials surface per request, not at startup
func TestContainerMissingCredentials(t *testing.T) {
	cfg := testConfig(t)
	cfg.DataStore = config.DataStoreConfig{Backend: config.DataStorePostgREST}

	container, err := NewContainer(cfg)
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}
	defer container.Close()

	if got := container.sequenceSource(); got != "rpc" {
		t.Errorf("sequence source = %q, want rpc", got)
	}

	resp := container.Router.Serve(context.Background(), &lambda.Request{
		Method:      http.MethodGet,
		Path:        "/api/ticket-get",
		QueryParams: map[string]string{"ticketId": "abc"},
	})
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", resp.StatusCode)
	}
}

func TestNewMailer(t *testing.T) {
	cfg := testConfig(t)
	if m := newMailer(cfg, nil); m != nil {
		t.Errorf("expected no mailer, got %T", m)
	}
	if got := mailerName(cfg); got != "none" {
		t.Errorf("mailerName = %q, want none", got)
	}

	cfg.SMTP = config.SMTPConfig{Host: "smtp.example.com", Port: 587}
	if _, ok := newMailer(cfg, nil).(*notify.SMTPMailer); !ok {
		t.Error("expected the SMTP mailer when only a relay is configured")
	}
	if got := mailerName(cfg); got != "smtp" {
		t.Errorf("mailerName = %q, want smtp", got)
	}

	cfg.Email.ResendAPIKey = "re_test"
	if _, ok := newMailer(cfg, nil).(*notify.ResendMailer); !ok {
		t.Error("expected the Resend mailer to take precedence")
	}
	if got := mailerName(cfg); got != "resend" {
		t.Errorf("mailerName = %q, want resend", got)
	}
}
