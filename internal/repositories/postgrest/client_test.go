package postgrest

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"support-desk-api/internal/models"
	"support-desk-api/internal/repositories"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTicketRow = `{
	"id": "tkt_x",
	"ticket_number": 1001,
	"customer_id": "42",
	"customer_email": "jane@example.com",
	"customer_name": "Jane",
	"type": "general",
	"priority": "normal",
	"status": "Open",
	"subject": "Help",
	"description": "Need help",
	"order_number": null,
	"attachments": "[{\"url\":\"https://cdn/x.png\"}]",
	"customer_archived": false,
	"admin_archived": null,
	"created_at": "2025-01-02T03:04:05.123456+00:00",
	"updated_at": "2025-01-02T03:04:05.123456",
	"resolved_at": null
}`

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL, "service-key", time.Second, testLogger())
}

func TestTicketRepository_GetByID(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/tickets", r.URL.Path)
		assert.Equal(t, "eq.tkt_x", r.URL.Query().Get("id"))
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		w.Write([]byte("[" + sampleTicketRow + "]"))
	})

	ticket, err := NewTicketRepository(client).GetByID(context.Background(), "tkt_x")
	require.NoError(t, err)

	assert.Equal(t, "tkt_x", ticket.ID)
	assert.Equal(t, int64(1001), ticket.TicketNumber)
	assert.Equal(t, "jane@example.com", ticket.CustomerEmail)
	assert.Equal(t, models.TicketStatusOpen, ticket.Status)
	assert.Nil(t, ticket.OrderNumber)
	assert.False(t, ticket.AdminArchived)
	assert.JSONEq(t, `[{"url":"https://cdn/x.png"}]`, string(ticket.Attachments))
	assert.Equal(t, 2025, ticket.CreatedAt.Year())
	assert.False(t, ticket.UpdatedAt.IsZero())
	assert.Nil(t, ticket.ResolvedAt)
}

func TestTicketRepository_GetByIDNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("[]"))
	})

	_, err := NewTicketRepository(client).GetByID(context.Background(), "tkt_missing")
	require.Error(t, err)
	assert.True(t, repositories.IsNotFound(err))
}

func TestTicketRepository_ListUsesFiltersAndContentRange(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "eq.42", q.Get("customer_id"))
		assert.Equal(t, "eq.Pending", q.Get("status"))
		assert.Equal(t, "created_at.desc", q.Get("order"))
		assert.Equal(t, "10", q.Get("limit"))
		assert.Equal(t, "20", q.Get("offset"))
		assert.Equal(t, "not.is.true", q.Get("customer_archived"))
		assert.Contains(t, r.Header.Get("Prefer"), "count=exact")

		w.Header().Set("Content-Range", "20-20/21")
		w.Write([]byte("[" + sampleTicketRow + "]"))
	})

	status := models.TicketStatusPending
	filters := &repositories.TicketFilters{CustomerID: "42", Status: &status, Limit: 10, Offset: 20}
	tickets, total, err := NewTicketRepository(client).List(context.Background(), filters)
	require.NoError(t, err)
	assert.Len(t, tickets, 1)
	assert.Equal(t, int64(21), total)
}

func TestTicketRepository_ListAdminArchivedOnly(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "is.true", q.Get("admin_archived"))
		assert.Empty(t, q.Get("customer_archived"))
		w.Header().Set("Content-Range", "*/0")
		w.Write([]byte("[]"))
	})

	filters := &repositories.TicketFilters{View: repositories.AdminView, Archived: repositories.ArchiveOnly}
	tickets, total, err := NewTicketRepository(client).List(context.Background(), filters)
	require.NoError(t, err)
	assert.Empty(t, tickets)
	assert.Equal(t, int64(0), total)
}

func TestTicketRepository_CreateSendsSnakeCase(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "42", body["customer_id"])
		assert.Equal(t, float64(1001), body["ticket_number"])
		assert.Equal(t, "Open", body["status"])
		assert.Nil(t, body["attachments"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte("[" + sampleTicketRow + "]"))
	})

	ticket := models.NewTicket("42", models.TicketTypeGeneral, "Help", "Need help")
	ticket.TicketNumber = 1001
	require.NoError(t, NewTicketRepository(client).Create(context.Background(), ticket))
	assert.Equal(t, "tkt_x", ticket.ID)
}

func TestTicketRepository_CreateDuplicateNumber(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"code":"23505","message":"duplicate key value violates unique constraint"}`))
	})

	ticket := models.NewTicket("42", models.TicketTypeGeneral, "Help", "Need help")
	err := NewTicketRepository(client).Create(context.Background(), ticket)
	require.Error(t, err)
	assert.True(t, repositories.IsDuplicate(err))
}

func TestTicketRepository_UpdateOnlySendsPatchedFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "eq.tkt_x", r.URL.Query().Get("id"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Closed", body["status"])
		assert.Contains(t, body, "resolved_at")
		assert.Contains(t, body, "updated_at")
		assert.NotContains(t, body, "priority")
		assert.NotContains(t, body, "assigned_to")

		w.Write([]byte("[" + sampleTicketRow + "]"))
	})

	status := models.TicketStatusClosed
	now := time.Now()
	patch := &models.TicketPatch{Status: &status, ResolvedAt: &now, UpdatedAt: now}
	_, err := NewTicketRepository(client).Update(context.Background(), "tkt_x", patch)
	require.NoError(t, err)
}

func TestTicketRepository_UpstreamErrorSurfacesMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"42703","message":"column tickets.foo does not exist"}`))
	})

	_, err := NewTicketRepository(client).GetByID(context.Background(), "tkt_x")
	require.Error(t, err)
	assert.True(t, repositories.IsUpstream(err))
	assert.Contains(t, err.Error(), "column tickets.foo does not exist")
}

func TestTicketRepository_MalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"a list"}`))
	})

	_, err := NewTicketRepository(client).GetByID(context.Background(), "tkt_x")
	require.Error(t, err)
	assert.True(t, repositories.IsUpstream(err))
}

func TestClient_MissingConfiguration(t *testing.T) {
	client := NewClient("", "", time.Second, testLogger())
	_, err := NewTicketRepository(client).GetByID(context.Background(), "tkt_x")
	require.Error(t, err)
	assert.True(t, repositories.IsConfiguration(err))
}

func TestTicketSequence_NextTicketNumber(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/rest/v1/rpc/next_ticket_number", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		w.Write([]byte("1001"))
	})

	n, err := NewTicketSequence(client).NextTicketNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1001), n)
}

func TestMessageRepository_ListByTicketExcludesInternal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "/rest/v1/ticket_messages", r.URL.Path)
		assert.Equal(t, "eq.tkt_x", q.Get("ticket_id"))
		assert.Equal(t, "created_at.asc", q.Get("order"))
		assert.Equal(t, "is.false", q.Get("is_internal"))
		w.Write([]byte(`[{"id":"msg_1","ticket_id":"tkt_x","message":"hi","author_name":"Jane",
			"is_staff":false,"is_internal":false,"attachments":"{broken","created_at":"2025-01-02T03:04:05Z"}]`))
	})

	messages, err := NewMessageRepository(client).ListByTicket(context.Background(), "tkt_x", false)
	require.NoError(t, err)
	require.Len(t, messages, 1)
	assert.Equal(t, "Jane", messages[0].AuthorName)
	assert.Equal(t, "null", string(messages[0].Attachments))
}

func TestMessageRepository_ListByTicketIncludesInternal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("is_internal"))
		w.Write([]byte("[]"))
	})

	messages, err := NewMessageRepository(client).ListByTicket(context.Background(), "tkt_x", true)
	require.NoError(t, err)
	assert.Empty(t, messages)
}

func TestParseContentRange(t *testing.T) {
	total, ok := parseContentRange("0-9/42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), total)

	_, ok = parseContentRange("0-9/*")
	assert.False(t, ok)

	_, ok = parseContentRange("")
	assert.False(t, ok)
}
