package postgrest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"support-desk-api/internal/models"
	"support-desk-api/internal/repositories"
)

const ticketsTable = "tickets"

// ticketRow mirrors a row of the tickets table
type ticketRow struct {
	ID               string          `json:"id"`
	TicketNumber     int64           `json:"ticket_number"`
	CustomerID       string          `json:"customer_id"`
	CustomerEmail    *string         `json:"customer_email"`
	CustomerName     *string         `json:"customer_name"`
	Type             string          `json:"type"`
	Priority         string          `json:"priority"`
	Status           string          `json:"status"`
	Subject          string          `json:"subject"`
	Description      string          `json:"description"`
	OrderNumber      *string         `json:"order_number"`
	ReturnReason     *string         `json:"return_reason"`
	EquipmentID      *string         `json:"equipment_id"`
	EquipmentName    *string         `json:"equipment_name"`
	PartNumber       *string         `json:"part_number"`
	Attachments      json.RawMessage `json:"attachments"`
	CustomerArchived *bool           `json:"customer_archived"`
	AdminArchived    *bool           `json:"admin_archived"`
	AssignedTo       *string         `json:"assigned_to"`
	AssignedName     *string         `json:"assigned_name"`
	CreatedAt        timestamp       `json:"created_at"`
	UpdatedAt        timestamp       `json:"updated_at"`
	ResolvedAt       *timestamp      `json:"resolved_at"`
}

func (r *ticketRow) toModel() *models.Ticket {
	t := &models.Ticket{
		ID:            r.ID,
		TicketNumber:  r.TicketNumber,
		CustomerID:    r.CustomerID,
		CustomerEmail: deref(r.CustomerEmail),
		CustomerName:  deref(r.CustomerName),
		Type:          models.TicketType(r.Type),
		Priority:      models.TicketPriority(r.Priority),
		Status:        models.TicketStatus(r.Status),
		Subject:       r.Subject,
		Description:   r.Description,
		OrderNumber:   r.OrderNumber,
		ReturnReason:  r.ReturnReason,
		EquipmentID:   r.EquipmentID,
		EquipmentName: r.EquipmentName,
		PartNumber:    r.PartNumber,
		Attachments:   models.DecodeAttachments(r.Attachments),
		AssignedTo:    r.AssignedTo,
		AssignedName:  r.AssignedName,
		CreatedAt:     r.CreatedAt.Time,
		UpdatedAt:     r.UpdatedAt.Time,
	}
	if r.CustomerArchived != nil {
		t.CustomerArchived = *r.CustomerArchived
	}
	if r.AdminArchived != nil {
		t.AdminArchived = *r.AdminArchived
	}
	if r.ResolvedAt != nil && !r.ResolvedAt.IsZero() {
		resolved := r.ResolvedAt.Time
		t.ResolvedAt = &resolved
	}
	return t
}

func ticketRowFromModel(t *models.Ticket) *ticketRow {
	customerArchived := t.CustomerArchived
	adminArchived := t.AdminArchived
	row := &ticketRow{
		ID:               t.ID,
		TicketNumber:     t.TicketNumber,
		CustomerID:       t.CustomerID,
		CustomerEmail:    nullable(t.CustomerEmail),
		CustomerName:     nullable(t.CustomerName),
		Type:             string(t.Type),
		Priority:         string(t.Priority),
		Status:           string(t.Status),
		Subject:          t.Subject,
		Description:      t.Description,
		OrderNumber:      t.OrderNumber,
		ReturnReason:     t.ReturnReason,
		EquipmentID:      t.EquipmentID,
		EquipmentName:    t.EquipmentName,
		PartNumber:       t.PartNumber,
		Attachments:      t.Attachments,
		CustomerArchived: &customerArchived,
		AdminArchived:    &adminArchived,
		AssignedTo:       t.AssignedTo,
		AssignedName:     t.AssignedName,
		CreatedAt:        timestamp{t.CreatedAt},
		UpdatedAt:        timestamp{t.UpdatedAt},
	}
	if len(row.Attachments) == 0 {
		row.Attachments = models.NullJSON()
	}
	if t.ResolvedAt != nil {
		row.ResolvedAt = &timestamp{*t.ResolvedAt}
	}
	return row
}

// TicketRepository implements repositories.TicketRepository over the REST data store
type TicketRepository struct {
	client *Client
}

// NewTicketRepository creates a new REST-backed ticket repository
func NewTicketRepository(client *Client) *TicketRepository {
	return &TicketRepository{client: client}
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	query := url.Values{}
	query.Set("id", eq(id))
	query.Set("select", "*")
	query.Set("limit", "1")

	var rows []ticketRow
	if _, err := r.client.do(ctx, http.MethodGet, ticketsTable, query, nil, nil, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repositories.NotFoundError("ticket", id)
	}
	return rows[0].toModel(), nil
}

// List retrieves a page of tickets, newest first, with the exact matching total
func (r *TicketRepository) List(ctx context.Context, filters *repositories.TicketFilters) ([]*models.Ticket, int64, error) {
	filters.Normalize()

	query := url.Values{}
	query.Set("select", "*")
	query.Set("order", "created_at.desc")
	query.Set("limit", strconv.Itoa(filters.Limit))
	query.Set("offset", strconv.Itoa(filters.Offset))
	if filters.CustomerID != "" {
		query.Set("customer_id", eq(filters.CustomerID))
	}
	if filters.Status != nil {
		query.Set("status", eq(string(*filters.Status)))
	}
	if filters.Type != nil {
		query.Set("type", eq(string(*filters.Type)))
	}
	if filters.Priority != nil {
		query.Set("priority", eq(string(*filters.Priority)))
	}
	switch filters.Archived {
	case repositories.ArchiveOnly:
		query.Set(filters.ArchiveColumn(), "is.true")
	case repositories.ArchiveExclude:
		query.Set(filters.ArchiveColumn(), "not.is.true")
	}

	var rows []ticketRow
	headers, err := r.client.do(ctx, http.MethodGet, ticketsTable, query, nil, []string{preferCountExact}, &rows)
	if err != nil {
		return nil, 0, err
	}

	tickets := make([]*models.Ticket, 0, len(rows))
	for i := range rows {
		tickets = append(tickets, rows[i].toModel())
	}

	total, ok := parseContentRange(headers.Get("Content-Range"))
	if !ok {
		total = int64(filters.Offset + len(tickets))
	}
	return tickets, total, nil
}

// Create inserts a ticket row
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	var rows []ticketRow
	_, err := r.client.do(ctx, http.MethodPost, ticketsTable, nil, ticketRowFromModel(ticket), []string{preferRepresentation}, &rows)
	if err != nil {
		if repositories.IsDuplicate(err) {
			return repositories.DuplicateError("ticket", "ticket_number", strconv.FormatInt(ticket.TicketNumber, 10))
		}
		return err
	}
	if len(rows) == 0 {
		return repositories.UpstreamError("create", "ticket", errEmptyRepresentation)
	}
	*ticket = *rows[0].toModel()
	return nil
}

// Update patches the supplied fields of a ticket and returns the stored row
func (r *TicketRepository) Update(ctx context.Context, id string, patch *models.TicketPatch) (*models.Ticket, error) {
	body := map[string]any{
		"updated_at": patch.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if patch.Status != nil {
		body["status"] = string(*patch.Status)
	}
	if patch.Priority != nil {
		body["priority"] = string(*patch.Priority)
	}
	if patch.AssignedTo != nil {
		body["assigned_to"] = *patch.AssignedTo
	}
	if patch.AssignedName != nil {
		body["assigned_name"] = *patch.AssignedName
	}
	if patch.CustomerArchived != nil {
		body["customer_archived"] = *patch.CustomerArchived
	}
	if patch.AdminArchived != nil {
		body["admin_archived"] = *patch.AdminArchived
	}
	if patch.ResolvedAt != nil {
		body["resolved_at"] = patch.ResolvedAt.UTC().Format(time.RFC3339Nano)
	}

	query := url.Values{}
	query.Set("id", eq(id))

	var rows []ticketRow
	if _, err := r.client.do(ctx, http.MethodPatch, ticketsTable, query, body, []string{preferRepresentation}, &rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, repositories.NotFoundError("ticket", id)
	}
	return rows[0].toModel(), nil
}

// TicketSequence allocates ticket numbers through the next_ticket_number() database function
type TicketSequence struct {
	client *Client
}

// NewTicketSequence creates a sequence backed by the data store's RPC endpoint
func NewTicketSequence(client *Client) *TicketSequence {
	return &TicketSequence{client: client}
}

// NextTicketNumber calls the RPC function, which wraps a Postgres sequence
func (s *TicketSequence) NextTicketNumber(ctx context.Context) (int64, error) {
	var next json.Number
	if _, err := s.client.do(ctx, http.MethodPost, "rpc/next_ticket_number", nil, map[string]any{}, nil, &next); err != nil {
		return 0, err
	}
	n, err := next.Int64()
	if err != nil || n < models.FirstTicketNumber {
		return 0, repositories.UpstreamError("rpc", "next_ticket_number", errBadSequenceValue(next.String()))
	}
	return n, nil
}
