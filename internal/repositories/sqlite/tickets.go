package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"support-desk-api/internal/models"
	"support-desk-api/internal/repositories"

	"github.com/sirupsen/logrus"
)

const ticketColumns = `id, ticket_number, customer_id, customer_email, customer_name, type, priority, status,
	subject, description, order_number, return_reason, equipment_id, equipment_name, part_number,
	attachments, customer_archived, admin_archived, assigned_to, assigned_name,
	created_at, updated_at, resolved_at`

// TicketRepository implements repositories.TicketRepository for SQLite
type TicketRepository struct {
	*BaseRepository
}

// NewTicketRepository creates a new SQLite ticket repository
func NewTicketRepository(db *sql.DB, logger *logrus.Logger) *TicketRepository {
	return &TicketRepository{
		BaseRepository: NewBaseRepository(db, "tickets", logger),
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTicket(row rowScanner) (*models.Ticket, error) {
	var (
		t                                      models.Ticket
		email, name, attachments               sql.NullString
		orderNumber, returnReason, equipmentID sql.NullString
		equipmentName, partNumber              sql.NullString
		assignedTo, assignedName               sql.NullString
		resolvedAt                             sql.NullTime
	)

	err := row.Scan(
		&t.ID, &t.TicketNumber, &t.CustomerID, &email, &name, &t.Type, &t.Priority, &t.Status,
		&t.Subject, &t.Description, &orderNumber, &returnReason, &equipmentID, &equipmentName, &partNumber,
		&attachments, &t.CustomerArchived, &t.AdminArchived, &assignedTo, &assignedName,
		&t.CreatedAt, &t.UpdatedAt, &resolvedAt,
	)
	if err != nil {
		return nil, err
	}

	t.CustomerEmail = email.String
	t.CustomerName = name.String
	t.OrderNumber = stringPtr(orderNumber)
	t.ReturnReason = stringPtr(returnReason)
	t.EquipmentID = stringPtr(equipmentID)
	t.EquipmentName = stringPtr(equipmentName)
	t.PartNumber = stringPtr(partNumber)
	t.AssignedTo = stringPtr(assignedTo)
	t.AssignedName = stringPtr(assignedName)
	t.Attachments = models.DecodeAttachments([]byte(attachments.String))
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	if resolvedAt.Valid {
		resolved := resolvedAt.Time.UTC()
		t.ResolvedAt = &resolved
	}
	return &t, nil
}

// GetByID retrieves a ticket by ID
func (r *TicketRepository) GetByID(ctx context.Context, id string) (*models.Ticket, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id = ?`
	ticket, err := scanTicket(r.executeQueryRow(ctx, "get_by_id", query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repositories.NotFoundError("ticket", id)
		}
		return nil, repositories.UpstreamError("get_by_id", "ticket", err)
	}
	return ticket, nil
}

// List retrieves a page of tickets, newest first, with the total matching count
func (r *TicketRepository) List(ctx context.Context, filters *repositories.TicketFilters) ([]*models.Ticket, int64, error) {
	filters.Normalize()

	var conditions []string
	var args []interface{}
	if filters.CustomerID != "" {
		conditions = append(conditions, "customer_id = ?")
		args = append(args, filters.CustomerID)
	}
	if filters.Status != nil {
		conditions = append(conditions, "status = ?")
		args = append(args, string(*filters.Status))
	}
	if filters.Type != nil {
		conditions = append(conditions, "type = ?")
		args = append(args, string(*filters.Type))
	}
	if filters.Priority != nil {
		conditions = append(conditions, "priority = ?")
		args = append(args, string(*filters.Priority))
	}
	switch filters.Archived {
	case repositories.ArchiveOnly:
		conditions = append(conditions, filters.ArchiveColumn()+" = 1")
	case repositories.ArchiveExclude:
		conditions = append(conditions, "COALESCE("+filters.ArchiveColumn()+", 0) = 0")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM tickets` + where
	if err := r.executeQueryRow(ctx, "count", countQuery, args...).Scan(&total); err != nil {
		return nil, 0, repositories.UpstreamError("count", "ticket", err)
	}

	query := `SELECT ` + ticketColumns + ` FROM tickets` + where +
		` ORDER BY created_at DESC, ticket_number DESC LIMIT ? OFFSET ?`
	rows, err := r.executeQuery(ctx, "list", query, append(args, filters.Limit, filters.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	tickets := make([]*models.Ticket, 0, filters.Limit)
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, 0, repositories.UpstreamError("scan", "ticket", err)
		}
		tickets = append(tickets, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, repositories.UpstreamError("list", "ticket", err)
	}
	return tickets, total, nil
}

// Create inserts a ticket
func (r *TicketRepository) Create(ctx context.Context, ticket *models.Ticket) error {
	if err := r.validateID(ticket.ID); err != nil {
		return err
	}

	query := `INSERT INTO tickets (` + ticketColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.executeExec(ctx, "create", query,
		ticket.ID,
		ticket.TicketNumber,
		ticket.CustomerID,
		nullString(ticket.CustomerEmail),
		nullString(ticket.CustomerName),
		string(ticket.Type),
		string(ticket.Priority),
		string(ticket.Status),
		ticket.Subject,
		ticket.Description,
		nullStringPtr(ticket.OrderNumber),
		nullStringPtr(ticket.ReturnReason),
		nullStringPtr(ticket.EquipmentID),
		nullStringPtr(ticket.EquipmentName),
		nullStringPtr(ticket.PartNumber),
		attachmentsColumn(ticket.Attachments),
		ticket.CustomerArchived,
		ticket.AdminArchived,
		nullStringPtr(ticket.AssignedTo),
		nullStringPtr(ticket.AssignedName),
		ticket.CreatedAt.UTC(),
		ticket.UpdatedAt.UTC(),
		nullTime(ticket.ResolvedAt),
	)
	if err != nil {
		if repositories.IsDuplicate(err) {
			return repositories.DuplicateError("ticket", "ticket_number", strconv.FormatInt(ticket.TicketNumber, 10))
		}
		return err
	}
	return nil
}

// Update applies the supplied fields of a patch and returns the stored ticket
func (r *TicketRepository) Update(ctx context.Context, id string, patch *models.TicketPatch) (*models.Ticket, error) {
	if err := r.validateID(id); err != nil {
		return nil, err
	}

	sets := []string{"updated_at = ?"}
	args := []interface{}{patch.UpdatedAt.UTC()}
	add := func(column string, value interface{}) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}
	if patch.Status != nil {
		add("status", string(*patch.Status))
	}
	if patch.Priority != nil {
		add("priority", string(*patch.Priority))
	}
	if patch.AssignedTo != nil {
		add("assigned_to", *patch.AssignedTo)
	}
	if patch.AssignedName != nil {
		add("assigned_name", *patch.AssignedName)
	}
	if patch.CustomerArchived != nil {
		add("customer_archived", *patch.CustomerArchived)
	}
	if patch.AdminArchived != nil {
		add("admin_archived", *patch.AdminArchived)
	}
	if patch.ResolvedAt != nil {
		add("resolved_at", patch.ResolvedAt.UTC())
	}

	query := fmt.Sprintf(`UPDATE tickets SET %s WHERE id = ?`, strings.Join(sets, ", "))
	result, err := r.executeExec(ctx, "update", query, append(args, id)...)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, repositories.UpstreamError("update", "ticket", err)
	}
	if affected == 0 {
		return nil, repositories.NotFoundError("ticket", id)
	}
	return r.GetByID(ctx, id)
}
