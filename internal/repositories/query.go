package repositories

import (
	"support-desk-api/internal/models"
)

// Pagination defaults for ticket listings
const (
	DefaultPageSize = 50
	MaxPageSize     = 100
)

// TicketView selects whose archive flag a listing honours
type TicketView int

const (
	// CustomerView filters on customer_archived
	CustomerView TicketView = iota
	// AdminView filters on admin_archived
	AdminView
)

// ArchiveScope selects archived or unarchived tickets
type ArchiveScope string

const (
	ArchiveExclude ArchiveScope = ""
	ArchiveOnly    ArchiveScope = "true"
	ArchiveAll     ArchiveScope = "all"
)

// ParseArchiveScope maps the archived query parameter to a scope
func ParseArchiveScope(value string) ArchiveScope {
	switch ArchiveScope(value) {
	case ArchiveOnly, ArchiveAll:
		return ArchiveScope(value)
	}
	return ArchiveExclude
}

// TicketFilters narrows a ticket listing
type TicketFilters struct {
	CustomerID string
	Status     *models.TicketStatus
	Type       *models.TicketType
	Priority   *models.TicketPriority
	View       TicketView
	Archived   ArchiveScope
	Limit      int
	Offset     int
}

// ArchiveColumn returns the column holding the archive flag for the view
func (f *TicketFilters) ArchiveColumn() string {
	if f.View == AdminView {
		return "admin_archived"
	}
	return "customer_archived"
}

// Normalize clamps limit and offset to sane values
func (f *TicketFilters) Normalize() {
	if f.Limit <= 0 {
		f.Limit = DefaultPageSize
	}
	if f.Limit > MaxPageSize {
		f.Limit = MaxPageSize
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
}

// PageOffset converts a 1-based page number to a row offset
func PageOffset(page, limit int) int {
	if page < 1 {
		page = 1
	}
	return (page - 1) * limit
}
