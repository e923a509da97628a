package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Equipment profile limits
const (
	MaxMachines  = 500
	MaxFavorites = 4
)

// Maximum lengths for machine free-text fields, in characters
const (
	MaxMachineIDLength      = 64
	MaxMachineNameLength    = 120
	MaxMachineFieldLength   = 60
	MaxMachineYearLength    = 10
	MaxMachineEngineLength  = 120
	MaxMachineSerialLength  = 80
	MaxMachineVariantLength = 60
)

// Machine is one piece of customer-owned equipment
type Machine struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Make      string `json:"make"`
	Type      string `json:"type"`
	Submodel  string `json:"submodel"`
	Model     string `json:"model"`
	Variant   string `json:"variant"`
	Year      string `json:"year"`
	Trim      string `json:"trim"`
	Engine    string `json:"engine"`
	SKU       string `json:"sku,omitempty"`
	Serial    string `json:"serial,omitempty"`
	Favorite  bool   `json:"favorite"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// EquipmentProfile is the per-customer document stored in the commerce platform metafield
type EquipmentProfile struct {
	Machines  []Machine `json:"machines"`
	UpdatedAt string    `json:"updatedAt,omitempty"`
}

// EquipmentCustomer summarizes a customer that has saved equipment
type EquipmentCustomer struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	MachineCount int    `json:"machineCount"`
}

// PageInfo carries cursor pagination state
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor,omitempty"`
}

// NewEquipmentProfile returns an empty profile
func NewEquipmentProfile() *EquipmentProfile {
	return &EquipmentProfile{Machines: []Machine{}}
}

// FavoriteCount returns how many machines are marked favorite
func (p *EquipmentProfile) FavoriteCount() int {
	count := 0
	for _, m := range p.Machines {
		if m.Favorite {
			count++
		}
	}
	return count
}

// Validate enforces the machine count and favorite limits
func (p *EquipmentProfile) Validate() error {
	if len(p.Machines) > MaxMachines {
		return fmt.Errorf("equipment list exceeds the %d-item limit (got %d)", MaxMachines, len(p.Machines))
	}
	if favorites := p.FavoriteCount(); favorites > MaxFavorites {
		return fmt.Errorf("at most %d machines can be marked favorite (got %d)", MaxFavorites, favorites)
	}
	return nil
}

// Sanitize cleans every machine and stamps the document timestamp
func (p *EquipmentProfile) Sanitize(now time.Time) {
	if p.Machines == nil {
		p.Machines = []Machine{}
	}
	for i := range p.Machines {
		p.Machines[i].Sanitize(now)
	}
	p.UpdatedAt = now.UTC().Format(time.RFC3339)
}

// Sanitize strips markup, trims and truncates every free-text field, assigns an ID
// when missing and stamps timestamps
func (m *Machine) Sanitize(now time.Time) {
	m.ID = SanitizeText(m.ID, MaxMachineIDLength)
	m.Name = SanitizeText(m.Name, MaxMachineNameLength)
	m.Category = SanitizeText(m.Category, MaxMachineFieldLength)
	m.Make = SanitizeText(m.Make, MaxMachineFieldLength)
	m.Type = SanitizeText(m.Type, MaxMachineFieldLength)
	m.Submodel = SanitizeText(m.Submodel, MaxMachineFieldLength)
	m.Model = SanitizeText(m.Model, MaxMachineFieldLength)
	m.Variant = SanitizeText(m.Variant, MaxMachineVariantLength)
	m.Year = SanitizeText(m.Year, MaxMachineYearLength)
	m.Trim = SanitizeText(m.Trim, MaxMachineFieldLength)
	m.Engine = SanitizeText(m.Engine, MaxMachineEngineLength)
	m.SKU = SanitizeText(m.SKU, MaxMachineSerialLength)
	m.Serial = SanitizeText(m.Serial, MaxMachineSerialLength)

	if m.ID == "" {
		m.ID = NewMachineID()
	}

	stamp := now.UTC().Format(time.RFC3339)
	m.CreatedAt = SanitizeText(m.CreatedAt, MaxMachineFieldLength)
	if m.CreatedAt == "" {
		m.CreatedAt = stamp
	}
	m.UpdatedAt = stamp
}

// NewMachineID generates an identifier for a machine record
func NewMachineID() string {
	return "mch_" + strings.ReplaceAll(uuid.New().String(), "-", "")[:16]
}
