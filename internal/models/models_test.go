package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"
)

// TestTicketCreation tests ticket defaults
func TestTicketCreation(t *testing.T) {
	ticket := NewTicket("42", TicketTypeGeneral, "Help", "Need help")

	if ticket.Status != TicketStatusOpen {
		t.Errorf("Expected status Open, got %s", ticket.Status)
	}
	if ticket.Priority != TicketPriorityNormal {
		t.Errorf("Expected priority normal, got %s", ticket.Priority)
	}
	if !strings.HasPrefix(ticket.ID, "tkt_") {
		t.Errorf("Expected tkt_ prefixed ID, got %s", ticket.ID)
	}
	if !ticket.CreatedAt.Equal(ticket.UpdatedAt) {
		t.Errorf("Expected createdAt == updatedAt on creation")
	}
	if ticket.ResolvedAt != nil {
		t.Errorf("Expected resolvedAt to be unset")
	}
}

func TestTicketEnums(t *testing.T) {
	for _, s := range []string{"Open", "Pending", "Resolved", "Closed"} {
		if !TicketStatus(s).IsValid() {
			t.Errorf("status %q should be valid", s)
		}
	}
	for _, s := range []string{"open", "Done", ""} {
		if TicketStatus(s).IsValid() {
			t.Errorf("status %q should be invalid", s)
		}
	}

	for _, p := range []string{"normal", "high", "urgent"} {
		if !TicketPriority(p).IsValid() {
			t.Errorf("priority %q should be valid", p)
		}
	}
	if TicketPriority("low").IsValid() {
		t.Errorf("priority low should be invalid")
	}

	for _, ty := range []string{"return", "parts", "equipment-help", "order-issue", "general"} {
		if !TicketType(ty).IsValid() {
			t.Errorf("type %q should be valid", ty)
		}
	}
	if TicketType("billing").IsValid() {
		t.Errorf("type billing should be invalid")
	}

	if !TicketStatusResolved.IsTerminal() || !TicketStatusClosed.IsTerminal() {
		t.Errorf("Resolved and Closed should be terminal")
	}
	if TicketStatusOpen.IsTerminal() || TicketStatusPending.IsTerminal() {
		t.Errorf("Open and Pending should not be terminal")
	}
}

func TestTicketPatchApply(t *testing.T) {
	ticket := NewTicket("42", TicketTypeParts, "Belt", "Need a belt")
	status := TicketStatusClosed
	archived := true
	now := time.Now().UTC().Add(time.Minute)

	patch := &TicketPatch{Status: &status, AdminArchived: &archived, ResolvedAt: &now, UpdatedAt: now}
	if patch.IsEmpty() {
		t.Fatal("patch with status should not be empty")
	}
	patch.Apply(ticket)

	if ticket.Status != TicketStatusClosed {
		t.Errorf("Expected status Closed, got %s", ticket.Status)
	}
	if !ticket.AdminArchived || ticket.CustomerArchived {
		t.Errorf("Expected only adminArchived to be set")
	}
	if ticket.ResolvedAt == nil || !ticket.ResolvedAt.Equal(now) {
		t.Errorf("Expected resolvedAt %v, got %v", now, ticket.ResolvedAt)
	}

	if !(&TicketPatch{UpdatedAt: now}).IsEmpty() {
		t.Errorf("patch with only updatedAt should be empty")
	}
}

func TestMessageResultingTicketStatus(t *testing.T) {
	tests := []struct {
		name       string
		isStaff    bool
		isInternal bool
		want       TicketStatus
		changes    bool
	}{
		{"customer reply", false, false, TicketStatusOpen, true},
		{"public staff reply", true, false, TicketStatusPending, true},
		{"internal staff note", true, true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := NewMessage("tkt_1", "hello")
			msg.IsStaff = tt.isStaff
			msg.IsInternal = tt.isInternal

			got, changes := msg.ResultingTicketStatus()
			if got != tt.want || changes != tt.changes {
				t.Errorf("ResultingTicketStatus() = (%q, %v), want (%q, %v)", got, changes, tt.want, tt.changes)
			}
		})
	}
}

func TestDecodeAttachments(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", "null"},
		{"null", "null", "null"},
		{"array", `[{"url":"https://cdn/x.png"}]`, `[{"url":"https://cdn/x.png"}]`},
		{"double encoded", `"[{\"url\":\"a\"}]"`, `[{"url":"a"}]`},
		{"malformed", `[{"url":`, "null"},
		{"malformed inside string", `"not json"`, "null"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DecodeAttachments([]byte(tt.raw))
			if string(got) != tt.want {
				t.Errorf("DecodeAttachments(%q) = %s, want %s", tt.raw, got, tt.want)
			}
		})
	}
}

func TestHasAttachments(t *testing.T) {
	if HasAttachments(nil) || HasAttachments(NullJSON()) || HasAttachments(json.RawMessage(`[]`)) {
		t.Errorf("empty values should not count as attachments")
	}
	if !HasAttachments(json.RawMessage(`["ref-1"]`)) {
		t.Errorf("non-empty list should count as attachments")
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"  Deere  ", 60, "Deere"},
		{"<script>x</script>", 60, "scriptx/script"},
		{"John <Deere>", 60, "John Deere"},
		{"abcdef", 3, "abc"},
		{"ééééé", 2, "éé"},
		{"no limit", 0, "no limit"},
	}

	for _, tt := range tests {
		got := SanitizeText(tt.in, tt.max)
		if got != tt.want {
			t.Errorf("SanitizeText(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
		if strings.ContainsAny(got, "<>") {
			t.Errorf("SanitizeText(%q) kept angle brackets", tt.in)
		}
	}
}

func TestMachineSanitize(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	m := Machine{
		Name:   "<b>" + strings.Repeat("x", 200) + "</b>",
		Make:   " Toro ",
		Serial: "SN<1>",
	}
	m.Sanitize(now)

	if m.ID == "" || !strings.HasPrefix(m.ID, "mch_") {
		t.Errorf("Expected generated machine ID, got %q", m.ID)
	}
	if len([]rune(m.Name)) != MaxMachineNameLength {
		t.Errorf("Expected name truncated to %d, got %d", MaxMachineNameLength, len([]rune(m.Name)))
	}
	if strings.ContainsAny(m.Name, "<>") {
		t.Errorf("Name kept angle brackets: %q", m.Name)
	}
	if m.Make != "Toro" {
		t.Errorf("Expected make Toro, got %q", m.Make)
	}
	if m.Serial != "SN1" {
		t.Errorf("Expected serial SN1, got %q", m.Serial)
	}
	if m.CreatedAt != "2025-03-01T12:00:00Z" || m.UpdatedAt != "2025-03-01T12:00:00Z" {
		t.Errorf("Unexpected timestamps %q %q", m.CreatedAt, m.UpdatedAt)
	}

	// existing IDs and creation stamps survive
	kept := Machine{ID: "mch_existing", CreatedAt: "2024-01-01T00:00:00Z"}
	kept.Sanitize(now)
	if kept.ID != "mch_existing" || kept.CreatedAt != "2024-01-01T00:00:00Z" {
		t.Errorf("Sanitize overwrote existing values: %+v", kept)
	}
}

func TestEquipmentProfileValidate(t *testing.T) {
	profile := NewEquipmentProfile()
	for i := 0; i < MaxMachines; i++ {
		profile.Machines = append(profile.Machines, Machine{Name: fmt.Sprintf("m%d", i)})
	}
	if err := profile.Validate(); err != nil {
		t.Errorf("profile with %d machines should be valid: %v", MaxMachines, err)
	}

	profile.Machines = append(profile.Machines, Machine{Name: "one too many"})
	err := profile.Validate()
	if err == nil || !strings.Contains(err.Error(), "500") {
		t.Errorf("Expected 500-item limit error, got %v", err)
	}

	favorites := NewEquipmentProfile()
	for i := 0; i < MaxFavorites+1; i++ {
		favorites.Machines = append(favorites.Machines, Machine{Favorite: true})
	}
	if err := favorites.Validate(); err == nil {
		t.Errorf("Expected favorite limit error")
	}
	favorites.Machines[0].Favorite = false
	if err := favorites.Validate(); err != nil {
		t.Errorf("profile with %d favorites should be valid: %v", MaxFavorites, err)
	}
}

func TestMachineUnmarshalLenientFields(t *testing.T) {
	var m Machine
	data := `{"id":"mch_1","name":"Baler","year":2019,"serial":12345,"engine":null,"sku":"A-1","favorite":true}`
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if m.Year != "2019" || m.Serial != "12345" || m.Engine != "" || m.SKU != "A-1" || !m.Favorite {
		t.Errorf("unexpected machine %+v", m)
	}

	if err := json.Unmarshal([]byte(`{"name":{"first":"x"}}`), &m); err == nil {
		t.Error("expected an error for an object-valued field")
	}
}

func TestFlexString(t *testing.T) {
	tests := []struct {
		input string
		want  FlexString
	}{
		{`"7"`, "7"},
		{`7`, "7"},
		{`1.5`, "1.5"},
		{`true`, "true"},
		{`null`, ""},
	}
	for _, tt := range tests {
		var f FlexString
		if err := json.Unmarshal([]byte(tt.input), &f); err != nil {
			t.Errorf("unmarshal %s: %v", tt.input, err)
			continue
		}
		if f != tt.want {
			t.Errorf("unmarshal %s = %q, want %q", tt.input, f, tt.want)
		}
	}

	var f FlexString
	if err := json.Unmarshal([]byte(`[1]`), &f); err == nil {
		t.Error("expected an error for an array")
	}
}
