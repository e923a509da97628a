package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexString is a string that also accepts JSON numbers and booleans, so
// {"year": 2019} and {"year": "2019"} decode the same way. null decodes to "".
type FlexString string

// UnmarshalJSON implements json.Unmarshaler
func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*f = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	case bytes.Equal(data, []byte("true")), bytes.Equal(data, []byte("false")):
		*f = FlexString(data)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("expected a string or number, got %s", data)
	}
	*f = FlexString(n.String())
	return nil
}

// String returns the plain string value
func (f FlexString) String() string {
	return string(f)
}

// machineJSON mirrors Machine with lenient text fields
type machineJSON struct {
	ID        FlexString `json:"id"`
	Name      FlexString `json:"name"`
	Category  FlexString `json:"category"`
	Make      FlexString `json:"make"`
	Type      FlexString `json:"type"`
	Submodel  FlexString `json:"submodel"`
	Model     FlexString `json:"model"`
	Variant   FlexString `json:"variant"`
	Year      FlexString `json:"year"`
	Trim      FlexString `json:"trim"`
	Engine    FlexString `json:"engine"`
	SKU       FlexString `json:"sku"`
	Serial    FlexString `json:"serial"`
	Favorite  bool       `json:"favorite"`
	CreatedAt FlexString `json:"createdAt"`
	UpdatedAt FlexString `json:"updatedAt"`
}

// UnmarshalJSON accepts numeric values for any text field, e.g. a year or serial
// sent as a number by a storefront form.
func (m *Machine) UnmarshalJSON(data []byte) error {
	var raw machineJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Machine{
		ID:        raw.ID.String(),
		Name:      raw.Name.String(),
		Category:  raw.Category.String(),
		Make:      raw.Make.String(),
		Type:      raw.Type.String(),
		Submodel:  raw.Submodel.String(),
		Model:     raw.Model.String(),
		Variant:   raw.Variant.String(),
		Year:      raw.Year.String(),
		Trim:      raw.Trim.String(),
		Engine:    raw.Engine.String(),
		SKU:       raw.SKU.String(),
		Serial:    raw.Serial.String(),
		Favorite:  raw.Favorite,
		CreatedAt: raw.CreatedAt.String(),
		UpdatedAt: raw.UpdatedAt.String(),
	}
	return nil
}
