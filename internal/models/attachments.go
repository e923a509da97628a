package models

import (
	"bytes"
	"encoding/json"
)

var jsonNull = []byte("null")

// NullJSON returns a JSON null literal
func NullJSON() json.RawMessage {
	return json.RawMessage(jsonNull)
}

// DecodeAttachments turns a stored attachment value into JSON suitable for a response.
// The data store may hand back a JSON value, a string holding encoded JSON, or garbage;
// anything that does not parse degrades to null.
func DecodeAttachments(raw []byte) json.RawMessage {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return NullJSON()
	}

	if raw[0] == '"' {
		var inner string
		if err := json.Unmarshal(raw, &inner); err != nil {
			return NullJSON()
		}
		if inner == "" {
			return NullJSON()
		}
		raw = []byte(inner)
	}

	if !json.Valid(raw) {
		return NullJSON()
	}
	return json.RawMessage(raw)
}

// HasAttachments reports whether the value holds at least one attachment reference
func HasAttachments(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, jsonNull) {
		return false
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err == nil {
		return len(list) > 0
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err == nil {
		return len(obj) > 0
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s != ""
	}
	return false
}
