package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"support-desk-api/internal/repositories"
	"support-desk-api/pkg/lambda"
)

// Endpoint names. Each is served as its own function and as /api/<name> on the dev server.
const (
	FunctionTicketGet       = "ticket-get"
	FunctionTicketAdminList = "ticket-admin-list"
	FunctionTicketCreate    = "ticket-create"
	FunctionTicketUpdate    = "ticket-update"
	FunctionTicketMessages  = "ticket-messages"
	FunctionTicketReply     = "ticket-reply"
	FunctionTicketNotify    = "ticket-notify"
	FunctionEquipmentSave   = "equipment-save"
)

// decodeBody parses a JSON request body into v
func decodeBody(req *lambda.Request, v interface{}) error {
	body := bytes.TrimSpace(req.Body)
	if len(body) == 0 {
		return repositories.ValidationMessage("request", "request body is required")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return repositories.ValidationMessage("request", "invalid JSON body: %v", err)
	}
	return nil
}

// queryInt parses an integer query parameter, returning 0 when absent or malformed
func queryInt(req *lambda.Request, name string) int {
	value, err := strconv.Atoi(req.Query(name))
	if err != nil {
		return 0
	}
	return value
}

// ok writes a 200 JSON response
func ok(payload interface{}) (*lambda.Response, error) {
	return lambda.JSON(http.StatusOK, payload)
}
