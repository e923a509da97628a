package main

import (
	"support-desk-api/internal/handlers"
	"support-desk-api/pkg/server"
)

// Ticket lookup, listing, creation and updates.
func main() {
	server.StartLambda(
		handlers.FunctionTicketGet,
		handlers.FunctionTicketAdminList,
		handlers.FunctionTicketCreate,
		handlers.FunctionTicketUpdate,
	)
}
