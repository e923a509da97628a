package main

import (
	"support-desk-api/internal/handlers"
	"support-desk-api/pkg/server"
)

func main() {
	server.StartLambda(
		handlers.FunctionTicketNotify,
	)
}
