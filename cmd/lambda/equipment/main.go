package main

import (
	"support-desk-api/internal/handlers"
	"support-desk-api/pkg/server"
)

// Customer equipment profiles stored in a customer metafield.
func main() {
	server.StartLambda(
		handlers.FunctionEquipmentSave,
	)
}
