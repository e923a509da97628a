package handlers

import (
	"context"

	"github.com/sirupsen/logrus"

	"support-desk-api/internal/models"
	"support-desk-api/internal/repositories"
	"support-desk-api/internal/services"
	"support-desk-api/pkg/lambda"
)

// Equipment actions
const (
	ActionListCustomers = "list-customers"
	ActionGetCustomer   = "get-customer"
	ActionAdd           = "add"
)

// EquipmentHandler handles equipment profile requests
type EquipmentHandler struct {
	equipmentService services.EquipmentService
	logger           *logrus.Logger
}

// NewEquipmentHandler creates a new equipment handler
func NewEquipmentHandler(equipmentService services.EquipmentService, logger *logrus.Logger) *EquipmentHandler {
	return &EquipmentHandler{
		equipmentService: equipmentService,
		logger:           logger,
	}
}

// EquipmentRequest is the POST body. With action "add" a single machine is
// appended; otherwise equipmentData replaces the stored profile.
type EquipmentRequest struct {
	Action        string                   `json:"action"`
	CustomerID    models.FlexString        `json:"customerId" swaggertype:"string"`
	Machine       *models.Machine          `json:"machine,omitempty"`
	EquipmentData *models.EquipmentProfile `json:"equipmentData,omitempty"`
}

// SaveEquipmentResponse is returned after a write
type SaveEquipmentResponse struct {
	Success    bool                     `json:"success"`
	CustomerID string                   `json:"customerId"`
	Equipment  *models.EquipmentProfile `json:"equipment"`
}

// @Summary Read equipment profiles
// @Description action=list-customers pages through customers with saved equipment; action=get-customer returns one profile.
// @Tags equipment
// @Produce json
// @Param action query string true "Action" Enums(list-customers, get-customer)
// @Param customerId query string false "Customer ID, numeric or global"
// @Param cursor query string false "Pagination cursor"
// @Param limit query int false "Page size" default(50)
// @Success 200 {object} services.CustomerPage
// @Success 200 {object} services.CustomerEquipment
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /equipment-save [get]
func (h *EquipmentHandler) HandleGet(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	action := req.Query("action")
	if action == "" && req.Query("customerId") != "" {
		action = ActionGetCustomer
	}

	switch action {
	case ActionListCustomers:
		page, err := h.equipmentService.ListCustomers(ctx, req.Query("cursor"), queryInt(req, "limit"))
		if err != nil {
			return errorResponse(h.logger, FunctionEquipmentSave, err)
		}
		return ok(page)
	case ActionGetCustomer:
		equipment, err := h.equipmentService.GetProfile(ctx, req.Query("customerId"))
		if err != nil {
			return errorResponse(h.logger, FunctionEquipmentSave, err)
		}
		return ok(equipment)
	default:
		return errorResponse(h.logger, FunctionEquipmentSave,
			repositories.ValidationMessage("equipment", "action must be %q or %q", ActionListCustomers, ActionGetCustomer))
	}
}

// @Summary Save equipment
// @Description Replaces a customer's equipment list, or adds one machine with action=add. An added machine replaces the stored machine with the same id. Text fields accept numbers. At most 500 machines and 4 favorites.
// @Tags equipment
// @Accept json
// @Produce json
// @Param equipment body EquipmentRequest true "Equipment"
// @Success 200 {object} SaveEquipmentResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /equipment-save [post]
func (h *EquipmentHandler) HandlePost(ctx context.Context, req *lambda.Request) (*lambda.Response, error) {
	var body EquipmentRequest
	if err := decodeBody(req, &body); err != nil {
		return errorResponse(h.logger, FunctionEquipmentSave, err)
	}

	var (
		saved *services.CustomerEquipment
		err   error
	)
	switch body.Action {
	case ActionAdd:
		saved, err = h.equipmentService.AddMachine(ctx, body.CustomerID.String(), body.Machine)
	case "":
		saved, err = h.equipmentService.SaveProfile(ctx, body.CustomerID.String(), body.EquipmentData)
	default:
		err = repositories.ValidationMessage("equipment", "unknown action %q", body.Action)
	}
	if err != nil {
		return errorResponse(h.logger, FunctionEquipmentSave, err)
	}

	return ok(SaveEquipmentResponse{Success: true, CustomerID: saved.CustomerID, Equipment: saved.Equipment})
}
