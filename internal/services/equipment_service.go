package services

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"support-desk-api/internal/models"
	"support-desk-api/internal/repositories"
	"support-desk-api/internal/shopify"
)

// Customer listing page sizes
const (
	DefaultCustomerPageSize = 50
	MaxCustomerPageSize     = 250
)

// equipmentService implements the EquipmentService interface
type equipmentService struct {
	equipmentRepo repositories.EquipmentRepository
	logger        *logrus.Logger
	now           func() time.Time
}

// NewEquipmentService creates a new equipment service instance
func NewEquipmentService(equipmentRepo repositories.EquipmentRepository, logger *logrus.Logger) EquipmentService {
	if logger == nil {
		logger = logrus.New()
	}
	return &equipmentService{
		equipmentRepo: equipmentRepo,
		logger:        logger,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// ListCustomers returns one page of customers with saved equipment
func (s *equipmentService) ListCustomers(ctx context.Context, cursor string, limit int) (*CustomerPage, error) {
	if limit <= 0 {
		limit = DefaultCustomerPageSize
	}
	if limit > MaxCustomerPageSize {
		limit = MaxCustomerPageSize
	}

	customers, pageInfo, err := s.equipmentRepo.ListCustomers(ctx, strings.TrimSpace(cursor), limit)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []models.EquipmentCustomer{}
	}
	return &CustomerPage{Customers: customers, PageInfo: pageInfo}, nil
}

// GetProfile returns a customer's equipment, empty when nothing is saved
func (s *equipmentService) GetProfile(ctx context.Context, customerID string) (*CustomerEquipment, error) {
	id, err := normalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}

	profile, err := s.equipmentRepo.GetProfile(ctx, id)
	if err != nil {
		return nil, err
	}
	if profile.Machines == nil {
		profile.Machines = []models.Machine{}
	}
	return &CustomerEquipment{CustomerID: id, Equipment: profile}, nil
}

// SaveProfile replaces a customer's equipment. Limits are checked before any write.
func (s *equipmentService) SaveProfile(ctx context.Context, customerID string, profile *models.EquipmentProfile) (*CustomerEquipment, error) {
	id, err := normalizeCustomerID(customerID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, repositories.ValidationMessage("equipment", "equipmentData is required")
	}
	if err := profile.Validate(); err != nil {
		return nil, repositories.ValidationError("equipment", id, err)
	}

	profile.Sanitize(s.now())
	if err := s.equipmentRepo.SaveProfile(ctx, id, profile); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"customer_id": id,
		"machines":    len(profile.Machines),
		"favorites":   profile.FavoriteCount(),
	}).Info("Equipment saved")

	return &CustomerEquipment{CustomerID: id, Equipment: profile}, nil
}

// AddMachine appends one machine to the stored profile. A machine whose id
// is already present replaces that entry. Concurrent adds are last-write-wins.
func (s *equipmentService) AddMachine(ctx context.Context, customerID string, machine *models.Machine) (*CustomerEquipment, error) {
	if machine == nil {
		return nil, repositories.ValidationMessage("equipment", "machine is required")
	}

	current, err := s.GetProfile(ctx, customerID)
	if err != nil {
		return nil, err
	}

	profile := &models.EquipmentProfile{
		Machines: append(make([]models.Machine, 0, len(current.Equipment.Machines)+1), current.Equipment.Machines...),
	}
	incomingID := models.SanitizeText(machine.ID, models.MaxMachineIDLength)
	replaced := false
	if incomingID != "" {
		for i := range profile.Machines {
			if profile.Machines[i].ID == incomingID {
				machine.CreatedAt = profile.Machines[i].CreatedAt
				profile.Machines[i] = *machine
				replaced = true
				break
			}
		}
	}
	if !replaced {
		profile.Machines = append(profile.Machines, *machine)
	}

	return s.SaveProfile(ctx, current.CustomerID, profile)
}

// normalizeCustomerID accepts a numeric or global customer id and returns the numeric form
func normalizeCustomerID(customerID string) (string, error) {
	if strings.TrimSpace(customerID) == "" {
		return "", repositories.ValidationMessage("equipment", "customerId is required")
	}
	gid, err := shopify.CustomerGID(customerID)
	if err != nil {
		return "", err
	}
	return shopify.CustomerNumericID(gid), nil
}
