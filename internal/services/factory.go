package services

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"support-desk-api/internal/repositories"
)

// ServiceContainer holds all service instances
type ServiceContainer struct {
	TicketService       TicketService
	MessageService      MessageService
	NotificationService NotificationService
	EquipmentService    EquipmentService
}

// ServiceConfig holds the collaborators services need beyond repositories
type ServiceConfig struct {
	// Sender handles explicit notification requests
	Sender Sender
	// Dispatcher fans out best-effort notifications from ticket writes. May be nil.
	Dispatcher NotificationDispatcher
	Logger     *logrus.Logger
}

// NewServiceContainer creates a new service container with all services
func NewServiceContainer(repos *repositories.RepositoryContainer, config *ServiceConfig) (*ServiceContainer, error) {
	if repos == nil {
		return nil, fmt.Errorf("repository container cannot be nil")
	}
	if config == nil {
		config = &ServiceConfig{}
	}
	if config.Sender == nil {
		return nil, fmt.Errorf("notification sender cannot be nil")
	}

	container := &ServiceContainer{
		TicketService:       NewTicketService(repos.TicketRepo, repos.TicketSequence, config.Dispatcher, config.Logger),
		MessageService:      NewMessageService(repos.MessageRepo, repos.TicketRepo, config.Dispatcher, config.Logger),
		NotificationService: NewNotificationService(config.Sender),
		EquipmentService:    NewEquipmentService(repos.EquipmentRepo, config.Logger),
	}
	if err := container.Validate(repos); err != nil {
		return nil, err
	}
	return container, nil
}

// Validate validates that every repository a service depends on is present
func (c *ServiceContainer) Validate(repos *repositories.RepositoryContainer) error {
	if repos.TicketRepo == nil {
		return fmt.Errorf("ticket repository is not initialized")
	}
	if repos.TicketSequence == nil {
		return fmt.Errorf("ticket number sequence is not initialized")
	}
	if repos.MessageRepo == nil {
		return fmt.Errorf("message repository is not initialized")
	}
	if repos.EquipmentRepo == nil {
		return fmt.Errorf("equipment repository is not initialized")
	}
	return nil
}
