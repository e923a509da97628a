package server

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"support-desk-api/internal/config"
	"support-desk-api/internal/database"
	"support-desk-api/internal/handlers"
	"support-desk-api/internal/notify"
	"support-desk-api/internal/repositories"
	"support-desk-api/internal/repositories/postgres"
	"support-desk-api/internal/repositories/postgrest"
	"support-desk-api/internal/repositories/sqlite"
	"support-desk-api/internal/services"
	"support-desk-api/internal/shopify"
	"support-desk-api/pkg/lambda"
)

// Container holds all application dependencies
type Container struct {
	Config     *config.Config
	Logger     *logrus.Logger
	Services   *services.ServiceContainer
	Router     *lambda.Router
	Dispatcher *notify.Dispatcher

	// Internal dependencies
	db       *sql.DB
	sequence *postgres.TicketSequence
}

// NewContainer creates a new dependency injection container. Missing
// credentials do not fail construction; the client that needs them reports
// a configuration error when it is first used.
func NewContainer(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	logger := config.NewLogger(cfg.LogLevel, config.IsServerlessMode())
	container := &Container{Config: cfg, Logger: logger}

	repos, err := container.newRepositories()
	if err != nil {
		container.Close()
		return nil, err
	}

	notifier, err := newNotifier(cfg, logger)
	if err != nil {
		container.Close()
		return nil, err
	}
	container.Dispatcher = notify.NewDispatcher(notifier, notify.DefaultSendTimeout, logger)

	serviceContainer, err := services.NewServiceContainer(repos, &services.ServiceConfig{
		Sender:     notifier,
		Dispatcher: container.Dispatcher,
		Logger:     logger,
	})
	if err != nil {
		container.Close()
		return nil, fmt.Errorf("failed to create service container: %w", err)
	}
	container.Services = serviceContainer

	container.Router = handlers.NewRouter(&handlers.RouterConfig{
		TicketService:       serviceContainer.TicketService,
		MessageService:      serviceContainer.MessageService,
		NotificationService: serviceContainer.NotificationService,
		EquipmentService:    serviceContainer.EquipmentService,
		Logger:              logger,
	})

	logger.WithFields(logrus.Fields{
		"data_store":      cfg.DataStore.Backend,
		"sequence":        container.sequenceSource(),
		"email_provider":  mailerName(cfg),
		"deployment_mode": config.GetDeploymentMode(),
	}).Info("Container initialized")
	if !cfg.EmailConfigured() {
		logger.Warn("No email provider configured, notifications will be skipped")
	}

	return container, nil
}

// newRepositories wires the ticket store selected by DATA_STORE and the equipment store
func (c *Container) newRepositories() (*repositories.RepositoryContainer, error) {
	cfg := c.Config
	var repos *repositories.RepositoryContainer

	switch cfg.DataStore.Backend {
	case config.DataStoreSQLite:
		db, err := database.OpenSQLite(context.Background(), &database.SQLiteConfig{
			Path:        cfg.DataStore.SQLitePath,
			BusyTimeout: 5 * time.Second,
			Migrate:     true,
			Logger:      c.Logger,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		c.db = db
		repos = sqlite.NewRepositoryContainer(db, c.Logger)
	default:
		client := postgrest.NewClient(cfg.DataStore.URL, cfg.DataStore.ServiceKey, cfg.HTTPTimeout, c.Logger)
		repos = &repositories.RepositoryContainer{
			TicketRepo:     postgrest.NewTicketRepository(client),
			TicketSequence: postgrest.NewTicketSequence(client),
			MessageRepo:    postgrest.NewMessageRepository(client),
		}

		if cfg.Database.URL != "" {
			ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
			defer cancel()
			pool, err := postgres.Connect(ctx, cfg.Database.URL)
			if err != nil {
				return nil, fmt.Errorf("failed to connect to postgres: %w", err)
			}
			c.sequence = postgres.NewTicketSequence(pool, c.Logger)
			repos.TicketSequence = c.sequence
		}
	}

	shopifyClient := shopify.NewClient(cfg.Shopify.StoreDomain, cfg.Shopify.AdminToken, cfg.Shopify.APIVersion, cfg.HTTPTimeout, c.Logger)
	repos.EquipmentRepo = shopify.NewEquipmentRepository(shopifyClient, cfg.Shopify.MetafieldNamespace, cfg.Shopify.MetafieldKey, c.Logger)
	return repos, nil
}

// newNotifier picks the email provider: Resend when its key is set, SMTP when
// only a relay is configured, otherwise a notifier that skips every send.
func newNotifier(cfg *config.Config, logger *logrus.Logger) (*notify.Notifier, error) {
	renderer, err := notify.NewRenderer(notify.StoreInfo{Name: cfg.Email.StoreName, URL: cfg.Email.StoreURL})
	if err != nil {
		return nil, fmt.Errorf("failed to load email templates: %w", err)
	}
	return notify.NewNotifier(newMailer(cfg, logger), renderer, cfg.Email.From, cfg.Email.AdminEmail, logger), nil
}

func newMailer(cfg *config.Config, logger *logrus.Logger) notify.Mailer {
	if !cfg.EmailConfigured() {
		return nil
	}
	switch {
	case cfg.Email.ResendAPIKey != "":
		return notify.NewResendMailer(cfg.Email.ResendAPIKey, cfg.Email.ResendAPIURL, cfg.HTTPTimeout, logger)
	case cfg.SMTP.Host != "":
		return notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		}, logger)
	default:
		return nil
	}
}

func mailerName(cfg *config.Config) string {
	switch {
	case !cfg.EmailConfigured():
		return "none"
	case cfg.Email.ResendAPIKey != "":
		return "resend"
	default:
		return "smtp"
	}
}

func (c *Container) sequenceSource() string {
	switch {
	case c.db != nil:
		return "sqlite"
	case c.sequence != nil:
		return "postgres"
	default:
		return "rpc"
	}
}

// Runtime exposes the container to the Lambda connection manager
func (c *Container) Runtime() *lambda.Runtime {
	return &lambda.Runtime{
		Router:  c.Router,
		Flusher: c.Dispatcher,
		Close:   c.Close,
	}
}

// Close cleans up all resources
func (c *Container) Close() error {
	if c.Dispatcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), notify.DefaultSendTimeout)
		if err := c.Dispatcher.Wait(ctx); err != nil {
			c.Logger.WithError(err).Warn("Pending notifications abandoned on shutdown")
		}
		cancel()
	}

	if c.sequence != nil {
		c.sequence.Close()
		c.sequence = nil
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
		c.db = nil
	}

	return nil
}
