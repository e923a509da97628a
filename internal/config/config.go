package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Data store backends
const (
	DataStorePostgREST = "postgrest"
	DataStoreSQLite    = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	Environment string
	Port        string
	LogLevel    string
	HTTPTimeout time.Duration
	DataStore   DataStoreConfig
	Database    DatabaseConfig
	Shopify     ShopifyConfig
	Email       EmailConfig
	SMTP        SMTPConfig
	RateLimit   RateLimitConfig
}

// DataStoreConfig selects and authenticates the ticket store
type DataStoreConfig struct {
	Backend    string // "postgrest" or "sqlite"
	URL        string
	ServiceKey string
	SQLitePath string
}

// DatabaseConfig holds the optional direct Postgres connection
type DatabaseConfig struct {
	URL string
}

// ShopifyConfig holds commerce platform settings
type ShopifyConfig struct {
	StoreDomain        string
	AdminToken         string
	APIVersion         string
	MetafieldNamespace string
	MetafieldKey       string
}

// EmailConfig holds transactional email settings
type EmailConfig struct {
	ResendAPIKey string
	ResendAPIURL string
	From         string
	AdminEmail   string
	StoreName    string
	StoreURL     string
}

// SMTPConfig holds the fallback SMTP relay
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// RateLimitConfig throttles the development server
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
}

// Load loads configuration from environment variables and an optional .env file
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("PORT", "8081")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("HTTP_TIMEOUT", "10s")
	v.SetDefault("DATA_STORE", DataStorePostgREST)
	v.SetDefault("SQLITE_PATH", "./data/support-desk.db")
	v.SetDefault("SHOPIFY_API_VERSION", "2024-10")
	v.SetDefault("EQUIPMENT_METAFIELD_NAMESPACE", "custom")
	v.SetDefault("EQUIPMENT_METAFIELD_KEY", "equipment")
	v.SetDefault("RESEND_API_URL", "https://api.resend.com/")
	v.SetDefault("NOTIFY_FROM_EMAIL", "support@example.com")
	v.SetDefault("STORE_NAME", "Support")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("RATE_LIMIT_RPS", 20)
	v.SetDefault("RATE_LIMIT_BURST", 40)

	config := &Config{
		Environment: v.GetString("ENVIRONMENT"),
		Port:        v.GetString("PORT"),
		LogLevel:    v.GetString("LOG_LEVEL"),
		HTTPTimeout: v.GetDuration("HTTP_TIMEOUT"),
		DataStore: DataStoreConfig{
			Backend:    strings.ToLower(v.GetString("DATA_STORE")),
			URL:        v.GetString("SUPABASE_URL"),
			ServiceKey: v.GetString("SUPABASE_SERVICE_KEY"),
			SQLitePath: v.GetString("SQLITE_PATH"),
		},
		Database: DatabaseConfig{
			URL: v.GetString("DATABASE_URL"),
		},
		Shopify: ShopifyConfig{
			StoreDomain:        v.GetString("SHOPIFY_STORE_DOMAIN"),
			AdminToken:         v.GetString("SHOPIFY_ADMIN_TOKEN"),
			APIVersion:         v.GetString("SHOPIFY_API_VERSION"),
			MetafieldNamespace: v.GetString("EQUIPMENT_METAFIELD_NAMESPACE"),
			MetafieldKey:       v.GetString("EQUIPMENT_METAFIELD_KEY"),
		},
		Email: EmailConfig{
			ResendAPIKey: v.GetString("RESEND_API_KEY"),
			ResendAPIURL: v.GetString("RESEND_API_URL"),
			From:         v.GetString("NOTIFY_FROM_EMAIL"),
			AdminEmail:   v.GetString("ADMIN_NOTIFY_EMAIL"),
			StoreName:    v.GetString("STORE_NAME"),
			StoreURL:     v.GetString("STORE_URL"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:             v.GetInt("RATE_LIMIT_BURST"),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings that cannot work at all. Missing credentials are
// not errors here; the client that needs them reports it when used.
func (c *Config) Validate() error {
	switch c.DataStore.Backend {
	case DataStorePostgREST, DataStoreSQLite:
	default:
		return fmt.Errorf("DATA_STORE must be %q or %q, got %q", DataStorePostgREST, DataStoreSQLite, c.DataStore.Backend)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// EmailConfigured reports whether any email provider credential is present
func (c *Config) EmailConfigured() bool {
	return c.Email.ResendAPIKey != "" || c.SMTP.Host != ""
}

// IsDevelopment reports whether the app runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// GetEnv gets an environment variable with a fallback value
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

