package config

import (
	"os"
	"sync"
)

// ServerlessConfig holds serverless-specific configuration
type ServerlessConfig struct {
	IsLambda     bool
	FunctionName string
	Region       string
	Stage        string
}

// Global serverless configuration
var (
	serverlessConfig *ServerlessConfig
	serverlessOnce   sync.Once
)

// GetServerlessConfig returns the serverless configuration
func GetServerlessConfig() *ServerlessConfig {
	serverlessOnce.Do(func() {
		serverlessConfig = detectServerless()
	})
	return serverlessConfig
}

func detectServerless() *ServerlessConfig {
	return &ServerlessConfig{
		IsLambda:     os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "",
		FunctionName: os.Getenv("AWS_LAMBDA_FUNCTION_NAME"),
		Region:       os.Getenv("AWS_REGION"),
		Stage:        GetEnv("STAGE", "dev"),
	}
}

// IsServerlessMode returns true if running in serverless mode
func IsServerlessMode() bool {
	return GetServerlessConfig().IsLambda
}

// GetDeploymentMode returns the current deployment mode
func GetDeploymentMode() string {
	if IsServerlessMode() {
		return "serverless"
	}
	return "server"
}

// AdaptConfigForServerless adjusts settings that only make sense on a long-running host.
// A Lambda sandbox has no durable local disk, so the SQLite store is not an option there.
func AdaptConfigForServerless(config *Config) *Config {
	if !IsServerlessMode() {
		return config
	}
	if config.DataStore.Backend == DataStoreSQLite {
		config.DataStore.Backend = DataStorePostgREST
	}
	return config
}

// GetOptimizedConfig loads configuration adapted for the current deployment mode
func GetOptimizedConfig() (*Config, error) {
	config, err := Load()
	if err != nil {
		return nil, err
	}
	return AdaptConfigForServerless(config), nil
}
