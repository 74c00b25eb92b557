// Package cli provides common initialization shared by cmd/liquiledger
// and cmd/ledger-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"liquiledger/internal/backend"
	"liquiledger/internal/config"
	"liquiledger/internal/log"
	"liquiledger/internal/store"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the process default.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore builds the configured blob store.
// Returns the store result or exits the process on failure.
func InitStore(logger *log.Logger, cfg *config.Config) *backend.Result {
	opts, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend)).CreateStore(opts)
	if err != nil {
		logger.Error("Failed to initialize blob store", log.FieldError, err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return result
}

// InitGateway wires the persistence gateway over the configured store.
func InitGateway(logger *log.Logger, cfg *config.Config) (*store.Gateway, *backend.Result) {
	result := InitStore(logger, cfg)
	return store.NewGateway(result.Store), result
}
