package main

import (
	"context"
	"fmt"

	"github.com/reportu/reportu/internal/config"
	"github.com/reportu/reportu/internal/intake"
	"github.com/reportu/reportu/internal/logger"
	"github.com/reportu/reportu/internal/nats"
)

var globalFlags struct {
	dataDir  string
	logLevel string
	logFile  string
}

// loadConfig reads the layered config and applies command line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if globalFlags.dataDir != "" {
		cfg.DataDir = globalFlags.dataDir
	}
	if globalFlags.logLevel != "" {
		cfg.LogLevel = globalFlags.logLevel
	}
	if globalFlags.logFile != "" {
		cfg.LogFile = globalFlags.logFile
	}
	return cfg, nil
}

// setupLogging configures the logger before any command runs. A broken
// config file is reported by the command itself, so it is not fatal here.
func setupLogging() error {
	cfg, err := loadConfig()
	if err != nil {
		return nil
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogFile); err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	return nil
}

// openIntake starts the embedded broker and returns a store over it,
// seeding the demo activity when enabled. Callers must close the broker.
func openIntake(ctx context.Context, cfg *config.Config, seed bool) (*nats.Broker, *intake.Store, error) {
	broker, err := nats.Open(ctx, cfg.StoreDir())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open report log: %w", err)
	}
	store := intake.FromBroker(broker)

	if seed {
		n, err := store.Seed(ctx)
		if err != nil {
			_ = broker.Close()
			return nil, nil, fmt.Errorf("failed to seed demo reports: %w", err)
		}
		if n > 0 {
			logger.Info("Seeded %d demo reports", n)
		}
	}
	return broker, store, nil
}
