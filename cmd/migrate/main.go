package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prospecta/company-search/internal/config"
	"github.com/prospecta/company-search/internal/logging"
	"github.com/prospecta/company-search/internal/registry/postgres"
	"go.uber.org/zap"
)

func main() {
	// Initialize logging
	if err := logging.InitLogger(); err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() { _ = logging.Logger.Sync() }()

	// Load configuration
	if err := config.LoadConfig(); err != nil {
		logging.Logger.Fatal("failed to load config", zap.Error(err))
	}

	if config.AppConfig.RegistryBackend != config.BackendPostgres {
		logging.Logger.Info("registry backend has no SQL schema, nothing to migrate",
			zap.String("backend", config.AppConfig.RegistryBackend))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	logging.Logger.Info("running registry migrations")
	if err := postgres.Migrate(ctx, config.AppConfig.DatabaseURL, logging.Logger.Named("migrate")); err != nil {
		logging.Logger.Fatal("migration failed", zap.Error(err))
	}
	logging.Logger.Info("registry migrations complete")
}
