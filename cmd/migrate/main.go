package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/johnquangdev/meeting-intelligence/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-intelligence/pkg/config"
	pkglogger "github.com/johnquangdev/meeting-intelligence/pkg/logger"
)

// Applies the sql-migrate migrations to the Postgres record store
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := pkglogger.Must(cfg.IsProduction())
	defer logger.Sync()

	db, err := database.NewPostgresDB(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.CloseDB(db, logger)

	n, err := database.AutoMigrate(db, cfg.Database.MigrationsDir, logger)
	if err != nil {
		logger.Fatal("Failed to apply migrations", zap.Error(err))
	}

	logger.Info("✅ Successfully applied migrations", zap.Int("count", n))
}
