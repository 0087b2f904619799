package database

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/meeting-intelligence/pkg/config"
)

// DefaultMigrationsDir is where sql-migrate looks for migration files
const DefaultMigrationsDir = "migrations"

// NewPostgresDB creates a new PostgreSQL database connection using GORM.
// The initial ping is retried so the service can start alongside the database.
func NewPostgresDB(ctx context.Context, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.GetDatabaseDSN()

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormLogger,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxOpenConns(cfg.Database.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MinConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	b := backoff.NewExponentialBackOff()
	b.MaxElapsedTime = 30 * time.Second
	err = backoff.RetryNotify(func() error {
		return sqlDB.PingContext(ctx)
	}, backoff.WithContext(b, ctx), func(err error, next time.Duration) {
		log.Warn("⚠️ Database not ready, retrying",
			zap.Duration("retry_in", next),
			zap.Error(err),
		)
	})
	if err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("✅ Database connected successfully",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Name),
	)

	return db, nil
}

// AutoMigrate applies the sql-migrate migrations found in dir
func AutoMigrate(db *gorm.DB, dir string, log *zap.Logger) (int, error) {
	if dir == "" {
		dir = DefaultMigrationsDir
	}
	log.Info("🔄 Applying migrations using sql-migrate...", zap.String("dir", dir))

	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate up: %w", err)
	}

	n, err := migrate.Exec(sqlDB, "postgres", &migrate.FileMigrationSource{Dir: dir}, migrate.Up)
	if err != nil {
		return n, fmt.Errorf("failed to apply migrations: %w", err)
	}

	log.Info("✅ Migrations applied", zap.Int("count", n))
	return n, nil
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB, log *zap.Logger) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Info("✅ Database connection closed")
	return nil
}
