package database

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"taskhub/backend/internal/config"
	"taskhub/backend/internal/models"
)

// Connect opens the PostgreSQL connection and configures the pool. The
// database is often still starting when the service comes up, so the
// initial connection is retried with a fixed backoff before giving up.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	var db *gorm.DB
	var err error

	retries := cfg.Database.ConnectRetries
	if retries < 1 {
		retries = 1
	}

	for attempt := 1; attempt <= retries; attempt++ {
		db, err = gorm.Open(postgres.Open(cfg.GetDatabaseDSN()), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err == nil {
			break
		}
		slog.Warn("database connection failed",
			"attempt", attempt,
			"retries", retries,
			"error", err,
		)
		if attempt < retries {
			time.Sleep(cfg.Database.ConnectBackoff)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("connecting to database after %d attempts: %w", retries, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("obtaining sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	slog.Info("database connection established", "host", cfg.Database.Host, "name", cfg.Database.Name)
	return db, nil
}

// Migrate creates or updates the users and tasks tables.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Task{}); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}
