// Package db stores campaign run history in PostgreSQL.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// One pass writes a single transaction, so a tiny pool is enough.
const (
	maxOpenConns    = 2
	connMaxIdleTime = 10 * time.Minute
	pingTimeout     = 10 * time.Second
)

// SetupDatabase migrates the schema and opens a verified connection.
func SetupDatabase(logger *logrus.Logger, config *Config) (*gorm.DB, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := RunMigrations(logger, config); err != nil {
		return nil, err
	}

	gormDB, err := gorm.Open(postgres.Open(config.URL), &gorm.Config{
		Logger: NewGormLogrusLogger(logger),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	logger.Info("Run history database ready")
	return gormDB, nil
}

// Close releases the pool behind gormDB.
func Close(gormDB *gorm.DB) error {
	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
