// Package postgres owns the GORM connection used by every persistence
// adapter, including the shared fall-back-to-memory decision for binaries
// that can run without a database.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	pingTimeout  = 5 * time.Second
	maxOpenConns = 25
	maxIdleConns = 5
)

// Connect opens a PostgreSQL connection via GORM, applies pool limits, and
// verifies connectivity. TranslateError is enabled so adapters can match
// gorm.ErrDuplicatedKey without reaching for the driver error.
func Connect(ctx context.Context, dsn string) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, err
	}
	return db, nil
}

// Establish dials the configured DSN and returns the DB plus a cleanup
// function. An empty DSN or a failed connection logs a warning and returns
// nil, signalling callers to fall back to in-memory repositories.
func Establish(ctx context.Context, dsn string, logger *slog.Logger) (*gorm.DB, func()) {
	if strings.TrimSpace(dsn) == "" {
		warn(logger, "postgres DSN not set, falling back to in-memory repositories", nil)
		return nil, func() {}
	}
	db, err := Connect(ctx, dsn)
	if err != nil {
		warn(logger, "failed to connect to postgres, falling back to in-memory repositories", err)
		return nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		warn(logger, "failed to unwrap postgres connection, falling back to in-memory repositories", err)
		return nil, func() {}
	}
	if logger != nil {
		logger.Info("postgres connection established")
	}
	return db, func() { _ = sqlDB.Close() }
}

// ConnectFromEnv is Establish driven by the POSTGRES_DSN environment
// variable, for binaries that take no config file.
func ConnectFromEnv(ctx context.Context, logger *slog.Logger) (*gorm.DB, func()) {
	return Establish(ctx, os.Getenv("POSTGRES_DSN"), logger)
}

func warn(logger *slog.Logger, msg string, err error) {
	if logger == nil {
		return
	}
	if err != nil {
		logger.Warn(msg, slog.String("error", err.Error()))
		return
	}
	logger.Warn(msg)
}
