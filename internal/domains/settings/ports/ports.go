// Package ports defines the settings context boundaries.
package ports

import (
	"context"
	"errors"

	"github.com/orderdesk/inventory-api/internal/domains/settings/domain"
)

var ErrNotFound = errors.New("settings not found")

// Repository persists per-user settings.
type Repository interface {
	Get(ctx context.Context, userID int64) (*domain.Settings, error)
	Save(ctx context.Context, settings *domain.Settings) (*domain.Settings, error)
}

// SettingsUpdate carries the writable fields; nil means leave unchanged.
type SettingsUpdate struct {
	Currency             *string
	LowStockThreshold    *int32
	NotifyOnStatusChange *bool
}

// Service exposes the settings use cases.
type Service interface {
	// Get returns the user's settings, materializing defaults on first read.
	Get(ctx context.Context, userID int64) (*domain.Settings, error)
	Update(ctx context.Context, userID int64, update SettingsUpdate) (*domain.Settings, error)
}
