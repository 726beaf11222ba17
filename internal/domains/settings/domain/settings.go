// Package domain holds the per-user settings model.
package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrInvalidCurrency  = errors.New("currency must be a 3-letter ISO code")
	ErrInvalidThreshold = errors.New("low stock threshold must not be negative")
)

// Defaults applied when a user has no stored settings yet.
const (
	DefaultCurrency          = "USD"
	DefaultLowStockThreshold = 10
)

// Settings are per-user preferences affecting reports and notifications.
type Settings struct {
	UserID               int64
	Currency             string
	LowStockThreshold    int32
	NotifyOnStatusChange bool
	UpdatedAt            time.Time
}

// NewSettings returns the defaults for a user.
func NewSettings(userID int64) *Settings {
	return &Settings{
		UserID:               userID,
		Currency:             DefaultCurrency,
		LowStockThreshold:    DefaultLowStockThreshold,
		NotifyOnStatusChange: true,
	}
}

func (s *Settings) SetCurrency(currency string) error {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if len(currency) != 3 {
		return ErrInvalidCurrency
	}
	for _, r := range currency {
		if r < 'A' || r > 'Z' {
			return ErrInvalidCurrency
		}
	}
	s.Currency = currency
	return nil
}

func (s *Settings) SetLowStockThreshold(threshold int32) error {
	if threshold < 0 {
		return ErrInvalidThreshold
	}
	s.LowStockThreshold = threshold
	return nil
}
