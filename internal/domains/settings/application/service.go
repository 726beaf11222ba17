// Package application implements the settings use cases.
package application

import (
	"context"
	"errors"

	"github.com/orderdesk/inventory-api/internal/domains/settings/domain"
	"github.com/orderdesk/inventory-api/internal/domains/settings/ports"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
)

var _ ports.Service = (*Service)(nil)

type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// Get returns stored settings, creating the defaults on first read so every
// user always has a settings row.
func (s *Service) Get(ctx context.Context, userID int64) (*domain.Settings, error) {
	settings, err := s.repo.Get(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, ports.ErrNotFound) {
		return nil, apperrors.Internal(err)
	}
	saved, err := s.repo.Save(ctx, domain.NewSettings(userID))
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return saved, nil
}

func (s *Service) Update(ctx context.Context, userID int64, update ports.SettingsUpdate) (*domain.Settings, error) {
	settings, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if update.Currency != nil {
		if err := settings.SetCurrency(*update.Currency); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
	}
	if update.LowStockThreshold != nil {
		if err := settings.SetLowStockThreshold(*update.LowStockThreshold); err != nil {
			return nil, apperrors.Validation(err.Error())
		}
	}
	if update.NotifyOnStatusChange != nil {
		settings.NotifyOnStatusChange = *update.NotifyOnStatusChange
	}
	saved, err := s.repo.Save(ctx, settings)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return saved, nil
}
