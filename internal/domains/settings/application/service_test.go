package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	settingsmemory "github.com/orderdesk/inventory-api/internal/domains/settings/adapters/memory"
	"github.com/orderdesk/inventory-api/internal/domains/settings/domain"
	"github.com/orderdesk/inventory-api/internal/domains/settings/ports"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
)

func ptrS(v string) *string { return &v }
func ptrI(v int32) *int32 { return &v }
func ptrB(v bool) *bool { return &v }

func TestGet_CreatesDefaultsOnFirstRead(t *testing.T) {
	repo := settingsmemory.NewRepository()
	svc := NewService(repo)
	ctx := context.Background()

	settings, err := svc.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, domain.DefaultCurrency, settings.Currency)
	require.Equal(t, int32(domain.DefaultLowStockThreshold), settings.LowStockThreshold)
	require.True(t, settings.NotifyOnStatusChange)

	// The defaults are persisted, not recomputed.
	stored, err := repo.Get(ctx, 7)
	require.NoError(t, err)
	require.Equal(t, settings.Currency, stored.Currency)
}

func TestUpdate_PartialFields(t *testing.T) {
	svc := NewService(settingsmemory.NewRepository())
	ctx := context.Background()

	updated, err := svc.Update(ctx, 7, ports.SettingsUpdate{
		Currency:          ptrS("eur"),
		LowStockThreshold: ptrI(3),
	})
	require.NoError(t, err)
	require.Equal(t, "EUR", updated.Currency)
	require.Equal(t, int32(3), updated.LowStockThreshold)
	require.True(t, updated.NotifyOnStatusChange, "untouched field keeps its value")

	updated, err = svc.Update(ctx, 7, ports.SettingsUpdate{NotifyOnStatusChange: ptrB(false)})
	require.NoError(t, err)
	require.False(t, updated.NotifyOnStatusChange)
	require.Equal(t, "EUR", updated.Currency)
}

func TestUpdate_Validation(t *testing.T) {
	svc := NewService(settingsmemory.NewRepository())
	ctx := context.Background()

	_, err := svc.Update(ctx, 7, ports.SettingsUpdate{Currency: ptrS("EURO")})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.Update(ctx, 7, ports.SettingsUpdate{Currency: ptrS("12$")})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.Update(ctx, 7, ports.SettingsUpdate{LowStockThreshold: ptrI(-1)})
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestSettings_PerUserIsolation(t *testing.T) {
	svc := NewService(settingsmemory.NewRepository())
	ctx := context.Background()

	_, err := svc.Update(ctx, 1, ports.SettingsUpdate{Currency: ptrS("GBP")})
	require.NoError(t, err)

	other, err := svc.Get(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, domain.DefaultCurrency, other.Currency)
}
