//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	"github.com/orderdesk/inventory-api/internal/domains/orders/ports"
	"github.com/orderdesk/inventory-api/internal/platform/migrations"
)

func setupOrdersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("inventory_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newPendingOrder(t *testing.T, number string) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder(number, 7, []domain.Line{
		{ProductID: 1, Name: "Widget", Quantity: 2, Price: 9.99},
	}, "rush")
	require.NoError(t, err)
	return order
}

func TestRepository_CreateAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newPendingOrder(t, "ord-1"))
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	fetched, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "ord-1", fetched.Number)
	assert.Equal(t, domain.StatusPending, fetched.Status)
	assert.Len(t, fetched.Lines, 1)
	assert.Empty(t, fetched.History)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_UpdateStatus_PersistsHistory(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newPendingOrder(t, "ord-2"))
	require.NoError(t, err)

	expected := created.Status
	require.NoError(t, created.ApplyTransition(domain.StatusApproved, "ok", domain.TransitionExtra{}))
	updated, err := repo.UpdateStatus(ctx, created, expected)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, updated.Status)
	require.Len(t, updated.History, 1)
	assert.Equal(t, domain.StatusApproved, updated.History[0].Status)
	assert.Equal(t, "ok", updated.History[0].Notes)
}

func TestRepository_UpdateStatus_ConditionalWrite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newPendingOrder(t, "ord-3"))
	require.NoError(t, err)

	first, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)

	require.NoError(t, first.ApplyTransition(domain.StatusApproved, "", domain.TransitionExtra{}))
	_, err = repo.UpdateStatus(ctx, first, domain.StatusPending)
	require.NoError(t, err)

	require.NoError(t, second.ApplyTransition(domain.StatusCancelled, "", domain.TransitionExtra{}))
	_, err = repo.UpdateStatus(ctx, second, domain.StatusPending)
	assert.ErrorIs(t, err, ports.ErrStaleStatus)

	stored, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusApproved, stored.Status)
	assert.Len(t, stored.History, 1, "losing write must not add history")
}

func TestRepository_ListByCustomer(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newPendingOrder(t, "ord-4"))
	require.NoError(t, err)

	other, err := domain.NewOrder("ord-5", 42, []domain.Line{
		{ProductID: 2, Name: "Gadget", Quantity: 1, Price: 5},
	}, "")
	require.NoError(t, err)
	_, err = repo.Create(ctx, other)
	require.NoError(t, err)

	mine, err := repo.ListByCustomer(ctx, 7)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, "ord-4", mine[0].Number)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRepository_UpdatePayment(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupOrdersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newPendingOrder(t, "ord-6"))
	require.NoError(t, err)

	updated, err := repo.UpdatePayment(ctx, created.ID, domain.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
	assert.Empty(t, updated.History)
}
