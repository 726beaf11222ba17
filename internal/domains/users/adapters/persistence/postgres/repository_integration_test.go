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

	"github.com/orderdesk/inventory-api/internal/domains/users/domain"
	"github.com/orderdesk/inventory-api/internal/domains/users/ports"
	"github.com/orderdesk/inventory-api/internal/platform/migrations"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
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

func TestRepository_EmailUniqueness(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	user, err := domain.NewUser("Ada", "ada@example.com", domain.RoleCustomer)
	require.NoError(t, err)
	user.PasswordHash = "hash"
	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	require.NotZero(t, saved.ID)

	duplicate, err := domain.NewUser("Other Ada", "ada@example.com", domain.RoleCustomer)
	require.NoError(t, err)
	duplicate.PasswordHash = "hash"
	_, err = repo.Save(ctx, duplicate)
	assert.ErrorIs(t, err, ports.ErrEmailTaken)

	byEmail, err := repo.GetByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byEmail.ID)
}

func TestTokenStore_LifecycleAndPurge(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	store := NewTokenStore(db)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "live-token", 1, time.Now().Add(time.Hour)))
	require.NoError(t, store.Save(ctx, "stale-token", 1, time.Now().Add(-time.Hour)))

	live, err := store.Exists(ctx, "live-token")
	require.NoError(t, err)
	assert.True(t, live)

	stale, err := store.Exists(ctx, "stale-token")
	require.NoError(t, err)
	assert.False(t, stale)

	require.NoError(t, store.PurgeExpired(ctx))

	require.NoError(t, store.DeleteForUser(ctx, 1))
	live, err = store.Exists(ctx, "live-token")
	require.NoError(t, err)
	assert.False(t, live)
}
