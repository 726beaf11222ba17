package memory

import (
	"context"
	"sync"
	"time"

	"github.com/orderdesk/inventory-api/internal/domains/settings/domain"
	"github.com/orderdesk/inventory-api/internal/domains/settings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory settings store for tests and local runs.
type Repository struct {
	mu       sync.RWMutex
	settings map[int64]*domain.Settings
}

func NewRepository() *Repository {
	return &Repository{settings: make(map[int64]*domain.Settings)}
}

func (r *Repository) Get(_ context.Context, userID int64) (*domain.Settings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	settings, ok := r.settings[userID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	copied := *settings
	return &copied, nil
}

func (r *Repository) Save(_ context.Context, settings *domain.Settings) (*domain.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *settings
	stored.UpdatedAt = time.Now().UTC()
	r.settings[stored.UserID] = &stored
	copied := stored
	return &copied, nil
}
