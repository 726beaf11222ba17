package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/orderdesk/inventory-api/internal/domains/catalog/domain"
	"github.com/orderdesk/inventory-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory product store for tests and local runs.
type Repository struct {
	mu       sync.RWMutex
	products map[int64]*domain.Product
	changes  map[int64][]*domain.ChangeRecord
	nextID   int64
	changeID int64
}

func NewRepository() *Repository {
	return &Repository{
		products: make(map[int64]*domain.Product),
		changes:  make(map[int64][]*domain.ChangeRecord),
		nextID:   1,
		changeID: 1,
	}
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	stored := cloneProduct(product)
	if stored.ID == 0 {
		stored.ID = r.nextID
		r.nextID++
		stored.CreatedAt = now
	} else if existing, ok := r.products[stored.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	} else {
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now
	r.products[stored.ID] = stored
	return cloneProduct(stored), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneProduct(product), nil
}

func (r *Repository) List(_ context.Context) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		products = append(products, cloneProduct(product))
	}
	sort.Slice(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products, nil
}

func (r *Repository) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *Repository) AdjustQuantity(_ context.Context, id int64, delta int32) (int32, int32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	product, ok := r.products[id]
	if !ok {
		return 0, 0, ports.ErrNotFound
	}
	oldQty := product.Quantity
	newQty := oldQty + delta
	if newQty < 0 {
		return 0, 0, ports.ErrStockConflict
	}
	product.Quantity = newQty
	product.UpdatedAt = time.Now().UTC()
	return oldQty, newQty, nil
}

func (r *Repository) AppendChange(_ context.Context, change *domain.ChangeRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *change
	stored.ID = r.changeID
	r.changeID++
	if stored.At.IsZero() {
		stored.At = time.Now().UTC()
	}
	r.changes[stored.ProductID] = append(r.changes[stored.ProductID], &stored)
	return nil
}

func (r *Repository) ListChanges(_ context.Context, productID int64) ([]*domain.ChangeRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.changes[productID]
	changes := make([]*domain.ChangeRecord, 0, len(stored))
	for _, change := range stored {
		copied := *change
		changes = append(changes, &copied)
	}
	return changes, nil
}

func cloneProduct(product *domain.Product) *domain.Product {
	if product == nil {
		return nil
	}
	copied := *product
	return &copied
}
