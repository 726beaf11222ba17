package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	"github.com/orderdesk/inventory-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order persistence adapter. The mutex gives the
// same compare-and-set semantics as the conditional SQL update.
type Repository struct {
	mu     sync.RWMutex
	orders map[int64]*domain.Order
	nextID int64
}

func NewRepository() *Repository {
	return &Repository{orders: map[int64]*domain.Order{}}
}

func (r *Repository) Create(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	clone := cloneOrder(order)
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.orders {
		if existing.Number == clone.Number {
			return nil, errors.New("order number already exists")
		}
	}
	now := time.Now()
	if clone.ID == 0 {
		r.nextID++
		clone.ID = r.nextID
		clone.CreatedAt = now
	} else if clone.ID > r.nextID {
		r.nextID = clone.ID
	}
	clone.UpdatedAt = now
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) GetByID(_ context.Context, id int64) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneOrder(order), nil
}

func (r *Repository) GetByNumber(_ context.Context, number string) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, order := range r.orders {
		if order.Number == number {
			return cloneOrder(order), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) List(_ context.Context) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(*domain.Order) bool { return true }), nil
}

func (r *Repository) ListByCustomer(_ context.Context, customerID int64) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(func(o *domain.Order) bool { return o.CustomerID == customerID }), nil
}

func (r *Repository) UpdateStatus(_ context.Context, order *domain.Order, expected domain.Status) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[order.ID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	if stored.Status != expected {
		return nil, ports.ErrStaleStatus
	}
	clone := cloneOrder(order)
	clone.CreatedAt = stored.CreatedAt
	clone.UpdatedAt = time.Now()
	r.orders[clone.ID] = clone
	return cloneOrder(clone), nil
}

func (r *Repository) UpdatePayment(_ context.Context, id int64, status domain.PaymentStatus) (*domain.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	stored.PaymentStatus = status
	stored.UpdatedAt = time.Now()
	return cloneOrder(stored), nil
}

func (r *Repository) collect(match func(*domain.Order) bool) []*domain.Order {
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if match(order) {
			list = append(list, cloneOrder(order))
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.After(list[j].CreatedAt) })
	return list
}

func cloneOrder(order *domain.Order) *domain.Order {
	clone := *order
	clone.Lines = append([]domain.Line(nil), order.Lines...)
	clone.History = append([]domain.StatusChange(nil), order.History...)
	if order.EstimatedDelivery != nil {
		estimated := *order.EstimatedDelivery
		clone.EstimatedDelivery = &estimated
	}
	return &clone
}
