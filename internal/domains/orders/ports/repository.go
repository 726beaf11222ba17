package ports

import (
	"context"
	"errors"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrStaleStatus signals the conditional status update lost the race:
	// the stored status no longer matches the expected one.
	ErrStaleStatus = errors.New("order status changed concurrently")
)

// Repository persists orders. Orders are never deleted; cancellation is a
// terminal status, not removal.
type Repository interface {
	Create(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	// GetByNumber resolves an order by its unique number; checkout uses it to
	// deduplicate idempotent retries.
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	List(ctx context.Context) ([]*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error)
	// UpdateStatus persists the order's status fields plus its newest history
	// entry atomically, conditional on the stored status still equaling
	// expected. A lost race returns ErrStaleStatus.
	UpdateStatus(ctx context.Context, order *domain.Order, expected domain.Status) (*domain.Order, error)
	UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Order, error)
}
