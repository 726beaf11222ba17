package ports

import (
	"context"
	"errors"

	"github.com/orderdesk/inventory-api/internal/domains/catalog/domain"
)

var (
	ErrNotFound = errors.New("product not found")
	// ErrStockConflict signals a stock adjustment would drive quantity negative.
	ErrStockConflict = errors.New("stock adjustment conflicts with available quantity")
)

// Repository persists products and their audit trail.
type Repository interface {
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	// AdjustQuantity atomically applies delta, failing with ErrStockConflict
	// when the result would be negative. Returns old and new quantities.
	AdjustQuantity(ctx context.Context, id int64, delta int32) (oldQty, newQty int32, err error)
	AppendChange(ctx context.Context, change *domain.ChangeRecord) error
	ListChanges(ctx context.Context, productID int64) ([]*domain.ChangeRecord, error)
}
