package ports

import (
	"context"

	"github.com/orderdesk/inventory-api/internal/domains/catalog/domain"
)

// ProductInput carries the writable product fields.
type ProductInput struct {
	SKU         string
	Name        string
	Category    string
	Description string
	Price       *float64
	Quantity    *int32
	ImageURL    string
}

// Service exposes the catalog bounded context use cases.
type Service interface {
	Create(ctx context.Context, input ProductInput, actorID int64) (*domain.Product, error)
	GetByID(ctx context.Context, id int64) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, id int64, input ProductInput, actorID int64) (*domain.Product, error)
	Delete(ctx context.Context, id int64) error
	// AdjustStock changes available quantity by delta, auditing the change.
	AdjustStock(ctx context.Context, id int64, delta int32, actorID int64) error
	History(ctx context.Context, productID int64) ([]*domain.ChangeRecord, error)
}
