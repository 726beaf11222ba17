// Package catalog bridges the orders context to the product catalog.
package catalog

import (
	"context"

	catalogports "github.com/orderdesk/inventory-api/internal/domains/catalog/ports"
	"github.com/orderdesk/inventory-api/internal/domains/orders/ports"
)

var _ ports.ProductCatalog = (*Adapter)(nil)

// Adapter exposes the catalog service through the narrow view the orders
// context needs.
type Adapter struct {
	service catalogports.Service
}

func NewAdapter(service catalogports.Service) *Adapter {
	return &Adapter{service: service}
}

func (a *Adapter) GetProduct(ctx context.Context, id int64) (*ports.ProductInfo, error) {
	product, err := a.service.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &ports.ProductInfo{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Quantity: product.Quantity,
	}, nil
}

func (a *Adapter) AdjustStock(ctx context.Context, productID int64, delta int32, actorID int64) error {
	return a.service.AdjustStock(ctx, productID, delta, actorID)
}
