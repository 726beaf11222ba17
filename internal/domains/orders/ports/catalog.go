package ports

import "context"

// ProductInfo is the slice of the catalog the order context needs at checkout.
type ProductInfo struct {
	ID       int64
	Name     string
	Price    float64
	Quantity int32
}

// ProductCatalog resolves products and reserves stock during checkout.
type ProductCatalog interface {
	GetProduct(ctx context.Context, id int64) (*ProductInfo, error)
	// AdjustStock changes available quantity by delta (negative reserves).
	AdjustStock(ctx context.Context, productID int64, delta int32, actorID int64) error
}
