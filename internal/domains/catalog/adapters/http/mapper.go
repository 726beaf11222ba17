package http

import (
	"time"

	"github.com/orderdesk/inventory-api/internal/domains/catalog/domain"
	"github.com/orderdesk/inventory-api/internal/domains/catalog/ports"
)

// ProductResponse is the wire representation of a product.
type ProductResponse struct {
	ID          int64     `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Category    string    `json:"category,omitempty"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	Quantity    int32     `json:"quantity"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toResponse(product *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          product.ID,
		SKU:         product.SKU,
		Name:        product.Name,
		Category:    product.Category,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    product.Quantity,
		ImageURL:    product.ImageURL,
		CreatedAt:   product.CreatedAt,
		UpdatedAt:   product.UpdatedAt,
	}
}

func toResponseList(products []*domain.Product) []ProductResponse {
	list := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		list = append(list, toResponse(product))
	}
	return list
}

type changeResponse struct {
	Field    string    `json:"field"`
	OldValue string    `json:"oldValue"`
	NewValue string    `json:"newValue"`
	ActorID  int64     `json:"actorId"`
	At       time.Time `json:"at"`
}

func toChangeList(changes []*domain.ChangeRecord) []changeResponse {
	list := make([]changeResponse, 0, len(changes))
	for _, change := range changes {
		list = append(list, changeResponse{
			Field:    change.Field,
			OldValue: change.OldValue,
			NewValue: change.NewValue,
			ActorID:  change.ActorID,
			At:       change.At,
		})
	}
	return list
}

type productRequest struct {
	SKU         string   `json:"sku" form:"sku"`
	Name        string   `json:"name" form:"name"`
	Category    string   `json:"category" form:"category"`
	Description string   `json:"description" form:"description"`
	Price       *float64 `json:"price" form:"price"`
	Quantity    *int32   `json:"quantity" form:"quantity"`
	ImageURL    string   `json:"imageUrl" form:"imageUrl"`
}

func (r productRequest) toInput() ports.ProductInput {
	return ports.ProductInput{
		SKU:         r.SKU,
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		ImageURL:    r.ImageURL,
	}
}

type adjustStockRequest struct {
	Delta int32 `json:"delta" binding:"required"`
}
