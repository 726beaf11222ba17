package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrEmptyName         = errors.New("product name is required")
	ErrNegativePrice     = errors.New("product price must not be negative")
	ErrNegativeQuantity  = errors.New("product quantity must not be negative")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// Product is the catalog aggregate.
type Product struct {
	ID          int64
	SKU         string
	Name        string
	Category    string
	Description string
	Price       float64
	Quantity    int32
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct validates and constructs a product.
func NewProduct(sku, name, category, description string, price float64, quantity int32) (*Product, error) {
	product := &Product{
		SKU:         strings.ToUpper(strings.TrimSpace(sku)),
		Category:    strings.TrimSpace(category),
		Description: strings.TrimSpace(description),
	}
	if err := product.SetName(name); err != nil {
		return nil, err
	}
	if err := product.SetPrice(price); err != nil {
		return nil, err
	}
	if err := product.SetQuantity(quantity); err != nil {
		return nil, err
	}
	return product, nil
}

// SetName trims and validates the product name.
func (p *Product) SetName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// SetPrice validates the unit price.
func (p *Product) SetPrice(price float64) error {
	if price < 0 {
		return ErrNegativePrice
	}
	p.Price = price
	return nil
}

// SetQuantity validates the stock level.
func (p *Product) SetQuantity(quantity int32) error {
	if quantity < 0 {
		return ErrNegativeQuantity
	}
	p.Quantity = quantity
	return nil
}

// ChangeRecord is one entry of the product audit trail.
type ChangeRecord struct {
	ID        int64
	ProductID int64
	Field     string
	OldValue  string
	NewValue  string
	ActorID   int64
	At        time.Time
}
