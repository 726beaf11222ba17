package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/orderdesk/inventory-api/internal/domains/catalog/domain"
	"github.com/orderdesk/inventory-api/internal/domains/catalog/ports"
)

// Service orchestrates catalog use cases. Price and quantity edits are
// audited into the product change trail.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, input ports.ProductInput, actorID int64) (*domain.Product, error) {
	price := 0.0
	if input.Price != nil {
		price = *input.Price
	}
	quantity := int32(0)
	if input.Quantity != nil {
		quantity = *input.Quantity
	}
	sku := strings.TrimSpace(input.SKU)
	if sku == "" {
		sku = generateSKU()
	}
	product, err := domain.NewProduct(sku, input.Name, input.Category, input.Description, price, quantity)
	if err != nil {
		return nil, mapError(err)
	}
	product.ImageURL = strings.TrimSpace(input.ImageURL)
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	s.audit(ctx, saved.ID, "quantity", "", strconv.Itoa(int(saved.Quantity)), actorID)
	return saved, nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return product, nil
}

func (s *Service) List(ctx context.Context) ([]*domain.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return products, nil
}

func (s *Service) Update(ctx context.Context, id int64, input ports.ProductInput, actorID int64) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if strings.TrimSpace(input.Name) != "" {
		if err := product.SetName(input.Name); err != nil {
			return nil, mapError(err)
		}
	}
	if strings.TrimSpace(input.SKU) != "" {
		product.SKU = strings.ToUpper(strings.TrimSpace(input.SKU))
	}
	if strings.TrimSpace(input.Category) != "" {
		product.Category = strings.TrimSpace(input.Category)
	}
	if strings.TrimSpace(input.Description) != "" {
		product.Description = strings.TrimSpace(input.Description)
	}
	if strings.TrimSpace(input.ImageURL) != "" {
		product.ImageURL = strings.TrimSpace(input.ImageURL)
	}
	if input.Price != nil && *input.Price != product.Price {
		old := product.Price
		if err := product.SetPrice(*input.Price); err != nil {
			return nil, mapError(err)
		}
		s.audit(ctx, id, "price", formatAmount(old), formatAmount(product.Price), actorID)
	}
	if input.Quantity != nil && *input.Quantity != product.Quantity {
		old := product.Quantity
		if err := product.SetQuantity(*input.Quantity); err != nil {
			return nil, mapError(err)
		}
		s.audit(ctx, id, "quantity", strconv.Itoa(int(old)), strconv.Itoa(int(product.Quantity)), actorID)
	}
	saved, err := s.repo.Save(ctx, product)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return mapError(s.repo.Delete(ctx, id))
}

// AdjustStock applies a delta to available quantity, recording the movement.
func (s *Service) AdjustStock(ctx context.Context, id int64, delta int32, actorID int64) error {
	oldQty, newQty, err := s.repo.AdjustQuantity(ctx, id, delta)
	if err != nil {
		return mapError(err)
	}
	s.audit(ctx, id, "quantity", strconv.Itoa(int(oldQty)), strconv.Itoa(int(newQty)), actorID)
	return nil
}

func (s *Service) History(ctx context.Context, productID int64) ([]*domain.ChangeRecord, error) {
	if _, err := s.repo.GetByID(ctx, productID); err != nil {
		return nil, mapError(err)
	}
	changes, err := s.repo.ListChanges(ctx, productID)
	if err != nil {
		return nil, mapError(err)
	}
	return changes, nil
}

// audit appends a change record; failures must not fail the main operation.
func (s *Service) audit(ctx context.Context, productID int64, field, oldValue, newValue string, actorID int64) {
	_ = s.repo.AppendChange(ctx, &domain.ChangeRecord{
		ProductID: productID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		ActorID:   actorID,
	})
}

func generateSKU() string {
	return "SKU-" + strings.ToUpper(uuid.NewString()[:8])
}

func formatAmount(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

var _ ports.Service = (*Service)(nil)
