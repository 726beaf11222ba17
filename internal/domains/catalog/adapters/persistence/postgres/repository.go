package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderdesk/inventory-api/internal/domains/catalog/domain"
	"github.com/orderdesk/inventory-api/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists products in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type productRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	SKU         string    `gorm:"column:sku;uniqueIndex;size:64"`
	Name        string    `gorm:"column:name;index"`
	Category    string    `gorm:"column:category;index"`
	Description string    `gorm:"column:description"`
	Price       float64   `gorm:"column:price"`
	Quantity    int32     `gorm:"column:quantity"`
	ImageURL    string    `gorm:"column:image_url"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

type productChangeRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	ProductID int64     `gorm:"column:product_id;index"`
	Field     string    `gorm:"column:field;size:32"`
	OldValue  string    `gorm:"column:old_value"`
	NewValue  string    `gorm:"column:new_value"`
	ActorID   int64     `gorm:"column:actor_id"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (productChangeRecord) TableName() string { return "product_history" }

// Save inserts or updates a product.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	record := toRecord(product)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return r.GetByID(ctx, record.ID)
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"sku":         record.SKU,
				"name":        record.Name,
				"category":    record.Category,
				"description": record.Description,
				"price":       record.Price,
				"quantity":    record.Quantity,
				"image_url":   record.ImageURL,
				"updated_at":  gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// List returns the full catalog ordered by name.
func (r *Repository) List(ctx context.Context) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for i := range records {
		products = append(products, records[i].toDomain())
	}
	return products, nil
}

// Delete removes a product by identifier.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// AdjustQuantity applies delta conditionally so stock never goes negative.
func (r *Repository) AdjustQuantity(ctx context.Context, id int64, delta int32) (int32, int32, error) {
	if err := r.ensureDB(); err != nil {
		return 0, 0, err
	}
	var oldQty, newQty int32
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record productRecord
		if err := tx.First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		oldQty = record.Quantity
		result := tx.Model(&productRecord{}).
			Where("id = ? AND quantity + ? >= 0", id, delta).
			Updates(map[string]any{
				"quantity":   gorm.Expr("quantity + ?", delta),
				"updated_at": gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrStockConflict
		}
		newQty = oldQty + delta
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return oldQty, newQty, nil
}

// AppendChange records one audit entry.
func (r *Repository) AppendChange(ctx context.Context, change *domain.ChangeRecord) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if change == nil {
		return errors.New("change is nil")
	}
	record := productChangeRecord{
		ProductID: change.ProductID,
		Field:     change.Field,
		OldValue:  change.OldValue,
		NewValue:  change.NewValue,
		ActorID:   change.ActorID,
	}
	return r.db.WithContext(ctx).Create(&record).Error
}

// ListChanges returns the audit trail for a product, oldest first.
func (r *Repository) ListChanges(ctx context.Context, productID int64) ([]*domain.ChangeRecord, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productChangeRecord
	if err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&records, "product_id = ?", productID).Error; err != nil {
		return nil, err
	}
	changes := make([]*domain.ChangeRecord, 0, len(records))
	for i := range records {
		changes = append(changes, records[i].toDomain())
	}
	return changes, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:          product.ID,
		SKU:         product.SKU,
		Name:        product.Name,
		Category:    product.Category,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    product.Quantity,
		ImageURL:    product.ImageURL,
	}
}

func (r productRecord) toDomain() *domain.Product {
	return &domain.Product{
		ID:          r.ID,
		SKU:         r.SKU,
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Price:       r.Price,
		Quantity:    r.Quantity,
		ImageURL:    r.ImageURL,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func (r productChangeRecord) toDomain() *domain.ChangeRecord {
	return &domain.ChangeRecord{
		ID:        r.ID,
		ProductID: r.ProductID,
		Field:     r.Field,
		OldValue:  r.OldValue,
		NewValue:  r.NewValue,
		ActorID:   r.ActorID,
		At:        r.CreatedAt,
	}
}
