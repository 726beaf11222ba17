package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/orderdesk/inventory-api/internal/domains/settings/domain"
	"github.com/orderdesk/inventory-api/internal/domains/settings/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists settings in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type settingsRecord struct {
	UserID               int64     `gorm:"primaryKey;column:user_id"`
	Currency             string    `gorm:"column:currency;size:3"`
	LowStockThreshold    int32     `gorm:"column:low_stock_threshold"`
	NotifyOnStatusChange bool      `gorm:"column:notify_on_status_change"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (settingsRecord) TableName() string { return "settings" }

func (r *Repository) Get(ctx context.Context, userID int64) (*domain.Settings, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres settings repository not configured")
	}
	var record settingsRecord
	if err := r.db.WithContext(ctx).First(&record, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) Save(ctx context.Context, settings *domain.Settings) (*domain.Settings, error) {
	if r == nil || r.db == nil {
		return nil, errors.New("postgres settings repository not configured")
	}
	record := settingsRecord{
		UserID:               settings.UserID,
		Currency:             settings.Currency,
		LowStockThreshold:    settings.LowStockThreshold,
		NotifyOnStatusChange: settings.NotifyOnStatusChange,
	}
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"currency":                record.Currency,
				"low_stock_threshold":     record.LowStockThreshold,
				"notify_on_status_change": record.NotifyOnStatusChange,
				"updated_at":              gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, settings.UserID)
}

func (r settingsRecord) toDomain() *domain.Settings {
	return &domain.Settings{
		UserID:               r.UserID,
		Currency:             r.Currency,
		LowStockThreshold:    r.LowStockThreshold,
		NotifyOnStatusChange: r.NotifyOnStatusChange,
		UpdatedAt:            r.UpdatedAt,
	}
}
