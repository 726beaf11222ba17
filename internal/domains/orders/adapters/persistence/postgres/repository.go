package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	"github.com/orderdesk/inventory-api/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders in PostgreSQL using GORM. Lines and history rows
// live in child tables loaded alongside the order.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

type orderRecord struct {
	ID                int64      `gorm:"primaryKey;column:id"`
	Number            string     `gorm:"column:number;uniqueIndex;size:64"`
	CustomerID        int64      `gorm:"column:customer_id;index"`
	TotalAmount       float64    `gorm:"column:total_amount"`
	Status            string     `gorm:"column:status;type:varchar(16);index"`
	PaymentStatus     string     `gorm:"column:payment_status;type:varchar(16)"`
	TrackingNumber    string     `gorm:"column:tracking_number;size:64"`
	EstimatedDelivery *time.Time `gorm:"column:estimated_delivery"`
	Notes             string     `gorm:"column:notes"`
	CreatedAt         time.Time  `gorm:"column:created_at;index"`
	UpdatedAt         time.Time  `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderLineRecord struct {
	ID        int64   `gorm:"primaryKey;column:id"`
	OrderID   int64   `gorm:"column:order_id;index"`
	ProductID int64   `gorm:"column:product_id;index"`
	Name      string  `gorm:"column:name"`
	Quantity  int32   `gorm:"column:quantity"`
	Price     float64 `gorm:"column:price"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

type statusHistoryRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	OrderID   int64     `gorm:"column:order_id;index"`
	Status    string    `gorm:"column:status;type:varchar(16)"`
	Notes     string    `gorm:"column:notes"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (statusHistoryRecord) TableName() string { return "order_status_history" }

// Create inserts the order with its lines in one transaction.
func (r *Repository) Create(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		for _, line := range order.Lines {
			lineRecord := orderLineRecord{
				OrderID:   record.ID,
				ProductID: line.ProductID,
				Name:      line.Name,
				Quantity:  line.Quantity,
				Price:     line.Price,
			}
			if err := tx.Create(&lineRecord).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID loads an order with lines and full status history.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return r.hydrate(ctx, &record)
}

// GetByNumber loads an order by its unique number.
func (r *Repository) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return r.hydrate(ctx, &record)
}

// List returns all orders, newest first.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	return r.list(ctx, nil)
}

// ListByCustomer returns one customer's orders, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID int64) ([]*domain.Order, error) {
	return r.list(ctx, func(q *gorm.DB) *gorm.DB {
		return q.Where("customer_id = ?", customerID)
	})
}

func (r *Repository) list(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if scope != nil {
		q = scope(q)
	}
	var records []orderRecord
	if err := q.Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		order, err := r.hydrate(ctx, &records[i])
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

// UpdateStatus applies a transition as a compare-and-set keyed on the
// expected current status, appending the newest history entry in the same
// transaction. A stale expectation returns ErrStaleStatus.
func (r *Repository) UpdateStatus(ctx context.Context, order *domain.Order, expected domain.Status) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	if len(order.History) == 0 {
		return nil, errors.New("transition produced no history entry")
	}
	newest := order.History[len(order.History)-1]
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&orderRecord{}).
			Where("id = ? AND status = ?", order.ID, string(expected)).
			Updates(map[string]any{
				"status":             string(order.Status),
				"tracking_number":    order.TrackingNumber,
				"estimated_delivery": order.EstimatedDelivery,
				"updated_at":         gorm.Expr("NOW()"),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			var exists int64
			if err := tx.Model(&orderRecord{}).Where("id = ?", order.ID).Count(&exists).Error; err != nil {
				return err
			}
			if exists == 0 {
				return ports.ErrNotFound
			}
			return ports.ErrStaleStatus
		}
		history := statusHistoryRecord{
			OrderID:   order.ID,
			Status:    string(newest.Status),
			Notes:     newest.Notes,
			CreatedAt: newest.At,
		}
		return tx.Create(&history).Error
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, order.ID)
}

// UpdatePayment sets the payment flag unconditionally.
func (r *Repository) UpdatePayment(ctx context.Context, id int64, status domain.PaymentStatus) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status": string(status),
			"updated_at":     gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *Repository) hydrate(ctx context.Context, record *orderRecord) (*domain.Order, error) {
	var lines []orderLineRecord
	if err := r.db.WithContext(ctx).Find(&lines, "order_id = ?", record.ID).Error; err != nil {
		return nil, err
	}
	var history []statusHistoryRecord
	if err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&history, "order_id = ?", record.ID).Error; err != nil {
		return nil, err
	}
	return record.toDomain(lines, history), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:                order.ID,
		Number:            order.Number,
		CustomerID:        order.CustomerID,
		TotalAmount:       order.TotalAmount,
		Status:            string(order.Status),
		PaymentStatus:     string(order.PaymentStatus),
		TrackingNumber:    order.TrackingNumber,
		EstimatedDelivery: order.EstimatedDelivery,
		Notes:             order.Notes,
	}
}

func (r orderRecord) toDomain(lines []orderLineRecord, history []statusHistoryRecord) *domain.Order {
	order := &domain.Order{
		ID:                r.ID,
		Number:            r.Number,
		CustomerID:        r.CustomerID,
		TotalAmount:       r.TotalAmount,
		Status:            domain.Status(r.Status),
		PaymentStatus:     domain.PaymentStatus(r.PaymentStatus),
		TrackingNumber:    r.TrackingNumber,
		EstimatedDelivery: r.EstimatedDelivery,
		Notes:             r.Notes,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	for _, line := range lines {
		order.Lines = append(order.Lines, domain.Line{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}
	for _, change := range history {
		order.History = append(order.History, domain.StatusChange{
			Status: domain.Status(change.Status),
			Notes:  change.Notes,
			At:     change.CreatedAt,
		})
	}
	return order
}
