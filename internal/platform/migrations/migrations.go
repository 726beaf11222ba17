// Package migrations applies the relational schema for all bounded contexts.
package migrations

import (
	"time"

	"gorm.io/gorm"
)

// Run applies the schema for the bounded contexts. Intended to replace
// adapter-level automigrate.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&userRecord{},
		&tokenRecord{},
		&productRecord{},
		&productChangeRecord{},
		&orderRecord{},
		&orderLineRecord{},
		&statusHistoryRecord{},
		&settingsRecord{},
	)
}

// User schema mirrors the users Postgres adapter.
type userRecord struct {
	ID           int64     `gorm:"primaryKey;column:id"`
	Name         string    `gorm:"column:name"`
	Email        string    `gorm:"column:email;uniqueIndex"`
	PasswordHash string    `gorm:"column:password_hash"`
	Role         string    `gorm:"column:role;type:varchar(32);index"`
	Phone        string    `gorm:"column:phone"`
	Bio          string    `gorm:"column:bio"`
	PhotoURL     string    `gorm:"column:photo_url"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (userRecord) TableName() string { return "users" }

// Session token schema mirrors the users token store.
type tokenRecord struct {
	TokenID   string     `gorm:"primaryKey;column:token_id;size:64"`
	UserID    int64      `gorm:"column:user_id;index"`
	ExpiresAt *time.Time `gorm:"column:expires_at;index"`
	CreatedAt time.Time  `gorm:"column:created_at"`
	UpdatedAt time.Time  `gorm:"column:updated_at"`
}

func (tokenRecord) TableName() string { return "auth_tokens" }

// Product schema mirrors the catalog Postgres adapter.
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

// Product audit trail schema mirrors the catalog Postgres adapter.
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

// Order schema mirrors the orders Postgres adapter.
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

// Order line schema mirrors the orders Postgres adapter.
type orderLineRecord struct {
	ID        int64   `gorm:"primaryKey;column:id"`
	OrderID   int64   `gorm:"column:order_id;index"`
	ProductID int64   `gorm:"column:product_id;index"`
	Name      string  `gorm:"column:name"`
	Quantity  int32   `gorm:"column:quantity"`
	Price     float64 `gorm:"column:price"`
}

func (orderLineRecord) TableName() string { return "order_lines" }

// Status history schema mirrors the orders Postgres adapter.
type statusHistoryRecord struct {
	ID        int64     `gorm:"primaryKey;column:id"`
	OrderID   int64     `gorm:"column:order_id;index"`
	Status    string    `gorm:"column:status;type:varchar(16)"`
	Notes     string    `gorm:"column:notes"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (statusHistoryRecord) TableName() string { return "order_status_history" }

// Settings schema mirrors the settings Postgres adapter.
type settingsRecord struct {
	UserID               int64     `gorm:"primaryKey;column:user_id"`
	Currency             string    `gorm:"column:currency;size:3"`
	LowStockThreshold    int32     `gorm:"column:low_stock_threshold"`
	NotifyOnStatusChange bool      `gorm:"column:notify_on_status_change"`
	UpdatedAt            time.Time `gorm:"column:updated_at"`
}

func (settingsRecord) TableName() string { return "settings" }
