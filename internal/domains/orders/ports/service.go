package ports

import (
	"context"
	"time"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	usersdomain "github.com/orderdesk/inventory-api/internal/domains/users/domain"
)

// Actor identifies the authenticated principal invoking an operation.
type Actor struct {
	UserID int64
	Role   usersdomain.Role
}

// CheckoutLine is one requested order line.
type CheckoutLine struct {
	ProductID int64
	Quantity  int32
}

// CheckoutInput creates an order for a customer: the actor's own cart, or a
// staff entry on behalf of CustomerID.
type CheckoutInput struct {
	CustomerID int64
	Lines      []CheckoutLine
	Notes      string
	// IdempotencyKey deduplicates checkout retries when present.
	IdempotencyKey string
}

// TransitionInput is a requested status change.
type TransitionInput struct {
	Target            domain.Status
	Notes             string
	TrackingNumber    string
	EstimatedDelivery *time.Time
}

// Service exposes the order lifecycle use cases.
type Service interface {
	Checkout(ctx context.Context, input CheckoutInput, actor Actor) (*domain.Order, error)
	GetByID(ctx context.Context, id int64, actor Actor) (*domain.Order, error)
	ListAll(ctx context.Context) ([]*domain.Order, error)
	ListMine(ctx context.Context, actor Actor) ([]*domain.Order, error)
	Transition(ctx context.Context, orderID int64, input TransitionInput, actor Actor) (*domain.Order, error)
	SetPayment(ctx context.Context, orderID int64, status domain.PaymentStatus, actor Actor) (*domain.Order, error)
}
