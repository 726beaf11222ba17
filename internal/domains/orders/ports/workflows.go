package ports

import (
	"context"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
)

// WorkflowOrchestrator runs the durable checkout path. Implementations start
// a Temporal workflow or fall back to calling the service inline.
type WorkflowOrchestrator interface {
	Checkout(ctx context.Context, input CheckoutInput, actor Actor) (*domain.Order, error)
}
