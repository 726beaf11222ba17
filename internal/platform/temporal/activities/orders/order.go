package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	orderports "github.com/orderdesk/inventory-api/internal/domains/orders/ports"
	orderworkflows "github.com/orderdesk/inventory-api/internal/durable/temporal/workflows/orders"
)

// Activities groups activities that operate on the orders bounded context.
type Activities struct {
	service orderports.Service
}

// NewActivities wires the orders service into the Temporal activities bundle.
func NewActivities(service orderports.Service) *Activities {
	return &Activities{service: service}
}

// Checkout places an order through the application service.
func (a *Activities) Checkout(ctx context.Context, input orderworkflows.CheckoutWorkflowInput) (*orderworkflows.CheckoutResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("checkout activity not initialized")
		return nil, errors.New("checkout activity not initialized")
	}
	logger.Info("Checkout activity started", "customerId", input.Input.CustomerID)
	order, err := a.service.Checkout(ctx, input.Input, input.Actor)
	if err != nil {
		logger.Error("Checkout activity failed", "customerId", input.Input.CustomerID, "error", err)
		return nil, err
	}
	logger.Info("Checkout activity completed", "orderId", order.ID)
	return &orderworkflows.CheckoutResult{OrderID: order.ID}, nil
}
