package orders

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderports "github.com/orderdesk/inventory-api/internal/domains/orders/ports"
)

const (
	// CheckoutWorkflowName is the public identifier for registering the workflow.
	CheckoutWorkflowName = "orders.workflows.Checkout"
	// CheckoutTaskQueue is the queue consumed by the worker processing order workflows.
	CheckoutTaskQueue = "ORDER_CHECKOUT"
	// CheckoutActivityName persists the order through the application service.
	CheckoutActivityName = "orders.activities.Checkout"
)

// CheckoutWorkflowInput captures the payload required to place an order.
type CheckoutWorkflowInput struct {
	Input   orderports.CheckoutInput
	Actor   orderports.Actor
	TraceID string
}

// CheckoutResult is the serializable workflow outcome.
type CheckoutResult struct {
	OrderID int64
}

// CheckoutWorkflow runs the checkout activity with retries. The activity is
// safe to retry because order creation is deduplicated by idempotency key.
func CheckoutWorkflow(ctx workflow.Context, input CheckoutWorkflowInput) (*CheckoutResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("CheckoutWorkflow started", withTraceID(input.TraceID, "customerId", input.Input.CustomerID)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    2 * time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    5,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, options)

	var result CheckoutResult
	if err := workflow.ExecuteActivity(ctx, CheckoutActivityName, input).Get(ctx, &result); err != nil {
		logger.Error("CheckoutWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("CheckoutWorkflow completed", withTraceID(input.TraceID, "orderId", result.OrderID)...)
	return &result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
