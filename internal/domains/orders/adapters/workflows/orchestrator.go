// Package workflows adapts checkout onto durable orchestration: a Temporal
// cluster when available, the application service inline otherwise.
package workflows

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	"github.com/orderdesk/inventory-api/internal/domains/orders/ports"
	orderworkflows "github.com/orderdesk/inventory-api/internal/durable/temporal/workflows/orders"
)

var (
	_ ports.WorkflowOrchestrator = (*TemporalCheckout)(nil)
	_ ports.WorkflowOrchestrator = (*InlineCheckout)(nil)
)

// TemporalCheckout starts checkout workflows on a Temporal cluster.
type TemporalCheckout struct {
	client    client.Client
	repo      ports.Repository
	taskQueue string
}

// NewTemporalCheckout wires a Temporal client into the orchestrator. The
// repository loads the created order once the workflow completes.
func NewTemporalCheckout(c client.Client, repo ports.Repository) *TemporalCheckout {
	return &TemporalCheckout{client: c, repo: repo, taskQueue: orderworkflows.CheckoutTaskQueue}
}

// Checkout starts the durable workflow that places the order.
func (o *TemporalCheckout) Checkout(ctx context.Context, input ports.CheckoutInput, actor ports.Actor) (*domain.Order, error) {
	if o == nil || o.client == nil {
		return nil, errors.New("temporal checkout not configured")
	}
	traceComponent := workflowTraceComponent(ctx)
	workflowID := buildCheckoutWorkflowID(input, actor, traceComponent)
	if strings.TrimSpace(input.IdempotencyKey) == "" {
		// Activity retries re-run the checkout; keying them to this workflow
		// makes every retry resolve to the same order.
		input.IdempotencyKey = workflowID
	}
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.CheckoutWorkflow,
		orderworkflows.CheckoutWorkflowInput{Input: input, Actor: actor, TraceID: traceComponent},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if errors.As(err, &alreadyStarted) && strings.TrimSpace(input.IdempotencyKey) != "" {
			existingRun := o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
			var result orderworkflows.CheckoutResult
			if err := existingRun.Get(ctx, &result); err != nil {
				return nil, err
			}
			return o.repo.GetByID(ctx, result.OrderID)
		}
		return nil, err
	}
	var result orderworkflows.CheckoutResult
	if err := run.Get(ctx, &result); err != nil {
		return nil, err
	}
	return o.repo.GetByID(ctx, result.OrderID)
}

// InlineCheckout executes the service directly without Temporal, useful for
// tests or dev fallbacks.
type InlineCheckout struct {
	service ports.Service
}

// NewInlineCheckout wraps the orders service for synchronous execution.
func NewInlineCheckout(service ports.Service) *InlineCheckout {
	return &InlineCheckout{service: service}
}

// Checkout delegates to the application service without durable orchestration.
func (o *InlineCheckout) Checkout(ctx context.Context, input ports.CheckoutInput, actor ports.Actor) (*domain.Order, error) {
	if o == nil || o.service == nil {
		return nil, errors.New("inline checkout not configured")
	}
	return o.service.Checkout(ctx, input, actor)
}

func buildCheckoutWorkflowID(input ports.CheckoutInput, actor ports.Actor, traceComponent string) string {
	if key := strings.TrimSpace(input.IdempotencyKey); key != "" {
		return fmt.Sprintf("order-checkout-idem-%s", hashIdempotencyKey(key))
	}
	return fmt.Sprintf("order-checkout-%d-%d-%s", actor.UserID, time.Now().UnixNano(), traceComponent)
}

func hashIdempotencyKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	// First 16 hex chars keep workflow IDs readable while remaining deterministic.
	return hex.EncodeToString(sum[:8])
}

func workflowTraceComponent(ctx context.Context) string {
	if traceID := workflowTraceID(ctx); traceID != "" {
		return traceID
	}
	return fmt.Sprintf("fallback-%d", time.Now().UnixNano())
}

func workflowTraceID(ctx context.Context) string {
	span := oteltrace.SpanFromContext(ctx)
	if span == nil {
		return ""
	}
	spanCtx := span.SpanContext()
	if !spanCtx.IsValid() || !spanCtx.TraceID().IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
