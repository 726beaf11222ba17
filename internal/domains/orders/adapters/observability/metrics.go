package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	metricnoop "go.opentelemetry.io/otel/metric/noop"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
)

type serviceMetrics struct {
	checkouts   metric.Int64Counter
	transitions metric.Int64Counter
	failures    metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		m = metricnoop.NewMeterProvider().Meter(tracerName)
	}
	checkouts, err := m.Int64Counter("orders.checkouts",
		metric.WithDescription("Orders created via checkout"))
	if err != nil {
		checkouts = noopCounter()
	}
	transitions, err := m.Int64Counter("orders.transitions",
		metric.WithDescription("Successful order status transitions"))
	if err != nil {
		transitions = noopCounter()
	}
	failures, err := m.Int64Counter("orders.failures",
		metric.WithDescription("Rejected order operations"))
	if err != nil {
		failures = noopCounter()
	}
	return serviceMetrics{checkouts: checkouts, transitions: transitions, failures: failures}
}

func (m serviceMetrics) recordCheckout(ctx context.Context) {
	m.checkouts.Add(ctx, 1)
}

func (m serviceMetrics) recordTransition(ctx context.Context, status domain.Status) {
	m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", string(status))))
}

func (m serviceMetrics) recordFailure(ctx context.Context) {
	m.failures.Add(ctx, 1)
}

func noopCounter() metric.Int64Counter {
	counter, _ := metricnoop.NewMeterProvider().Meter(tracerName).Int64Counter("noop")
	return counter
}
