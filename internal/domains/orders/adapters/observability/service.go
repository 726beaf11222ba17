// Package observability decorates the orders service with tracing, logging,
// and metrics.
package observability

import (
	"context"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	"github.com/orderdesk/inventory-api/internal/domains/orders/ports"
)

const tracerName = "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/observability"

// Service wraps the core orders service.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) { s.tracer = tr }
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) { s.metrics = newServiceMetrics(m) }
}

// New wraps the core orders service.
func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Checkout(ctx context.Context, input ports.CheckoutInput, actor ports.Actor) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Checkout",
		trace.WithAttributes(
			attribute.Int64("order.customer_id", input.CustomerID),
			attribute.Int("order.line_count", len(input.Lines)),
		))
	defer span.End()

	result, err := s.inner.Checkout(ctx, input, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "checkout failed")
	}
	s.metrics.recordCheckout(ctx)
	s.logger.InfoContext(ctx, "order created",
		slog.Int64("order.id", result.ID),
		slog.Float64("order.total", result.TotalAmount))
	return result, nil
}

func (s *Service) GetByID(ctx context.Context, id int64, actor ports.Actor) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetByID",
		trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	result, err := s.inner.GetByID(ctx, id, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.Int64("order.id", id))
	}
	return result, nil
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListAll")
	defer span.End()

	result, err := s.inner.ListAll(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	return result, nil
}

func (s *Service) ListMine(ctx context.Context, actor ports.Actor) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListMine",
		trace.WithAttributes(attribute.Int64("actor.user_id", actor.UserID)))
	defer span.End()

	result, err := s.inner.ListMine(ctx, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list customer orders")
	}
	return result, nil
}

func (s *Service) Transition(ctx context.Context, orderID int64, input ports.TransitionInput, actor ports.Actor) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.Transition",
		trace.WithAttributes(
			attribute.Int64("order.id", orderID),
			attribute.String("order.target_status", string(input.Target)),
		))
	defer span.End()

	result, err := s.inner.Transition(ctx, orderID, input, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "transition rejected",
			slog.Int64("order.id", orderID),
			slog.String("target", string(input.Target)))
	}
	s.metrics.recordTransition(ctx, result.Status)
	s.logger.InfoContext(ctx, "order transitioned",
		slog.Int64("order.id", result.ID),
		slog.String("status", string(result.Status)))
	return result, nil
}

func (s *Service) SetPayment(ctx context.Context, orderID int64, status domain.PaymentStatus, actor ports.Actor) (*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.SetPayment",
		trace.WithAttributes(
			attribute.Int64("order.id", orderID),
			attribute.String("order.payment_status", string(status)),
		))
	defer span.End()

	result, err := s.inner.SetPayment(ctx, orderID, status, actor)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "payment update rejected", slog.Int64("order.id", orderID))
	}
	return result, nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...any) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	s.metrics.recordFailure(ctx)
	args := append(attrs, slog.String("error", err.Error()))
	s.logger.WarnContext(ctx, msg, args...)
	return err
}

var _ ports.Service = (*Service)(nil)
