package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	"github.com/orderdesk/inventory-api/internal/domains/orders/ports"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
	usersdomain "github.com/orderdesk/inventory-api/internal/domains/users/domain"
)

// Service orchestrates the order lifecycle: checkout, reads, and the status
// transition engine.
type Service struct {
	repo              ports.Repository
	catalog           ports.ProductCatalog
	defaultCancelNote string
}

type Option func(*Service)

// WithDefaultCancelNote sets the note recorded when a cancellation arrives
// without one.
func WithDefaultCancelNote(note string) Option {
	return func(s *Service) { s.defaultCancelNote = note }
}

func NewService(repo ports.Repository, catalog ports.ProductCatalog, opts ...Option) *Service {
	s := &Service{repo: repo, catalog: catalog}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// checkoutNamespace seeds the deterministic order numbers derived from an
// idempotency key.
var checkoutNamespace = uuid.NewSHA1(uuid.NameSpaceOID, []byte("order-checkout"))

// Checkout creates a pending order. Customers order for themselves; staff
// may enter an order on behalf of a customer. Lines are priced from the
// catalog at this moment and the total never changes afterwards. An
// idempotency key maps to a deterministic order number, so retries return
// the already-created order instead of a duplicate.
func (s *Service) Checkout(ctx context.Context, input ports.CheckoutInput, actor ports.Actor) (*domain.Order, error) {
	customerID := input.CustomerID
	switch {
	case actor.Role == usersdomain.RoleCustomer:
		if customerID != 0 && customerID != actor.UserID {
			return nil, apperrors.Forbidden("customers may only order for themselves")
		}
		customerID = actor.UserID
	case actor.Role.Staff():
		if customerID <= 0 {
			return nil, apperrors.Validation("customer id is required for staff orders")
		}
	default:
		return nil, apperrors.Forbidden("insufficient permissions")
	}
	if len(input.Lines) == 0 {
		return nil, apperrors.Validation("order requires at least one line")
	}

	number := uuid.NewString()
	idempotencyKey := strings.TrimSpace(input.IdempotencyKey)
	if idempotencyKey != "" {
		number = uuid.NewSHA1(checkoutNamespace, []byte(idempotencyKey)).String()
		existing, err := s.repo.GetByNumber(ctx, number)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return nil, mapError(err)
		}
	}

	lines := make([]domain.Line, 0, len(input.Lines))
	for _, requested := range input.Lines {
		if requested.Quantity <= 0 {
			return nil, apperrors.Validation("line quantity must be greater than zero")
		}
		product, err := s.catalog.GetProduct(ctx, requested.ProductID)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.KindValidation,
				fmt.Sprintf("product %d is unavailable", requested.ProductID), err)
		}
		if product.Quantity < requested.Quantity {
			return nil, apperrors.Validation(fmt.Sprintf("insufficient stock for %s", product.Name))
		}
		lines = append(lines, domain.Line{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  requested.Quantity,
			Price:     product.Price,
		})
	}

	order, err := domain.NewOrder(number, customerID, lines, input.Notes)
	if err != nil {
		return nil, mapError(err)
	}

	// Stock is reserved before the order is persisted; a failure on either
	// side releases what was already taken, so the error branch leaves
	// neither a dangling order nor a phantom reservation.
	reserved := make([]domain.Line, 0, len(lines))
	release := func() {
		for _, line := range reserved {
			_ = s.catalog.AdjustStock(ctx, line.ProductID, line.Quantity, actor.UserID)
		}
	}
	for _, line := range lines {
		if err := s.catalog.AdjustStock(ctx, line.ProductID, -line.Quantity, actor.UserID); err != nil {
			release()
			return nil, mapError(err)
		}
		reserved = append(reserved, line)
	}

	created, err := s.repo.Create(ctx, order)
	if err != nil {
		release()
		if idempotencyKey != "" {
			// A concurrent retry with the same key won the insert; hand its
			// order back instead of the unique-number violation.
			if existing, getErr := s.repo.GetByNumber(ctx, number); getErr == nil {
				return existing, nil
			}
		}
		return nil, mapError(err)
	}
	return created, nil
}

// GetByID returns the order when the actor is privileged or owns it.
func (s *Service) GetByID(ctx context.Context, id int64, actor ports.Actor) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if !actor.Role.Privileged() && order.CustomerID != actor.UserID {
		return nil, apperrors.Forbidden("insufficient permissions")
	}
	return order, nil
}

func (s *Service) ListAll(ctx context.Context) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

func (s *Service) ListMine(ctx context.Context, actor ports.Actor) ([]*domain.Order, error) {
	orders, err := s.repo.ListByCustomer(ctx, actor.UserID)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// Transition validates and applies a status change in one atomic operation.
// The persistence write is conditional on the status the transition was
// computed from, so a concurrent transition loses with IllegalTransition
// instead of silently overwriting.
func (s *Service) Transition(ctx context.Context, orderID int64, input ports.TransitionInput, actor ports.Actor) (*domain.Order, error) {
	if _, ok := domain.ParseStatus(string(input.Target)); !ok {
		return nil, apperrors.Validation(fmt.Sprintf("unknown status %q", string(input.Target)))
	}
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	if !domain.CanTransition(order.Status, input.Target) {
		return nil, apperrors.IllegalTransition(
			fmt.Sprintf("cannot move order from %s to %s", order.Status, input.Target))
	}
	if err := s.authorizeTransition(order, input.Target, actor); err != nil {
		return nil, err
	}

	notes := input.Notes
	if input.Target == domain.StatusCancelled && strings.TrimSpace(notes) == "" {
		notes = s.defaultCancelNote
	}
	expected := order.Status
	if err := order.ApplyTransition(input.Target, notes, domain.TransitionExtra{
		TrackingNumber:    input.TrackingNumber,
		EstimatedDelivery: input.EstimatedDelivery,
	}); err != nil {
		return nil, mapError(err)
	}
	updated, err := s.repo.UpdateStatus(ctx, order, expected)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// SetPayment flips the settlement flag; privileged roles only.
func (s *Service) SetPayment(ctx context.Context, orderID int64, status domain.PaymentStatus, actor ports.Actor) (*domain.Order, error) {
	if !actor.Role.Privileged() {
		return nil, apperrors.Forbidden("insufficient permissions")
	}
	if _, ok := domain.ParsePaymentStatus(string(status)); !ok {
		return nil, apperrors.Validation(fmt.Sprintf("unknown payment status %q", string(status)))
	}
	updated, err := s.repo.UpdatePayment(ctx, orderID, status)
	if err != nil {
		return nil, mapError(err)
	}
	return updated, nil
}

// authorizeTransition enforces who may request each edge: admin/manager for
// everything, plus the owning customer for cancel-from-pending.
func (s *Service) authorizeTransition(order *domain.Order, target domain.Status, actor ports.Actor) error {
	if actor.Role.Privileged() {
		return nil
	}
	if target == domain.StatusCancelled &&
		order.Status == domain.StatusPending &&
		order.CustomerID == actor.UserID {
		return nil
	}
	return apperrors.Forbidden("insufficient permissions")
}

var _ ports.Service = (*Service)(nil)
