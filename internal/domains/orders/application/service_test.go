package application

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	ordersmemory "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/memory"
	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	"github.com/orderdesk/inventory-api/internal/domains/orders/ports"
	usersdomain "github.com/orderdesk/inventory-api/internal/domains/users/domain"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
)

type fakeCatalog struct {
	mu             sync.Mutex
	products       map[int64]ports.ProductInfo
	adjustFailures map[int64]error
}

func newFakeCatalog(products ...ports.ProductInfo) *fakeCatalog {
	c := &fakeCatalog{
		products:       map[int64]ports.ProductInfo{},
		adjustFailures: map[int64]error{},
	}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

func (c *fakeCatalog) failAdjust(productID int64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adjustFailures[productID] = err
}

func (c *fakeCatalog) GetProduct(_ context.Context, id int64) (*ports.ProductInfo, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	product, ok := c.products[id]
	if !ok {
		return nil, apperrors.NotFound("product not found")
	}
	return &product, nil
}

func (c *fakeCatalog) AdjustStock(_ context.Context, productID int64, delta int32, _ int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.adjustFailures[productID]; err != nil {
		return err
	}
	product := c.products[productID]
	product.Quantity += delta
	c.products[productID] = product
	return nil
}

var _ ports.ProductCatalog = (*fakeCatalog)(nil)

var (
	customer = ports.Actor{UserID: 7, Role: usersdomain.RoleCustomer}
	manager  = ports.Actor{UserID: 2, Role: usersdomain.RoleManager}
	admin    = ports.Actor{UserID: 1, Role: usersdomain.RoleAdmin}
	employee = ports.Actor{UserID: 3, Role: usersdomain.RoleEmployee}
)

func newTestService(t *testing.T, opts ...Option) (*Service, *ordersmemory.Repository, *fakeCatalog) {
	t.Helper()
	repo := ordersmemory.NewRepository()
	catalog := newFakeCatalog(
		ports.ProductInfo{ID: 10, Name: "Widget", Price: 9.99, Quantity: 100},
		ports.ProductInfo{ID: 11, Name: "Gadget", Price: 25.50, Quantity: 3},
	)
	return NewService(repo, catalog, opts...), repo, catalog
}

func checkout(t *testing.T, svc *Service, actor ports.Actor) *domain.Order {
	t.Helper()
	order, err := svc.Checkout(context.Background(), ports.CheckoutInput{
		Lines: []ports.CheckoutLine{{ProductID: 10, Quantity: 2}},
	}, actor)
	require.NoError(t, err)
	return order
}

func TestCheckout_PricesLinesFromCatalogAndDecrementsStock(t *testing.T) {
	svc, _, catalog := newTestService(t)

	order, err := svc.Checkout(context.Background(), ports.CheckoutInput{
		Lines: []ports.CheckoutLine{
			{ProductID: 10, Quantity: 2},
			{ProductID: 11, Quantity: 1},
		},
	}, customer)
	require.NoError(t, err)

	require.Equal(t, customer.UserID, order.CustomerID)
	require.Equal(t, domain.StatusPending, order.Status)
	require.Equal(t, domain.PaymentUnpaid, order.PaymentStatus)
	require.Equal(t, 45.48, order.TotalAmount)
	require.Empty(t, order.History, "creation records no transition")
	require.NotEmpty(t, order.Number)

	widget, err := catalog.GetProduct(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, int32(98), widget.Quantity)
}

func TestCheckout_InsufficientStock(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Checkout(context.Background(), ports.CheckoutInput{
		Lines: []ports.CheckoutLine{{ProductID: 11, Quantity: 4}},
	}, customer)
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestCheckout_CustomerCannotOrderForOthers(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Checkout(context.Background(), ports.CheckoutInput{
		CustomerID: 99,
		Lines:      []ports.CheckoutLine{{ProductID: 10, Quantity: 1}},
	}, customer)
	require.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestCheckout_StaffRequiresCustomerID(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Checkout(context.Background(), ports.CheckoutInput{
		Lines: []ports.CheckoutLine{{ProductID: 10, Quantity: 1}},
	}, employee)
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	order, err := svc.Checkout(context.Background(), ports.CheckoutInput{
		CustomerID: 7,
		Lines:      []ports.CheckoutLine{{ProductID: 10, Quantity: 1}},
	}, employee)
	require.NoError(t, err)
	require.Equal(t, int64(7), order.CustomerID)
}

func TestCheckout_FailedReservationLeavesNoOrder(t *testing.T) {
	svc, repo, catalog := newTestService(t)
	catalog.failAdjust(11, apperrors.Validation("insufficient stock for Gadget"))

	// The widget line reserves first; the gadget failure must undo it and
	// abort before anything is persisted.
	_, err := svc.Checkout(context.Background(), ports.CheckoutInput{
		Lines: []ports.CheckoutLine{
			{ProductID: 10, Quantity: 2},
			{ProductID: 11, Quantity: 1},
		},
	}, customer)
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	orders, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, orders, "failed checkout must not persist an order")

	widget, err := catalog.GetProduct(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, int32(100), widget.Quantity, "reservation must be released")
}

func TestCheckout_IdempotencyKeyDeduplicates(t *testing.T) {
	svc, repo, catalog := newTestService(t)
	ctx := context.Background()

	input := ports.CheckoutInput{
		Lines:          []ports.CheckoutLine{{ProductID: 10, Quantity: 2}},
		IdempotencyKey: "req-7f3a",
	}
	first, err := svc.Checkout(ctx, input, customer)
	require.NoError(t, err)

	second, err := svc.Checkout(ctx, input, customer)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, first.Number, second.Number)

	orders, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1, "the retry must not create a second order")

	widget, err := catalog.GetProduct(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, int32(98), widget.Quantity, "stock is reserved once")

	// A different key is a different request.
	input.IdempotencyKey = "req-9c1b"
	third, err := svc.Checkout(ctx, input, customer)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, third.ID)
}

func TestTransition_FullLifecycle(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	order := checkout(t, svc, customer)

	order, err := svc.Transition(ctx, order.ID, ports.TransitionInput{Target: domain.StatusApproved}, manager)
	require.NoError(t, err)
	require.Equal(t, domain.StatusApproved, order.Status)
	require.Len(t, order.History, 1)

	order, err = svc.Transition(ctx, order.ID, ports.TransitionInput{
		Target:         domain.StatusShipped,
		TrackingNumber: "TRK123",
	}, manager)
	require.NoError(t, err)
	require.Equal(t, domain.StatusShipped, order.Status)
	require.Equal(t, "TRK123", order.TrackingNumber)
	require.Len(t, order.History, 2)

	// A customer cannot confirm delivery, even of their own order.
	_, err = svc.Transition(ctx, order.ID, ports.TransitionInput{Target: domain.StatusDelivered}, customer)
	require.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	order, err = svc.Transition(ctx, order.ID, ports.TransitionInput{Target: domain.StatusDelivered}, admin)
	require.NoError(t, err)
	require.Equal(t, domain.StatusDelivered, order.Status)
	require.Len(t, order.History, 3)
}

func TestTransition_UnknownStatus(t *testing.T) {
	svc, _, _ := newTestService(t)
	order := checkout(t, svc, customer)

	_, err := svc.Transition(context.Background(), order.ID, ports.TransitionInput{Target: domain.Status("bogus")}, admin)
	require.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestTransition_IllegalEdgeBeatsRoleCheck(t *testing.T) {
	svc, _, _ := newTestService(t)
	order := checkout(t, svc, customer)

	// pending -> delivered is off the graph for everyone, admin included.
	_, err := svc.Transition(context.Background(), order.ID, ports.TransitionInput{Target: domain.StatusDelivered}, admin)
	require.True(t, apperrors.IsKind(err, apperrors.KindIllegalTransition))

	// Same answer for the customer: the graph is checked before permissions.
	_, err = svc.Transition(context.Background(), order.ID, ports.TransitionInput{Target: domain.StatusDelivered}, customer)
	require.True(t, apperrors.IsKind(err, apperrors.KindIllegalTransition))
}

func TestTransition_CustomerCancelsOwnPendingOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	order := checkout(t, svc, customer)

	cancelled, err := svc.Transition(context.Background(), order.ID, ports.TransitionInput{
		Target: domain.StatusCancelled,
		Notes:  "changed my mind",
	}, customer)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, cancelled.Status)
	require.Equal(t, "changed my mind", cancelled.History[0].Notes)
}

func TestTransition_CustomerCannotCancelApprovedOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	order := checkout(t, svc, customer)

	_, err := svc.Transition(ctx, order.ID, ports.TransitionInput{Target: domain.StatusApproved}, manager)
	require.NoError(t, err)

	// approved -> cancelled is a legal edge, so this fails on permissions.
	_, err = svc.Transition(ctx, order.ID, ports.TransitionInput{Target: domain.StatusCancelled}, customer)
	require.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestTransition_CustomerCannotCancelSomeoneElsesOrder(t *testing.T) {
	svc, _, _ := newTestService(t)
	order := checkout(t, svc, customer)

	other := ports.Actor{UserID: 42, Role: usersdomain.RoleCustomer}
	_, err := svc.Transition(context.Background(), order.ID, ports.TransitionInput{Target: domain.StatusCancelled}, other)
	require.True(t, apperrors.IsKind(err, apperrors.KindForbidden))
}

func TestTransition_DefaultCancelNote(t *testing.T) {
	svc, _, _ := newTestService(t, WithDefaultCancelNote("cancelled by request"))
	order := checkout(t, svc, customer)

	cancelled, err := svc.Transition(context.Background(), order.ID, ports.TransitionInput{Target: domain.StatusCancelled}, customer)
	require.NoError(t, err)
	require.Equal(t, "cancelled by request", cancelled.History[0].Notes)
}

func TestTransition_DuplicateApproveLosesWithIllegalTransition(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	order := checkout(t, svc, customer)

	_, err := svc.Transition(ctx, order.ID, ports.TransitionInput{Target: domain.StatusApproved}, manager)
	require.NoError(t, err)

	_, err = svc.Transition(ctx, order.ID, ports.TransitionInput{Target: domain.StatusApproved}, admin)
	require.True(t, apperrors.IsKind(err, apperrors.KindIllegalTransition))

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Len(t, stored.History, 1, "losing transition must not append history")
}

func TestTransition_ConcurrentDuplicateApprove(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	order := checkout(t, svc, customer)

	errs := make(chan error, 2)
	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			_, err := svc.Transition(ctx, order.ID, ports.TransitionInput{Target: domain.StatusApproved}, manager)
			errs <- err
		}()
	}
	close(start)
	wg.Wait()
	close(errs)

	var succeeded, rejected int
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		require.True(t, apperrors.IsKind(err, apperrors.KindIllegalTransition))
		rejected++
	}
	require.Equal(t, 1, succeeded, "exactly one approve wins")
	require.Equal(t, 1, rejected, "the duplicate loses")

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusApproved, stored.Status)
	require.Len(t, stored.History, 1, "one logical transition, one history entry")
}

func TestTransition_StaleStatusMapsToIllegalTransition(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	order := checkout(t, svc, customer)

	// Two writers read the same pending order; the second write loses.
	first, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)

	require.NoError(t, first.ApplyTransition(domain.StatusCancelled, "", domain.TransitionExtra{}))
	_, err = repo.UpdateStatus(ctx, first, domain.StatusPending)
	require.NoError(t, err)

	require.NoError(t, second.ApplyTransition(domain.StatusApproved, "", domain.TransitionExtra{}))
	_, err = repo.UpdateStatus(ctx, second, domain.StatusPending)
	require.ErrorIs(t, err, ports.ErrStaleStatus)

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Equal(t, domain.StatusCancelled, stored.Status)
	require.Len(t, stored.History, 1)
}

func TestGetByID_Ownership(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	order := checkout(t, svc, customer)

	got, err := svc.GetByID(ctx, order.ID, customer)
	require.NoError(t, err)
	require.Equal(t, order.ID, got.ID)

	_, err = svc.GetByID(ctx, order.ID, ports.Actor{UserID: 42, Role: usersdomain.RoleCustomer})
	require.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	_, err = svc.GetByID(ctx, order.ID, manager)
	require.NoError(t, err)
}

func TestSetPayment_PrivilegedOnly(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()
	order := checkout(t, svc, customer)

	_, err := svc.SetPayment(ctx, order.ID, domain.PaymentPaid, customer)
	require.True(t, apperrors.IsKind(err, apperrors.KindForbidden))

	updated, err := svc.SetPayment(ctx, order.ID, domain.PaymentPaid, manager)
	require.NoError(t, err)
	require.Equal(t, domain.PaymentPaid, updated.PaymentStatus)
}

func TestSetPayment_DoesNotTouchStatusHistory(t *testing.T) {
	svc, repo, _ := newTestService(t)
	ctx := context.Background()
	order := checkout(t, svc, customer)

	_, err := svc.SetPayment(ctx, order.ID, domain.PaymentPaid, admin)
	require.NoError(t, err)

	stored, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	require.Empty(t, stored.History)
	require.Equal(t, domain.StatusPending, stored.Status)
}
