// Package http exposes the orders bounded context over gin routes.
package http

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	"github.com/orderdesk/inventory-api/internal/domains/orders/ports"
	usersdomain "github.com/orderdesk/inventory-api/internal/domains/users/domain"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
	"github.com/orderdesk/inventory-api/internal/shared/auth"
	"github.com/orderdesk/inventory-api/internal/shared/httpx"
)

// Handler serves the /api/orders routes.
type Handler struct {
	service   ports.Service
	workflows ports.WorkflowOrchestrator
	repo      ports.Repository
}

// NewHandler wires dependencies. workflows runs checkout durably when a
// cluster is available; repo backs the ownership resolver.
func NewHandler(service ports.Service, workflows ports.WorkflowOrchestrator, repo ports.Repository) *Handler {
	return &Handler{service: service, workflows: workflows, repo: repo}
}

// Register mounts the route group behind authentication.
func (h *Handler) Register(rg *gin.RouterGroup, gate *auth.Gate) {
	rg.Use(gate.Authenticate())

	rg.POST("", h.Checkout)
	rg.GET("/all",
		auth.RequireRoles(usersdomain.RoleAdmin, usersdomain.RoleManager, usersdomain.RoleEmployee),
		h.ListAll)
	rg.GET("/my-orders", h.ListMine)

	ownedOrder := auth.Policy{ResolveOwner: h.resolveOwner}.Middleware()
	rg.GET("/:id", ownedOrder, h.GetByID)

	rg.PATCH("/:id/status", h.TransitionStatus)
	rg.PATCH("/:id/approve", h.transitionTo(domain.StatusApproved))
	rg.PATCH("/:id/ship", h.transitionTo(domain.StatusShipped))
	rg.PATCH("/:id/deliver", h.transitionTo(domain.StatusDelivered))
	rg.PATCH("/:id/cancel", h.transitionTo(domain.StatusCancelled))
	rg.PATCH("/:id/payment", h.SetPayment)
}

// POST /api/orders
func (h *Handler) Checkout(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	var payload checkoutRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpx.Error(c, apperrors.Validation(err.Error()))
		return
	}
	input := payload.toInput(c.GetHeader("Idempotency-Key"))
	order, err := h.workflows.Checkout(c.Request.Context(), input, actor)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.Created(c, toResponse(order))
}

// GET /api/orders/all
func (h *Handler) ListAll(c *gin.Context) {
	orders, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponseList(orders))
}

// GET /api/orders/my-orders
func (h *Handler) ListMine(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	orders, err := h.service.ListMine(c.Request.Context(), actor)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponseList(orders))
}

// GET /api/orders/:id
func (h *Handler) GetByID(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	id, err := orderID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	order, err := h.service.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponse(order))
}

// PATCH /api/orders/:id/status accepts an arbitrary target status.
func (h *Handler) TransitionStatus(c *gin.Context) {
	var payload transitionRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpx.Error(c, apperrors.Validation(err.Error()))
		return
	}
	if payload.Status == "" {
		httpx.Error(c, apperrors.Validation("status is required"))
		return
	}
	h.applyTransition(c, domain.Status(payload.Status), payload)
}

// transitionTo builds the verb-shortcut handlers (approve/ship/deliver/cancel).
func (h *Handler) transitionTo(target domain.Status) gin.HandlerFunc {
	return func(c *gin.Context) {
		var payload transitionRequest
		if c.Request.ContentLength > 0 {
			if err := c.ShouldBindJSON(&payload); err != nil {
				httpx.Error(c, apperrors.Validation(err.Error()))
				return
			}
		}
		h.applyTransition(c, target, payload)
	}
}

func (h *Handler) applyTransition(c *gin.Context, target domain.Status, payload transitionRequest) {
	actor, ok := actorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	id, err := orderID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	order, err := h.service.Transition(c.Request.Context(), id, ports.TransitionInput{
		Target:            target,
		Notes:             payload.Notes,
		TrackingNumber:    payload.TrackingNumber,
		EstimatedDelivery: payload.EstimatedDelivery,
	}, actor)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponse(order))
}

// PATCH /api/orders/:id/payment
func (h *Handler) SetPayment(c *gin.Context) {
	actor, ok := actorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	id, err := orderID(c)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	var payload paymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpx.Error(c, apperrors.Validation(err.Error()))
		return
	}
	order, err := h.service.SetPayment(c.Request.Context(), id, domain.PaymentStatus(payload.PaymentStatus), actor)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponse(order))
}

// resolveOwner backs the ownership policy on owned-order routes. A missing
// order skips the check so the handler can answer 404 on its own.
func (h *Handler) resolveOwner(ctx context.Context, c *gin.Context) (int64, bool, error) {
	id, err := orderID(c)
	if err != nil {
		return 0, false, err
	}
	order, err := h.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, apperrors.Internal(err)
	}
	return order.CustomerID, true, nil
}

func actorFrom(c *gin.Context) (ports.Actor, bool) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		return ports.Actor{}, false
	}
	return ports.Actor{UserID: actor.UserID, Role: actor.Role}, true
}

func orderID(c *gin.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("order id must be a positive integer")
	}
	return id, nil
}
