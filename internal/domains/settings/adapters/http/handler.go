// Package http exposes the settings routes.
package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/inventory-api/internal/domains/settings/domain"
	"github.com/orderdesk/inventory-api/internal/domains/settings/ports"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
	"github.com/orderdesk/inventory-api/internal/shared/auth"
	"github.com/orderdesk/inventory-api/internal/shared/httpx"
)

// Handler serves the /api/settings routes.
type Handler struct {
	service ports.Service
}

func NewHandler(service ports.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(rg *gin.RouterGroup, gate *auth.Gate) {
	rg.Use(gate.Authenticate())
	rg.GET("", h.Get)
	rg.PATCH("", h.Update)
}

type settingsResponse struct {
	Currency             string    `json:"currency"`
	LowStockThreshold    int32     `json:"lowStockThreshold"`
	NotifyOnStatusChange bool      `json:"notifyOnStatusChange"`
	UpdatedAt            time.Time `json:"updatedAt"`
}

func toResponse(settings *domain.Settings) settingsResponse {
	return settingsResponse{
		Currency:             settings.Currency,
		LowStockThreshold:    settings.LowStockThreshold,
		NotifyOnStatusChange: settings.NotifyOnStatusChange,
		UpdatedAt:            settings.UpdatedAt,
	}
}

type updateRequest struct {
	Currency             *string `json:"currency"`
	LowStockThreshold    *int32  `json:"lowStockThreshold"`
	NotifyOnStatusChange *bool   `json:"notifyOnStatusChange"`
}

// GET /api/settings
func (h *Handler) Get(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	settings, err := h.service.Get(c.Request.Context(), actor.UserID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponse(settings))
}

// PATCH /api/settings
func (h *Handler) Update(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	var payload updateRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		httpx.Error(c, apperrors.Validation(err.Error()))
		return
	}
	settings, err := h.service.Update(c.Request.Context(), actor.UserID, ports.SettingsUpdate{
		Currency:             payload.Currency,
		LowStockThreshold:    payload.LowStockThreshold,
		NotifyOnStatusChange: payload.NotifyOnStatusChange,
	})
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, toResponse(settings))
}
