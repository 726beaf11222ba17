// Package http exposes the reporting routes.
package http

import (
	"encoding/csv"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/orderdesk/inventory-api/internal/domains/reports/ports"
	usersdomain "github.com/orderdesk/inventory-api/internal/domains/users/domain"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
	"github.com/orderdesk/inventory-api/internal/shared/auth"
	"github.com/orderdesk/inventory-api/internal/shared/httpx"
)

// Handler serves the /api/reports routes. All reports are admin/manager only.
type Handler struct {
	service ports.Service
}

func NewHandler(service ports.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Register(rg *gin.RouterGroup, gate *auth.Gate) {
	rg.Use(gate.Authenticate())
	rg.Use(auth.RequireRoles(usersdomain.RoleAdmin, usersdomain.RoleManager))

	rg.GET("/:reportType", h.Get)
	rg.GET("/:reportType/export", h.Export)
}

// GET /api/reports/:reportType
func (h *Handler) Get(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	reportType, err := ports.ParseReportType(c.Param("reportType"))
	if err != nil {
		httpx.Error(c, apperrors.Validation(err.Error()))
		return
	}
	ctx := c.Request.Context()
	var report any
	switch reportType {
	case ports.ReportSales:
		report, err = h.service.Sales(ctx)
	case ports.ReportInventory:
		report, err = h.service.Inventory(ctx, actor.UserID)
	case ports.ReportOrders:
		report, err = h.service.Orders(ctx)
	case ports.ReportProducts:
		report, err = h.service.Products(ctx)
	}
	if err != nil {
		httpx.Error(c, err)
		return
	}
	httpx.OK(c, report)
}

// GET /api/reports/:reportType/export streams the report as CSV.
func (h *Handler) Export(c *gin.Context) {
	actor, ok := auth.ActorFrom(c)
	if !ok {
		httpx.Error(c, apperrors.Unauthenticated("not authenticated, please login"))
		return
	}
	reportType, err := ports.ParseReportType(c.Param("reportType"))
	if err != nil {
		httpx.Error(c, apperrors.Validation(err.Error()))
		return
	}
	rows, err := h.service.Rows(c.Request.Context(), reportType, actor.UserID)
	if err != nil {
		httpx.Error(c, err)
		return
	}
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s-report.csv", reportType))
	writer := csv.NewWriter(c.Writer)
	_ = writer.WriteAll(rows)
	writer.Flush()
}
