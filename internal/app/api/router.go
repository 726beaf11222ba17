package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	cataloghttp "github.com/orderdesk/inventory-api/internal/domains/catalog/adapters/http"
	ordershttp "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/http"
	reportshttp "github.com/orderdesk/inventory-api/internal/domains/reports/adapters/http"
	settingshttp "github.com/orderdesk/inventory-api/internal/domains/settings/adapters/http"
	usershttp "github.com/orderdesk/inventory-api/internal/domains/users/adapters/http"
	"github.com/orderdesk/inventory-api/internal/shared/auth"
)

type routerDeps struct {
	gate     *auth.Gate
	users    *usershttp.Handler
	products *cataloghttp.Handler
	orders   *ordershttp.Handler
	reports  *reportshttp.Handler
	settings *settingshttp.Handler

	uploadDir string
}

// newRouter assembles the gin engine: recovery, tracing, health probe,
// static uploads, and the bounded-context route groups.
func newRouter(serviceName string, deps routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(serviceName))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if deps.uploadDir != "" {
		router.Static("/uploads", deps.uploadDir)
	}

	api := router.Group("/api")
	deps.users.Register(api.Group("/users"), deps.gate)
	deps.products.Register(api.Group("/products"), deps.gate)
	deps.orders.Register(api.Group("/orders"), deps.gate)
	deps.reports.Register(api.Group("/reports"), deps.gate)
	deps.settings.Register(api.Group("/settings"), deps.gate)

	return router
}
