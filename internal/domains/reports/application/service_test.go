package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	catalogmemory "github.com/orderdesk/inventory-api/internal/domains/catalog/adapters/memory"
	catalogdomain "github.com/orderdesk/inventory-api/internal/domains/catalog/domain"
	ordersmemory "github.com/orderdesk/inventory-api/internal/domains/orders/adapters/memory"
	ordersdomain "github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	"github.com/orderdesk/inventory-api/internal/domains/reports/ports"
	settingsmemory "github.com/orderdesk/inventory-api/internal/domains/settings/adapters/memory"
	settingsapp "github.com/orderdesk/inventory-api/internal/domains/settings/application"
	settingsports "github.com/orderdesk/inventory-api/internal/domains/settings/ports"
)

func seedService(t *testing.T) (*Service, *ordersmemory.Repository) {
	t.Helper()
	ctx := context.Background()

	orders := ordersmemory.NewRepository()
	products := catalogmemory.NewRepository()
	settings := settingsapp.NewService(settingsmemory.NewRepository())

	widget, err := catalogdomain.NewProduct("SKU-W", "Widget", "tools", "", 10.00, 50)
	require.NoError(t, err)
	_, err = products.Save(ctx, widget)
	require.NoError(t, err)
	gadget, err := catalogdomain.NewProduct("SKU-G", "Gadget", "tools", "", 25.00, 2)
	require.NoError(t, err)
	_, err = products.Save(ctx, gadget)
	require.NoError(t, err)

	// One delivered order, one pending, one cancelled.
	delivered := mustOrder(t, "n-1", 7, []ordersdomain.Line{{ProductID: 1, Name: "Widget", Quantity: 3, Price: 10.00}})
	delivered, err = orders.Create(ctx, delivered)
	require.NoError(t, err)
	advance(t, orders, delivered, ordersdomain.StatusApproved, ordersdomain.StatusShipped, ordersdomain.StatusDelivered)

	pending := mustOrder(t, "n-2", 8, []ordersdomain.Line{{ProductID: 2, Name: "Gadget", Quantity: 1, Price: 25.00}})
	_, err = orders.Create(ctx, pending)
	require.NoError(t, err)

	cancelled := mustOrder(t, "n-3", 7, []ordersdomain.Line{{ProductID: 1, Name: "Widget", Quantity: 10, Price: 10.00}})
	cancelled, err = orders.Create(ctx, cancelled)
	require.NoError(t, err)
	advance(t, orders, cancelled, ordersdomain.StatusCancelled)

	return NewService(orders, products, settings), orders
}

func mustOrder(t *testing.T, number string, customerID int64, lines []ordersdomain.Line) *ordersdomain.Order {
	t.Helper()
	order, err := ordersdomain.NewOrder(number, customerID, lines, "")
	require.NoError(t, err)
	return order
}

func advance(t *testing.T, repo *ordersmemory.Repository, order *ordersdomain.Order, path ...ordersdomain.Status) {
	t.Helper()
	ctx := context.Background()
	for _, target := range path {
		expected := order.Status
		require.NoError(t, order.ApplyTransition(target, "", ordersdomain.TransitionExtra{}))
		updated, err := repo.UpdateStatus(ctx, order, expected)
		require.NoError(t, err)
		order = updated
	}
}

func TestSales_ExcludesCancelledFromRevenue(t *testing.T) {
	svc, _ := seedService(t)

	report, err := svc.Sales(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, report.TotalOrders)
	require.Equal(t, 55.00, report.TotalRevenue)
	require.Equal(t, 1, report.ByStatus["delivered"].Count)
	require.Equal(t, 30.00, report.ByStatus["delivered"].Revenue)
	require.Equal(t, 1, report.ByStatus["cancelled"].Count)
	require.Equal(t, 3, report.ByPaymentStatus["unpaid"])
}

func TestInventory_UsesUserThreshold(t *testing.T) {
	svc, _ := seedService(t)
	ctx := context.Background()

	report, err := svc.Inventory(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 2, report.TotalProducts)
	require.Equal(t, int64(52), report.TotalUnits)
	require.Equal(t, 550.00, report.TotalValue)
	// Default threshold is 10: only the gadget at 2 units is low.
	require.Len(t, report.LowStock, 1)
	require.Equal(t, "Gadget", report.LowStock[0].Name)
}

func TestInventory_ThresholdFromSettings(t *testing.T) {
	orders := ordersmemory.NewRepository()
	products := catalogmemory.NewRepository()
	settings := settingsapp.NewService(settingsmemory.NewRepository())
	ctx := context.Background()

	widget, err := catalogdomain.NewProduct("SKU-W", "Widget", "", "", 1.00, 60)
	require.NoError(t, err)
	_, err = products.Save(ctx, widget)
	require.NoError(t, err)

	threshold := int32(100)
	_, err = settings.Update(ctx, 9, settingsports.SettingsUpdate{LowStockThreshold: &threshold})
	require.NoError(t, err)

	report, err := NewService(orders, products, settings).Inventory(ctx, 9)
	require.NoError(t, err)
	require.Len(t, report.LowStock, 1)
}

func TestOrders_CountsAndRecent(t *testing.T) {
	svc, _ := seedService(t)

	report, err := svc.Orders(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, report.CountsByStatus["delivered"])
	require.Equal(t, 1, report.CountsByStatus["pending"])
	require.Equal(t, 1, report.CountsByStatus["cancelled"])
	require.Len(t, report.Recent, 3)
}

func TestProducts_AggregatesNonCancelledLines(t *testing.T) {
	svc, _ := seedService(t)

	report, err := svc.Products(context.Background())
	require.NoError(t, err)
	require.Len(t, report.Items, 2)
	// Sorted by revenue: widget 30.00 from the delivered order only.
	require.Equal(t, "Widget", report.Items[0].Name)
	require.Equal(t, int64(3), report.Items[0].UnitsSold)
	require.Equal(t, 30.00, report.Items[0].Revenue)
	require.Equal(t, "Gadget", report.Items[1].Name)
	require.Equal(t, 25.00, report.Items[1].Revenue)
}

func TestRows_HeaderFirstAndUnknownType(t *testing.T) {
	svc, _ := seedService(t)
	ctx := context.Background()

	rows, err := svc.Rows(ctx, ports.ReportProducts, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"productId", "name", "unitsSold", "revenue"}, rows[0])
	require.Len(t, rows, 3)

	_, err = svc.Rows(ctx, ports.ReportType("bogus"), 1)
	require.Error(t, err)
}

func TestParseReportType(t *testing.T) {
	for _, valid := range []string{"sales", "inventory", "orders", "products"} {
		_, err := ports.ParseReportType(valid)
		require.NoError(t, err)
	}
	_, err := ports.ParseReportType("nope")
	require.ErrorIs(t, err, ports.ErrUnknownReport)
}
