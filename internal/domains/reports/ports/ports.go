// Package ports defines the reporting context boundaries.
package ports

import (
	"context"
	"errors"
	"time"
)

// ReportType selects one of the supported aggregations.
type ReportType string

const (
	ReportSales     ReportType = "sales"
	ReportInventory ReportType = "inventory"
	ReportOrders    ReportType = "orders"
	ReportProducts  ReportType = "products"
)

var ErrUnknownReport = errors.New("unknown report type")

// ParseReportType validates a report type from the wire.
func ParseReportType(raw string) (ReportType, error) {
	switch t := ReportType(raw); t {
	case ReportSales, ReportInventory, ReportOrders, ReportProducts:
		return t, nil
	default:
		return "", ErrUnknownReport
	}
}

// StatusBucket aggregates orders sharing a status.
type StatusBucket struct {
	Count   int     `json:"count"`
	Revenue float64 `json:"revenue"`
}

// SalesReport summarizes revenue across the order book.
type SalesReport struct {
	TotalOrders     int                     `json:"totalOrders"`
	TotalRevenue    float64                 `json:"totalRevenue"`
	ByStatus        map[string]StatusBucket `json:"byStatus"`
	ByPaymentStatus map[string]int          `json:"byPaymentStatus"`
}

// LowStockItem flags a product at or below the low-stock threshold.
type LowStockItem struct {
	ProductID int64  `json:"productId"`
	SKU       string `json:"sku"`
	Name      string `json:"name"`
	Quantity  int32  `json:"quantity"`
}

// InventoryReport summarizes stock levels.
type InventoryReport struct {
	TotalProducts     int            `json:"totalProducts"`
	TotalUnits        int64          `json:"totalUnits"`
	TotalValue        float64        `json:"totalValue"`
	LowStockThreshold int32          `json:"lowStockThreshold"`
	LowStock          []LowStockItem `json:"lowStock"`
}

// RecentOrder is a compact order view for the orders report.
type RecentOrder struct {
	ID          int64     `json:"id"`
	Number      string    `json:"number"`
	CustomerID  int64     `json:"customerId"`
	Status      string    `json:"status"`
	TotalAmount float64   `json:"totalAmount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// OrdersReport summarizes order flow.
type OrdersReport struct {
	CountsByStatus map[string]int `json:"countsByStatus"`
	Recent         []RecentOrder  `json:"recent"`
}

// ProductSales aggregates units sold and revenue for one product.
type ProductSales struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	UnitsSold int64   `json:"unitsSold"`
	Revenue   float64 `json:"revenue"`
}

// ProductsReport lists per-product sales performance.
type ProductsReport struct {
	Items []ProductSales `json:"items"`
}

// Service builds read-only aggregations over orders and products.
type Service interface {
	Sales(ctx context.Context) (*SalesReport, error)
	// Inventory uses the requesting user's low-stock threshold.
	Inventory(ctx context.Context, userID int64) (*InventoryReport, error)
	Orders(ctx context.Context) (*OrdersReport, error)
	Products(ctx context.Context) (*ProductsReport, error)
	// Rows renders a report as CSV rows, header first.
	Rows(ctx context.Context, reportType ReportType, userID int64) ([][]string, error)
}
