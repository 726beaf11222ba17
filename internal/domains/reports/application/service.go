// Package application implements the reporting aggregations.
package application

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"

	catalogports "github.com/orderdesk/inventory-api/internal/domains/catalog/ports"
	ordersdomain "github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	orderports "github.com/orderdesk/inventory-api/internal/domains/orders/ports"
	"github.com/orderdesk/inventory-api/internal/domains/reports/ports"
	settingsports "github.com/orderdesk/inventory-api/internal/domains/settings/ports"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
)

const recentOrdersLimit = 10

var _ ports.Service = (*Service)(nil)

// Service computes reports from the orders and catalog repositories. Revenue
// figures exclude cancelled orders.
type Service struct {
	orders   orderports.Repository
	products catalogports.Repository
	settings settingsports.Service
}

func NewService(orders orderports.Repository, products catalogports.Repository, settings settingsports.Service) *Service {
	return &Service{orders: orders, products: products, settings: settings}
}

func (s *Service) Sales(ctx context.Context) (*ports.SalesReport, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	report := &ports.SalesReport{
		ByStatus:        make(map[string]ports.StatusBucket),
		ByPaymentStatus: make(map[string]int),
	}
	for _, order := range orders {
		report.TotalOrders++
		bucket := report.ByStatus[string(order.Status)]
		bucket.Count++
		bucket.Revenue = round2(bucket.Revenue + order.TotalAmount)
		report.ByStatus[string(order.Status)] = bucket
		report.ByPaymentStatus[string(order.PaymentStatus)]++
		if order.Status != ordersdomain.StatusCancelled {
			report.TotalRevenue = round2(report.TotalRevenue + order.TotalAmount)
		}
	}
	return report, nil
}

func (s *Service) Inventory(ctx context.Context, userID int64) (*ports.InventoryReport, error) {
	products, err := s.products.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	userSettings, err := s.settings.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	report := &ports.InventoryReport{
		LowStockThreshold: userSettings.LowStockThreshold,
		LowStock:          []ports.LowStockItem{},
	}
	for _, product := range products {
		report.TotalProducts++
		report.TotalUnits += int64(product.Quantity)
		report.TotalValue = round2(report.TotalValue + product.Price*float64(product.Quantity))
		if product.Quantity <= userSettings.LowStockThreshold {
			report.LowStock = append(report.LowStock, ports.LowStockItem{
				ProductID: product.ID,
				SKU:       product.SKU,
				Name:      product.Name,
				Quantity:  product.Quantity,
			})
		}
	}
	return report, nil
}

func (s *Service) Orders(ctx context.Context) (*ports.OrdersReport, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	report := &ports.OrdersReport{
		CountsByStatus: make(map[string]int),
		Recent:         []ports.RecentOrder{},
	}
	for _, order := range orders {
		report.CountsByStatus[string(order.Status)]++
	}
	// List returns newest first.
	for _, order := range orders {
		if len(report.Recent) == recentOrdersLimit {
			break
		}
		report.Recent = append(report.Recent, ports.RecentOrder{
			ID:          order.ID,
			Number:      order.Number,
			CustomerID:  order.CustomerID,
			Status:      string(order.Status),
			TotalAmount: order.TotalAmount,
			CreatedAt:   order.CreatedAt,
		})
	}
	return report, nil
}

func (s *Service) Products(ctx context.Context) (*ports.ProductsReport, error) {
	orders, err := s.orders.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	type acc struct {
		name    string
		units   int64
		revenue float64
	}
	totals := make(map[int64]*acc)
	for _, order := range orders {
		if order.Status == ordersdomain.StatusCancelled {
			continue
		}
		for _, line := range order.Lines {
			entry, ok := totals[line.ProductID]
			if !ok {
				entry = &acc{name: line.Name}
				totals[line.ProductID] = entry
			}
			entry.units += int64(line.Quantity)
			entry.revenue = round2(entry.revenue + line.Price*float64(line.Quantity))
		}
	}
	report := &ports.ProductsReport{Items: make([]ports.ProductSales, 0, len(totals))}
	for id, entry := range totals {
		report.Items = append(report.Items, ports.ProductSales{
			ProductID: id,
			Name:      entry.name,
			UnitsSold: entry.units,
			Revenue:   entry.revenue,
		})
	}
	sort.Slice(report.Items, func(i, j int) bool {
		if report.Items[i].Revenue != report.Items[j].Revenue {
			return report.Items[i].Revenue > report.Items[j].Revenue
		}
		return report.Items[i].ProductID < report.Items[j].ProductID
	})
	return report, nil
}

// Rows flattens a report into CSV rows with a header row first.
func (s *Service) Rows(ctx context.Context, reportType ports.ReportType, userID int64) ([][]string, error) {
	switch reportType {
	case ports.ReportSales:
		report, err := s.Sales(ctx)
		if err != nil {
			return nil, err
		}
		rows := [][]string{{"status", "count", "revenue"}}
		for _, status := range sortedKeys(report.ByStatus) {
			bucket := report.ByStatus[status]
			rows = append(rows, []string{status, strconv.Itoa(bucket.Count), money(bucket.Revenue)})
		}
		rows = append(rows, []string{"total", strconv.Itoa(report.TotalOrders), money(report.TotalRevenue)})
		return rows, nil
	case ports.ReportInventory:
		report, err := s.Inventory(ctx, userID)
		if err != nil {
			return nil, err
		}
		rows := [][]string{{"productId", "sku", "name", "quantity"}}
		for _, item := range report.LowStock {
			rows = append(rows, []string{
				strconv.FormatInt(item.ProductID, 10), item.SKU, item.Name,
				strconv.Itoa(int(item.Quantity)),
			})
		}
		return rows, nil
	case ports.ReportOrders:
		report, err := s.Orders(ctx)
		if err != nil {
			return nil, err
		}
		rows := [][]string{{"id", "number", "customerId", "status", "totalAmount", "createdAt"}}
		for _, order := range report.Recent {
			rows = append(rows, []string{
				strconv.FormatInt(order.ID, 10), order.Number,
				strconv.FormatInt(order.CustomerID, 10), order.Status,
				money(order.TotalAmount), order.CreatedAt.Format("2006-01-02 15:04:05"),
			})
		}
		return rows, nil
	case ports.ReportProducts:
		report, err := s.Products(ctx)
		if err != nil {
			return nil, err
		}
		rows := [][]string{{"productId", "name", "unitsSold", "revenue"}}
		for _, item := range report.Items {
			rows = append(rows, []string{
				strconv.FormatInt(item.ProductID, 10), item.Name,
				strconv.FormatInt(item.UnitsSold, 10), money(item.Revenue),
			})
		}
		return rows, nil
	default:
		return nil, apperrors.Validation(ports.ErrUnknownReport.Error())
	}
}

func sortedKeys(m map[string]ports.StatusBucket) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func money(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
