package http

import (
	"time"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	"github.com/orderdesk/inventory-api/internal/domains/orders/ports"
)

type lineResponse struct {
	ProductID int64   `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int32   `json:"quantity"`
	Price     float64 `json:"price"`
}

type statusChangeResponse struct {
	Status string    `json:"status"`
	Notes  string    `json:"notes,omitempty"`
	At     time.Time `json:"at"`
}

// OrderResponse is the wire representation of an order.
type OrderResponse struct {
	ID                int64                  `json:"id"`
	Number            string                 `json:"number"`
	CustomerID        int64                  `json:"customerId"`
	Lines             []lineResponse         `json:"lines"`
	TotalAmount       float64                `json:"totalAmount"`
	Status            string                 `json:"status"`
	PaymentStatus     string                 `json:"paymentStatus"`
	TrackingNumber    string                 `json:"trackingNumber,omitempty"`
	EstimatedDelivery *time.Time             `json:"estimatedDelivery,omitempty"`
	Notes             string                 `json:"notes,omitempty"`
	History           []statusChangeResponse `json:"statusHistory"`
	CreatedAt         time.Time              `json:"createdAt"`
	UpdatedAt         time.Time              `json:"updatedAt"`
}

func toResponse(order *domain.Order) OrderResponse {
	resp := OrderResponse{
		ID:                order.ID,
		Number:            order.Number,
		CustomerID:        order.CustomerID,
		TotalAmount:       order.TotalAmount,
		Status:            string(order.Status),
		PaymentStatus:     string(order.PaymentStatus),
		TrackingNumber:    order.TrackingNumber,
		EstimatedDelivery: order.EstimatedDelivery,
		Notes:             order.Notes,
		History:           []statusChangeResponse{},
		CreatedAt:         order.CreatedAt,
		UpdatedAt:         order.UpdatedAt,
	}
	for _, line := range order.Lines {
		resp.Lines = append(resp.Lines, lineResponse{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     line.Price,
		})
	}
	for _, change := range order.History {
		resp.History = append(resp.History, statusChangeResponse{
			Status: string(change.Status),
			Notes:  change.Notes,
			At:     change.At,
		})
	}
	return resp
}

func toResponseList(orders []*domain.Order) []OrderResponse {
	list := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		list = append(list, toResponse(order))
	}
	return list
}

type checkoutRequest struct {
	CustomerID int64              `json:"customerId"`
	Lines      []checkoutLineItem `json:"lines" binding:"required"`
	Notes      string             `json:"notes"`
}

type checkoutLineItem struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int32 `json:"quantity" binding:"required"`
}

func (r checkoutRequest) toInput(idempotencyKey string) ports.CheckoutInput {
	input := ports.CheckoutInput{
		CustomerID:     r.CustomerID,
		Notes:          r.Notes,
		IdempotencyKey: idempotencyKey,
	}
	for _, line := range r.Lines {
		input.Lines = append(input.Lines, ports.CheckoutLine{
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
		})
	}
	return input
}

type transitionRequest struct {
	Status            string     `json:"status"`
	Notes             string     `json:"notes"`
	TrackingNumber    string     `json:"trackingNumber"`
	EstimatedDelivery *time.Time `json:"estimatedDelivery"`
}

type paymentRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}
