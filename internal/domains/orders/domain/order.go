package domain

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"
)

var (
	ErrNoLines            = errors.New("order requires at least one line")
	ErrInvalidProductID   = errors.New("line product id must be greater than zero")
	ErrInvalidQuantity    = errors.New("line quantity must be greater than zero")
	ErrInvalidPrice       = errors.New("line price must not be negative")
	ErrInvalidCustomer    = errors.New("customer id must be greater than zero")
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrTrackingNotAllowed = errors.New("tracking number is only accepted when shipping")
	ErrInvalidTracking    = errors.New("tracking number is malformed")
)

var trackingPattern = regexp.MustCompile(`^[A-Za-z0-9-]{1,64}$`)

// Line is one (product, quantity, price) entry captured at checkout.
type Line struct {
	ProductID int64
	Name      string
	Quantity  int32
	Price     float64
}

// StatusChange is one immutable entry of the append-only history log.
type StatusChange struct {
	Status Status
	Notes  string
	At     time.Time
}

// TransitionExtra carries optional side data accepted by specific transitions.
type TransitionExtra struct {
	TrackingNumber    string
	EstimatedDelivery *time.Time
}

// Order is the purchase aggregate. TotalAmount is fixed at creation and never
// recomputed; History only ever grows.
type Order struct {
	ID                int64
	Number            string
	CustomerID        int64
	Lines             []Line
	TotalAmount       float64
	Status            Status
	PaymentStatus     PaymentStatus
	TrackingNumber    string
	EstimatedDelivery *time.Time
	Notes             string
	History           []StatusChange
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// NewOrder validates lines and builds a pending, unpaid order. The total is
// the sum of price×quantity rounded to cents.
func NewOrder(number string, customerID int64, lines []Line, notes string) (*Order, error) {
	if customerID <= 0 {
		return nil, ErrInvalidCustomer
	}
	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	total := 0.0
	for _, line := range lines {
		if line.ProductID <= 0 {
			return nil, ErrInvalidProductID
		}
		if line.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if line.Price < 0 {
			return nil, ErrInvalidPrice
		}
		total += line.Price * float64(line.Quantity)
	}
	return &Order{
		Number:        strings.TrimSpace(number),
		CustomerID:    customerID,
		Lines:         lines,
		TotalAmount:   math.Round(total*100) / 100,
		Status:        StatusPending,
		PaymentStatus: PaymentUnpaid,
		Notes:         strings.TrimSpace(notes),
	}, nil
}

// ApplyTransition moves the order along one edge of the status graph,
// validates transition side data, and appends exactly one history entry.
// Permission checks are the application layer's concern.
func (o *Order) ApplyTransition(target Status, notes string, extra TransitionExtra) error {
	if !CanTransition(o.Status, target) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, o.Status, target)
	}
	tracking := strings.TrimSpace(extra.TrackingNumber)
	if tracking != "" {
		if target != StatusShipped {
			return ErrTrackingNotAllowed
		}
		if !trackingPattern.MatchString(tracking) {
			return ErrInvalidTracking
		}
	}
	o.Status = target
	if target == StatusShipped {
		if tracking != "" {
			o.TrackingNumber = tracking
		}
		if extra.EstimatedDelivery != nil {
			estimated := *extra.EstimatedDelivery
			o.EstimatedDelivery = &estimated
		}
	}
	o.History = append(o.History, StatusChange{
		Status: target,
		Notes:  strings.TrimSpace(notes),
		At:     time.Now(),
	})
	return nil
}

// SetPayment updates the settlement flag; payment is orthogonal to the
// fulfilment graph.
func (o *Order) SetPayment(status PaymentStatus) {
	o.PaymentStatus = status
}
