package domain

// Status enumerates order progression.
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// PaymentStatus tracks settlement separately from fulfilment.
type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// validNext is the directed transition graph. Delivered and cancelled are
// terminal: they have no successors.
var validNext = map[Status]map[Status]bool{
	StatusPending:   {StatusApproved: true, StatusCancelled: true},
	StatusApproved:  {StatusShipped: true, StatusCancelled: true},
	StatusShipped:   {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

// ParseStatus validates a raw status string.
func ParseStatus(raw string) (Status, bool) {
	switch Status(raw) {
	case StatusPending, StatusApproved, StatusShipped, StatusDelivered, StatusCancelled:
		return Status(raw), true
	default:
		return "", false
	}
}

// ParsePaymentStatus validates a raw payment status string.
func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	switch PaymentStatus(raw) {
	case PaymentUnpaid, PaymentPaid:
		return PaymentStatus(raw), true
	default:
		return "", false
	}
}

// CanTransition reports whether to is a direct successor of from.
func CanTransition(from, to Status) bool {
	return validNext[from][to]
}

// Terminal reports whether no further transitions are legal.
func (s Status) Terminal() bool {
	return len(validNext[s]) == 0
}
