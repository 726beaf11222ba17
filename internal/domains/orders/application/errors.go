package application

import (
	"errors"

	"github.com/orderdesk/inventory-api/internal/domains/orders/domain"
	"github.com/orderdesk/inventory-api/internal/domains/orders/ports"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
)

// mapError lifts domain/port errors into the shared taxonomy. A stale CAS
// write means the caller raced a concurrent transition, which surfaces as
// IllegalTransition: the requested edge no longer exists from the current state.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrNotFound):
		return apperrors.Wrap(apperrors.KindNotFound, "order not found", err)
	case errors.Is(err, ports.ErrStaleStatus), errors.Is(err, domain.ErrIllegalTransition):
		return apperrors.Wrap(apperrors.KindIllegalTransition, "order status changed, transition no longer valid", err)
	case errors.Is(err, domain.ErrTrackingNotAllowed),
		errors.Is(err, domain.ErrInvalidTracking),
		errors.Is(err, domain.ErrNoLines),
		errors.Is(err, domain.ErrInvalidProductID),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidCustomer):
		return apperrors.Wrap(apperrors.KindValidation, err.Error(), err)
	default:
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Internal(err)
	}
}
