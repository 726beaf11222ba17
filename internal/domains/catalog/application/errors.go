package application

import (
	"errors"

	"github.com/orderdesk/inventory-api/internal/domains/catalog/domain"
	"github.com/orderdesk/inventory-api/internal/domains/catalog/ports"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
)

func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrNotFound):
		return apperrors.Wrap(apperrors.KindNotFound, "product not found", err)
	case errors.Is(err, ports.ErrStockConflict), errors.Is(err, domain.ErrInsufficientStock):
		return apperrors.Wrap(apperrors.KindValidation, "insufficient stock", err)
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrNegativePrice),
		errors.Is(err, domain.ErrNegativeQuantity):
		return apperrors.Wrap(apperrors.KindValidation, err.Error(), err)
	default:
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Internal(err)
	}
}
