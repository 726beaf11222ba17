package application

import (
	"errors"

	"github.com/orderdesk/inventory-api/internal/domains/users/domain"
	"github.com/orderdesk/inventory-api/internal/domains/users/ports"
	"github.com/orderdesk/inventory-api/internal/shared/apperrors"
)

// mapError converts domain/port errors into the shared taxonomy. Credential
// failures deliberately never reveal whether the account exists.
func mapError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ports.ErrNotFound):
		return apperrors.Wrap(apperrors.KindNotFound, "user not found", err)
	case errors.Is(err, ports.ErrInvalidCredentials):
		return apperrors.Wrap(apperrors.KindUnauthenticated, "invalid email or password", err)
	case errors.Is(err, ports.ErrEmailTaken):
		return apperrors.Wrap(apperrors.KindValidation, "email already registered", err)
	case errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrEmptyPassword),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrWeakPassword):
		return apperrors.Wrap(apperrors.KindValidation, err.Error(), err)
	default:
		var appErr *apperrors.Error
		if errors.As(err, &appErr) {
			return err
		}
		return apperrors.Internal(err)
	}
}
