package persistence

import (
	"errors"

	"github.com/retailpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// translateError maps gorm errors onto domain errors. Anything else passes
// through unchanged so callers can wrap it.
func translateError(err error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.NewNotFoundError(resource)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.NewDomainError(shared.ErrAlreadyExists.Code, resource+" already exists")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainError(shared.ErrInvalidState.Code, resource+" is still referenced by other records")
	default:
		return err
	}
}
