package postgres

import (
	"strings"

	domainerrors "storefront/internal/domain/errors"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// translateWriteError wraps a failed insert or update as a data-access error.
// Constraint violations are still store faults: the kind goes into the details only.
func translateWriteError(err error, details string) error {
	if kind := constraintKind(err); kind != "" {
		details += ": " + kind
	}

	return domainerrors.NewDatabaseExecuteError(err, details)
}

func constraintKind(err error) string {
	switch {
	case isUniqueConstraintViolation(err):
		return "unique constraint violation"
	case isNotNullConstraintViolation(err):
		return "not null constraint violation"
	case isCheckConstraintViolation(err):
		return "check constraint violation"
	default:
		return ""
	}
}

func isUniqueConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func isCheckConstraintViolation(err error) bool {
	return errors.Is(err, gorm.ErrCheckConstraintViolated)
}

func isNotNullConstraintViolation(err error) bool {
	errMsg := strings.ToLower(err.Error())

	return strings.Contains(errMsg, "null value") ||
		strings.Contains(errMsg, "not null constraint") ||
		strings.Contains(errMsg, "23502") // PostgreSQL not_null_violation error code
}
