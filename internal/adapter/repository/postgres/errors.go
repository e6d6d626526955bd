package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/lib/pq"
)

const (
	uniqueViolationCode  = pq.ErrorCode("23505")
	lockNotAvailableCode = pq.ErrorCode("55P03")
)

// wrapError translates driver errors into the domain taxonomy: missing rows,
// identifier collisions and expired lock waits keep their sentinel so callers
// can classify with errors.Is.
func wrapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrRecordNotFound
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%s: %w", op, domain.ErrDuplicateIdentifier)
		case lockNotAvailableCode:
			return fmt.Errorf("%s: %w", op, domain.ErrLockTimeout)
		}
	}

	return fmt.Errorf("%s: %w", op, err)
}
