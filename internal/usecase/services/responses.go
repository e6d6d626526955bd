package services

import (
	"errors"

	"github.com/api-sage/core-banking-ledger/internal/commons"
	"github.com/api-sage/core-banking-ledger/internal/domain"
)

// failureResponse maps a domain failure to the client-facing envelope.
// Unknown errors get a generic message so internals never leak.
func failureResponse[T any](operation string, err error) commons.Response[T] {
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		return commons.ErrorResponse[T]("Validation failed", domain.ErrInvalidAmount.Error())
	case errors.Is(err, domain.ErrAccountNotFound):
		return commons.ErrorResponse[T]("Account not found")
	case errors.Is(err, domain.ErrAccountNotActive):
		return commons.ErrorResponse[T]("Account is not active")
	case errors.Is(err, domain.ErrInsufficientFunds):
		return commons.ErrorResponse[T]("Insufficient balance")
	case errors.Is(err, domain.ErrSameAccountTransfer):
		return commons.ErrorResponse[T]("Cannot transfer to the same account")
	case errors.Is(err, domain.ErrLockTimeout):
		return commons.ErrorResponse[T]("Account is busy, try again")
	case errors.Is(err, domain.ErrAlreadyResolved):
		return commons.ErrorResponse[T]("Transaction is already resolved")
	case errors.Is(err, domain.ErrRecordNotFound):
		return commons.ErrorResponse[T]("Record not found")
	default:
		return commons.ErrorResponse[T](operation, "Unable to process the request right now")
	}
}

func validationResponse[T any](err error) commons.Response[T] {
	return commons.ErrorResponse[T]("Validation failed", err.Error())
}
