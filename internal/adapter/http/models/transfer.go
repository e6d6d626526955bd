package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type TransferRequest struct {
	FromAccountID   string          `json:"fromAccountId"`
	ToAccountNumber string          `json:"toAccountNumber"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description"`
}

func (r TransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.FromAccountID) == "" {
		errs = append(errs, "fromAccountId is required")
	}
	if !isTenDigits(strings.TrimSpace(r.ToAccountNumber)) {
		errs = append(errs, "toAccountNumber must be exactly 10 digits")
	}
	if !validAmount(r.Amount) {
		errs = append(errs, "amount must be at least 0.01 with at most 2 decimal places")
	}
	if len(r.Description) > 255 {
		errs = append(errs, "description must be at most 255 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
