package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type WithdrawRequest struct {
	AccountID   string          `json:"accountId"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (r WithdrawRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
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
