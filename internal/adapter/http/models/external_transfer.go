package models

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

type ExternalTransferRequest struct {
	FromAccountID      string          `json:"fromAccountId"`
	Amount             decimal.Decimal `json:"amount"`
	BankName           string          `json:"bankName"`
	BeneficiaryName    string          `json:"beneficiaryName"`
	RoutingNumber      string          `json:"routingNumber"`
	BeneficiaryAddress string          `json:"beneficiaryAddress"`
	Description        string          `json:"description"`
}

func (r ExternalTransferRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.FromAccountID) == "" {
		errs = append(errs, "fromAccountId is required")
	}
	if !validAmount(r.Amount) {
		errs = append(errs, "amount must be at least 0.01 with at most 2 decimal places")
	}
	if strings.TrimSpace(r.BankName) == "" {
		errs = append(errs, "bankName is required")
	}
	if strings.TrimSpace(r.BeneficiaryName) == "" {
		errs = append(errs, "beneficiaryName is required")
	}
	if strings.TrimSpace(r.RoutingNumber) == "" {
		errs = append(errs, "routingNumber is required")
	}
	if strings.TrimSpace(r.BeneficiaryAddress) == "" {
		errs = append(errs, "beneficiaryAddress is required")
	}
	if len(r.Description) > 255 {
		errs = append(errs, "description must be at most 255 characters")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
