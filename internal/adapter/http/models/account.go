package models

import (
	"errors"
	"strings"

	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type OpenAccountRequest struct {
	AccountType string `json:"accountType"`
}

func (r OpenAccountRequest) Validate() error {
	accountType := strings.ToLower(strings.TrimSpace(r.AccountType))
	if accountType == "" {
		return nil
	}
	if !domain.ValidAccountType(domain.AccountType(accountType)) {
		return errors.New("accountType must be one of savings, checking, business")
	}
	return nil
}

type AccountResponse struct {
	ID            string          `json:"id"`
	AccountNumber string          `json:"accountNumber"`
	AccountType   string          `json:"accountType"`
	Balance       decimal.Decimal `json:"balance"`
	Status        string          `json:"status"`
	CreatedAt     string          `json:"createdAt"`
	UpdatedAt     string          `json:"updatedAt"`
}

type AccountListResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

type UpdateAccountStatusRequest struct {
	AccountID string `json:"accountId"`
	Status    string `json:"status"`
}

func (r UpdateAccountStatusRequest) Validate() error {
	var errs []string

	if strings.TrimSpace(r.AccountID) == "" {
		errs = append(errs, "accountId is required")
	}
	status := strings.ToLower(strings.TrimSpace(r.Status))
	if !domain.ValidAccountStatus(domain.AccountStatus(status)) {
		errs = append(errs, "status must be one of active, inactive, frozen, closed")
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

type RecipientResponse struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	AccountNumber string `json:"accountNumber"`
}
