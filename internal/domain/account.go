package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeSavings  AccountType = "savings"
	AccountTypeChecking AccountType = "checking"
	AccountTypeBusiness AccountType = "business"
)

type AccountStatus string

const (
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
	AccountStatusFrozen   AccountStatus = "frozen"
	AccountStatusClosed   AccountStatus = "closed"
)

type Account struct {
	ID            string
	UserID        string
	AccountNumber string
	AccountType   AccountType
	Balance       decimal.Decimal
	Status        AccountStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (a Account) IsActive() bool {
	return a.Status == AccountStatusActive
}

// CanDebit reports whether the account may be debited by amount without
// going negative. Callers must hold the account's row lock before acting
// on the answer.
func (a Account) CanDebit(amount decimal.Decimal) bool {
	return a.IsActive() && a.Balance.GreaterThanOrEqual(amount)
}

func (a Account) CanCredit(amount decimal.Decimal) bool {
	return a.IsActive() && amount.GreaterThan(decimal.Zero)
}

func ValidAccountType(value AccountType) bool {
	switch value {
	case AccountTypeSavings, AccountTypeChecking, AccountTypeBusiness:
		return true
	}
	return false
}

func ValidAccountStatus(value AccountStatus) bool {
	switch value {
	case AccountStatusActive, AccountStatusInactive, AccountStatusFrozen, AccountStatusClosed:
		return true
	}
	return false
}
