package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	TransactionTypeTransfer   TransactionType = "transfer"
	TransactionTypeExternal   TransactionType = "external"
)

type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// MinimumAmount is the smallest money unit the ledger accepts.
var MinimumAmount = decimal.RequireFromString("0.01")

type Transaction struct {
	ID                 string
	UserID             string
	FromAccountID      *string
	ToAccountID        *string
	TransactionType    TransactionType
	Amount             decimal.Decimal
	Description        string
	ReferenceNumber    string
	Status             TransactionStatus
	BankName           *string
	BeneficiaryName    *string
	RoutingNumber      *string
	BeneficiaryAddress *string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

func (t Transaction) IsCompleted() bool {
	return t.Status == TransactionStatusCompleted
}

// CanBeResolved reports whether reconciliation may still act on the
// transaction: only a pending external transfer has an open terminal
// transition left.
func (t Transaction) CanBeResolved() bool {
	return t.TransactionType == TransactionTypeExternal && t.Status == TransactionStatusPending
}

// ReferencePrefix returns the three-letter code embedded in reference
// numbers for the given transaction type.
func ReferencePrefix(transactionType TransactionType) string {
	switch transactionType {
	case TransactionTypeDeposit:
		return "DEP"
	case TransactionTypeWithdrawal:
		return "WTD"
	case TransactionTypeTransfer:
		return "TRF"
	case TransactionTypeExternal:
		return "EXT"
	}
	return "TRX"
}

// ValidAmount enforces the ledger's amount rule: strictly positive, at
// least one minimum unit, and no sub-cent precision.
func ValidAmount(amount decimal.Decimal) bool {
	if amount.LessThan(MinimumAmount) {
		return false
	}
	return amount.Equal(amount.Round(2))
}
