package models

import (
	"time"

	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionResponse struct {
	ID                 string           `json:"id"`
	TransactionType    string           `json:"transactionType"`
	Amount             decimal.Decimal  `json:"amount"`
	Description        string           `json:"description,omitempty"`
	ReferenceNumber    string           `json:"referenceNumber"`
	Status             string           `json:"status"`
	FromAccountID      *string          `json:"fromAccountId,omitempty"`
	ToAccountID        *string          `json:"toAccountId,omitempty"`
	BankName           *string          `json:"bankName,omitempty"`
	BeneficiaryName    *string          `json:"beneficiaryName,omitempty"`
	RoutingNumber      *string          `json:"routingNumber,omitempty"`
	BeneficiaryAddress *string          `json:"beneficiaryAddress,omitempty"`
	NewBalance         *decimal.Decimal `json:"newBalance,omitempty"`
	CreatedAt          string           `json:"createdAt"`
	UpdatedAt          string           `json:"updatedAt"`
}

type TransactionListResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
}

type TransactionSummaryResponse struct {
	TotalDeposits      decimal.Decimal `json:"totalDeposits"`
	TotalWithdrawals   decimal.Decimal `json:"totalWithdrawals"`
	TotalTransfersSent decimal.Decimal `json:"totalTransfersSent"`
	TransactionCount   int             `json:"transactionCount"`
}

// MapTransaction converts a ledger entry into its response shape.
// newBalance carries the authoritative post-operation balance when the
// operation mutated one; nil for read paths.
func MapTransaction(transaction domain.Transaction, newBalance *decimal.Decimal) TransactionResponse {
	return TransactionResponse{
		ID:                 transaction.ID,
		TransactionType:    string(transaction.TransactionType),
		Amount:             transaction.Amount,
		Description:        transaction.Description,
		ReferenceNumber:    transaction.ReferenceNumber,
		Status:             string(transaction.Status),
		FromAccountID:      transaction.FromAccountID,
		ToAccountID:        transaction.ToAccountID,
		BankName:           transaction.BankName,
		BeneficiaryName:    transaction.BeneficiaryName,
		RoutingNumber:      transaction.RoutingNumber,
		BeneficiaryAddress: transaction.BeneficiaryAddress,
		NewBalance:         newBalance,
		CreatedAt:          transaction.CreatedAt.Format(time.RFC3339),
		UpdatedAt:          transaction.UpdatedAt.Format(time.RFC3339),
	}
}

func validAmount(amount decimal.Decimal) bool {
	return domain.ValidAmount(amount)
}

func isTenDigits(value string) bool {
	return len(value) == 10 && digitsOnly(value)
}

func digitsOnly(value string) bool {
	for _, ch := range value {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return len(value) > 0
}
