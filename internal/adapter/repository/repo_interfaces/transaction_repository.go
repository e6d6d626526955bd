package repo_interfaces

import (
	"context"

	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows ListByUser. Zero values mean no filtering.
type TransactionFilter struct {
	TransactionType domain.TransactionType
	Status          domain.TransactionStatus
	Limit           int
}

type TransactionSummary struct {
	TotalDeposits      decimal.Decimal
	TotalWithdrawals   decimal.Decimal
	TotalTransfersSent decimal.Decimal
	TransactionCount   int
}

type TransactionRepository interface {
	// Insert appends a ledger entry. A reference-number collision surfaces
	// domain.ErrDuplicateIdentifier so the caller can regenerate and retry.
	Insert(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error)

	GetByID(ctx context.Context, id string) (domain.Transaction, error)
	GetByReference(ctx context.Context, referenceNumber string) (domain.Transaction, error)

	// GetForUpdate reads the ledger entry under an exclusive row lock,
	// inside the caller's unit of work.
	GetForUpdate(ctx context.Context, id string) (domain.Transaction, error)

	// UpdateStatus moves a pending entry to a terminal status. Settled
	// history is immutable; implementations only flip rows still pending.
	UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error

	ListByUser(ctx context.Context, userID string, filter TransactionFilter) ([]domain.Transaction, error)
	ListPendingExternal(ctx context.Context) ([]domain.Transaction, error)
	SummarizeByUser(ctx context.Context, userID string) (TransactionSummary, error)
}
