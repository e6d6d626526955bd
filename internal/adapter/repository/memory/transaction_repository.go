package memory

import (
	"context"
	"sort"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/shopspring/decimal"
)

type TransactionRepository struct {
	store *Store
	unit  *unitOfWork
}

func (r *TransactionRepository) Insert(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, taken := r.store.txnIDByRef[transaction.ReferenceNumber]; taken {
		return domain.Transaction{}, domain.ErrDuplicateIdentifier
	}
	if r.unit != nil {
		for _, staged := range r.unit.stagedTxns {
			if staged.ReferenceNumber == transaction.ReferenceNumber {
				return domain.Transaction{}, domain.ErrDuplicateIdentifier
			}
		}
	}

	now := time.Now().UTC()
	transaction.ID = newID()
	transaction.CreatedAt = now
	transaction.UpdatedAt = now

	if r.unit != nil {
		r.unit.stagedTxns = append(r.unit.stagedTxns, transaction)
	} else {
		r.store.transactions[transaction.ID] = transaction
		r.store.txnIDByRef[transaction.ReferenceNumber] = transaction.ID
	}

	return transaction, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.currentLocked(id)
}

func (r *TransactionRepository) GetByReference(ctx context.Context, referenceNumber string) (domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, ok := r.store.txnIDByRef[referenceNumber]
	if !ok {
		return domain.Transaction{}, domain.ErrRecordNotFound
	}

	return r.currentLocked(id)
}

// GetForUpdate returns the current row state inside the unit of work.
// Exclusivity comes from the involved account's lock, which the engine
// acquires before touching the ledger entry.
func (r *TransactionRepository) GetForUpdate(ctx context.Context, id string) (domain.Transaction, error) {
	return r.GetByID(ctx, id)
}

func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	current, err := r.currentLocked(id)
	if err != nil {
		return err
	}
	if current.Status != domain.TransactionStatusPending {
		return domain.ErrAlreadyResolved
	}

	if r.unit != nil {
		if r.unit.stagedStatuses == nil {
			r.unit.stagedStatuses = make(map[string]domain.TransactionStatus)
		}
		r.unit.stagedStatuses[id] = status
		return nil
	}

	current.Status = status
	current.UpdatedAt = time.Now().UTC()
	r.store.transactions[id] = current

	return nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, filter repo_interfaces.TransactionFilter) ([]domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	received := make(map[string]struct{})
	for id, record := range r.store.accounts {
		if record.account.UserID == userID {
			received[id] = struct{}{}
		}
	}

	var transactions []domain.Transaction
	for _, txn := range r.store.transactions {
		involved := txn.UserID == userID
		if !involved && txn.ToAccountID != nil {
			_, involved = received[*txn.ToAccountID]
		}
		if !involved {
			continue
		}
		if filter.TransactionType != "" && txn.TransactionType != filter.TransactionType {
			continue
		}
		if filter.Status != "" && txn.Status != filter.Status {
			continue
		}
		transactions = append(transactions, txn)
	}

	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})

	if filter.Limit > 0 && len(transactions) > filter.Limit {
		transactions = transactions[:filter.Limit]
	}

	return transactions, nil
}

func (r *TransactionRepository) ListPendingExternal(ctx context.Context) ([]domain.Transaction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var transactions []domain.Transaction
	for _, txn := range r.store.transactions {
		if txn.CanBeResolved() {
			transactions = append(transactions, txn)
		}
	}

	sort.Slice(transactions, func(i, j int) bool {
		return transactions[i].CreatedAt.Before(transactions[j].CreatedAt)
	})

	return transactions, nil
}

func (r *TransactionRepository) SummarizeByUser(ctx context.Context, userID string) (repo_interfaces.TransactionSummary, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	summary := repo_interfaces.TransactionSummary{
		TotalDeposits:      decimal.Zero,
		TotalWithdrawals:   decimal.Zero,
		TotalTransfersSent: decimal.Zero,
	}

	for _, txn := range r.store.transactions {
		if txn.UserID != userID || !txn.IsCompleted() {
			continue
		}
		switch txn.TransactionType {
		case domain.TransactionTypeDeposit:
			summary.TotalDeposits = summary.TotalDeposits.Add(txn.Amount)
		case domain.TransactionTypeWithdrawal:
			summary.TotalWithdrawals = summary.TotalWithdrawals.Add(txn.Amount)
		case domain.TransactionTypeTransfer:
			summary.TotalTransfersSent = summary.TotalTransfersSent.Add(txn.Amount)
		}
		summary.TransactionCount++
	}

	return summary, nil
}

func (r *TransactionRepository) currentLocked(id string) (domain.Transaction, error) {
	txn, ok := r.store.transactions[id]
	if !ok {
		if r.unit != nil {
			for _, staged := range r.unit.stagedTxns {
				if staged.ID == id {
					return staged, nil
				}
			}
		}
		return domain.Transaction{}, domain.ErrRecordNotFound
	}

	if r.unit != nil && r.unit.stagedStatuses != nil {
		if status, ok := r.unit.stagedStatuses[id]; ok {
			txn.Status = status
		}
	}

	return txn, nil
}
