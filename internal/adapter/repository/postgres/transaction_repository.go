package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-banking-ledger/internal/domain"
)

const transactionColumns = `id, user_id, from_account_id, to_account_id, transaction_type, amount, description,
	reference_number, status, bank_name, beneficiary_name, routing_number, beneficiary_address,
	created_at, updated_at`

type TransactionRepository struct {
	q querier
}

func NewTransactionRepository(q querier) *TransactionRepository {
	return &TransactionRepository{q: q}
}

func (r *TransactionRepository) Insert(ctx context.Context, transaction domain.Transaction) (domain.Transaction, error) {
	const query = `
INSERT INTO transactions (
	user_id,
	from_account_id,
	to_account_id,
	transaction_type,
	amount,
	description,
	reference_number,
	status,
	bank_name,
	beneficiary_name,
	routing_number,
	beneficiary_address
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id, created_at, updated_at`

	var (
		id        string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := r.q.QueryRowContext(
		ctx,
		query,
		transaction.UserID,
		transaction.FromAccountID,
		transaction.ToAccountID,
		transaction.TransactionType,
		transaction.Amount,
		transaction.Description,
		transaction.ReferenceNumber,
		transaction.Status,
		transaction.BankName,
		transaction.BeneficiaryName,
		transaction.RoutingNumber,
		transaction.BeneficiaryAddress,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		return domain.Transaction{}, wrapError("insert transaction", err)
	}

	transaction.ID = id
	transaction.CreatedAt = createdAt
	transaction.UpdatedAt = updatedAt

	return transaction, nil
}

func (r *TransactionRepository) GetByID(ctx context.Context, id string) (domain.Transaction, error) {
	const query = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE id = $1`

	return r.scanTransaction(ctx, "get transaction by id", query, id)
}

func (r *TransactionRepository) GetByReference(ctx context.Context, referenceNumber string) (domain.Transaction, error) {
	const query = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE reference_number = $1`

	return r.scanTransaction(ctx, "get transaction by reference", query, referenceNumber)
}

func (r *TransactionRepository) GetForUpdate(ctx context.Context, id string) (domain.Transaction, error) {
	const query = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE id = $1
FOR UPDATE`

	return r.scanTransaction(ctx, "get transaction for update", query, id)
}

// UpdateStatus flips a pending entry to its terminal status. Rows that are
// no longer pending are left untouched and surface ErrAlreadyResolved:
// settled history is immutable.
func (r *TransactionRepository) UpdateStatus(ctx context.Context, id string, status domain.TransactionStatus) error {
	const query = `
UPDATE transactions
SET status = $2,
    updated_at = NOW()
WHERE id = $1
  AND status = 'pending'`

	result, err := r.q.ExecContext(ctx, query, id, status)
	if err != nil {
		return wrapError("update transaction status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapError("update transaction status rows affected", err)
	}
	if affected == 0 {
		return domain.ErrAlreadyResolved
	}

	return nil
}

func (r *TransactionRepository) ListByUser(ctx context.Context, userID string, filter repo_interfaces.TransactionFilter) ([]domain.Transaction, error) {
	query := `
SELECT ` + transactionColumns + `
FROM transactions
WHERE (user_id = $1 OR to_account_id IN (SELECT id FROM accounts WHERE user_id = $1))`
	args := []any{userID}

	if filter.TransactionType != "" {
		args = append(args, filter.TransactionType)
		query += fmt.Sprintf(" AND transaction_type = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	return r.listTransactions(ctx, "list transactions by user", query, args...)
}

func (r *TransactionRepository) ListPendingExternal(ctx context.Context) ([]domain.Transaction, error) {
	const query = `
SELECT ` + transactionColumns + `
FROM transactions
WHERE transaction_type = 'external'
  AND status = 'pending'
ORDER BY created_at ASC`

	return r.listTransactions(ctx, "list pending external transfers", query)
}

func (r *TransactionRepository) SummarizeByUser(ctx context.Context, userID string) (repo_interfaces.TransactionSummary, error) {
	const query = `
SELECT
	COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'deposit'), 0),
	COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'withdrawal'), 0),
	COALESCE(SUM(amount) FILTER (WHERE transaction_type = 'transfer'), 0),
	COUNT(*)
FROM transactions
WHERE user_id = $1
  AND status = 'completed'`

	var summary repo_interfaces.TransactionSummary
	if err := r.q.QueryRowContext(ctx, query, userID).Scan(
		&summary.TotalDeposits,
		&summary.TotalWithdrawals,
		&summary.TotalTransfersSent,
		&summary.TransactionCount,
	); err != nil {
		return repo_interfaces.TransactionSummary{}, wrapError("summarize transactions by user", err)
	}

	return summary, nil
}

func (r *TransactionRepository) scanTransaction(ctx context.Context, op string, query string, arg any) (domain.Transaction, error) {
	var transaction domain.Transaction
	if err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&transaction.ID,
		&transaction.UserID,
		&transaction.FromAccountID,
		&transaction.ToAccountID,
		&transaction.TransactionType,
		&transaction.Amount,
		&transaction.Description,
		&transaction.ReferenceNumber,
		&transaction.Status,
		&transaction.BankName,
		&transaction.BeneficiaryName,
		&transaction.RoutingNumber,
		&transaction.BeneficiaryAddress,
		&transaction.CreatedAt,
		&transaction.UpdatedAt,
	); err != nil {
		return domain.Transaction{}, wrapError(op, err)
	}

	return transaction, nil
}

func (r *TransactionRepository) listTransactions(ctx context.Context, op string, query string, args ...any) ([]domain.Transaction, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapError(op, err)
	}
	defer rows.Close()

	var transactions []domain.Transaction
	for rows.Next() {
		var transaction domain.Transaction
		if err := rows.Scan(
			&transaction.ID,
			&transaction.UserID,
			&transaction.FromAccountID,
			&transaction.ToAccountID,
			&transaction.TransactionType,
			&transaction.Amount,
			&transaction.Description,
			&transaction.ReferenceNumber,
			&transaction.Status,
			&transaction.BankName,
			&transaction.BeneficiaryName,
			&transaction.RoutingNumber,
			&transaction.BeneficiaryAddress,
			&transaction.CreatedAt,
			&transaction.UpdatedAt,
		); err != nil {
			return nil, wrapError("scan transaction row", err)
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("iterate transaction rows", err)
	}

	return transactions, nil
}
