package postgres

import (
	"context"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/domain"
)

const accountColumns = `id, user_id, account_number, account_type, balance, status, created_at, updated_at`

type AccountRepository struct {
	q querier
}

func NewAccountRepository(q querier) *AccountRepository {
	return &AccountRepository{q: q}
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	const query = `
INSERT INTO accounts (
	user_id,
	account_number,
	account_type,
	balance,
	status
) VALUES ($1, $2, $3, $4, $5)
RETURNING id, created_at, updated_at`

	var (
		id        string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := r.q.QueryRowContext(
		ctx,
		query,
		account.UserID,
		account.AccountNumber,
		account.AccountType,
		account.Balance,
		account.Status,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		return domain.Account{}, wrapError("create account", err)
	}

	account.ID = id
	account.CreatedAt = createdAt
	account.UpdatedAt = updatedAt

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1`

	return r.scanAccount(ctx, "get account by id", query, id)
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE account_number = $1`

	return r.scanAccount(ctx, "get account by account number", query, accountNumber)
}

// GetForUpdate blocks until the account's row lock is available or
// lock_timeout expires, then returns the authoritative row for
// check-then-act inside the current unit of work.
func (r *AccountRepository) GetForUpdate(ctx context.Context, id string) (domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE id = $1
FOR UPDATE`

	return r.scanAccount(ctx, "get account for update", query, id)
}

func (r *AccountRepository) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM accounts WHERE account_number = $1)`

	var exists bool
	if err := r.q.QueryRowContext(ctx, query, accountNumber).Scan(&exists); err != nil {
		return false, wrapError("check account number exists", err)
	}

	return exists, nil
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	const query = `
SELECT ` + accountColumns + `
FROM accounts
WHERE user_id = $1
ORDER BY created_at DESC`

	rows, err := r.q.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, wrapError("list accounts by user", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var account domain.Account
		if err := rows.Scan(
			&account.ID,
			&account.UserID,
			&account.AccountNumber,
			&account.AccountType,
			&account.Balance,
			&account.Status,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, wrapError("scan account row", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapError("iterate account rows", err)
	}

	return accounts, nil
}

func (r *AccountRepository) SaveBalance(ctx context.Context, account domain.Account) error {
	const query = `
UPDATE accounts
SET balance = $2,
    updated_at = NOW()
WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, account.ID, account.Balance)
	if err != nil {
		return wrapError("save account balance", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapError("save account balance rows affected", err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error {
	const query = `
UPDATE accounts
SET status = $2,
    updated_at = NOW()
WHERE id = $1`

	result, err := r.q.ExecContext(ctx, query, id, status)
	if err != nil {
		return wrapError("update account status", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return wrapError("update account status rows affected", err)
	}
	if affected == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

func (r *AccountRepository) scanAccount(ctx context.Context, op string, query string, arg any) (domain.Account, error) {
	var account domain.Account
	if err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&account.ID,
		&account.UserID,
		&account.AccountNumber,
		&account.AccountType,
		&account.Balance,
		&account.Status,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		return domain.Account{}, wrapError(op, err)
	}

	return account, nil
}
