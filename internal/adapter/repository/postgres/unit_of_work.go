package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/repo_interfaces"
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx, so
// the same repository code serves both direct reads and unit-of-work scoped
// access.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type UnitOfWork struct {
	db          *sql.DB
	lockTimeout time.Duration

	accounts     *AccountRepository
	transactions *TransactionRepository
}

func NewUnitOfWork(db *sql.DB, lockTimeout time.Duration) *UnitOfWork {
	return &UnitOfWork{
		db:           db,
		lockTimeout:  lockTimeout,
		accounts:     NewAccountRepository(db),
		transactions: NewTransactionRepository(db),
	}
}

// Do runs fn inside one database transaction. Repositories reached through
// the UnitOfWork handed to fn are bound to that transaction; row locks taken
// with GetForUpdate are released on commit or rollback. Lock waits are
// bounded by lock_timeout so a contended row surfaces ErrLockTimeout instead
// of blocking forever.
func (u *UnitOfWork) Do(ctx context.Context, fn func(uow repo_interfaces.UnitOfWork) error) error {
	tx, err := u.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin unit of work: %w", err)
	}

	if u.lockTimeout > 0 {
		lockTimeoutStmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", u.lockTimeout.Milliseconds())
		if _, err := tx.ExecContext(ctx, lockTimeoutStmt); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("set lock timeout: %w", err)
		}
	}

	scoped := &UnitOfWork{
		db:           u.db,
		lockTimeout:  u.lockTimeout,
		accounts:     NewAccountRepository(tx),
		transactions: NewTransactionRepository(tx),
	}

	if err := fn(scoped); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit unit of work: %w", err)
	}

	return nil
}

func (u *UnitOfWork) Accounts() repo_interfaces.AccountRepository {
	return u.accounts
}

func (u *UnitOfWork) Transactions() repo_interfaces.TransactionRepository {
	return u.transactions
}
