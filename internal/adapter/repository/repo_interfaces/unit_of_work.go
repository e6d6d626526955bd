package repo_interfaces

import "context"

// UnitOfWork is the atomic-commit boundary the money-movement engine runs
// inside. Do executes fn in a single transaction: every repository obtained
// from the UnitOfWork passed to fn shares that transaction, and the
// transaction commits only if fn returns nil. Row locks taken via
// AccountRepository.GetForUpdate are held until Do returns.
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	Accounts() AccountRepository
	Transactions() TransactionRepository
}
