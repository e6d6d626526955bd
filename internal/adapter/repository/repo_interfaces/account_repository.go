package repo_interfaces

import (
	"context"

	"github.com/api-sage/core-banking-ledger/internal/domain"
)

type AccountRepository interface {
	Create(ctx context.Context, account domain.Account) (domain.Account, error)
	GetByID(ctx context.Context, id string) (domain.Account, error)
	GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error)
	ExistsByNumber(ctx context.Context, accountNumber string) (bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Account, error)

	// GetForUpdate reads the account under an exclusive row lock. Only
	// meaningful inside UnitOfWork.Do; the lock is held until the unit of
	// work commits or rolls back. A bounded lock wait that expires
	// surfaces domain.ErrLockTimeout.
	GetForUpdate(ctx context.Context, id string) (domain.Account, error)

	// SaveBalance persists a balance mutated under GetForUpdate.
	SaveBalance(ctx context.Context, account domain.Account) error

	UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error
}
