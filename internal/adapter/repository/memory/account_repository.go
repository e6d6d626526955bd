package memory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/domain"
)

var errOutsideUnitOfWork = errors.New("account lock requires a unit of work")

type AccountRepository struct {
	store *Store
	unit  *unitOfWork
}

func (r *AccountRepository) Create(ctx context.Context, account domain.Account) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, taken := r.store.accountIDByNum[account.AccountNumber]; taken {
		return domain.Account{}, domain.ErrDuplicateIdentifier
	}

	now := time.Now().UTC()
	account.ID = newID()
	account.CreatedAt = now
	account.UpdatedAt = now

	r.store.accounts[account.ID] = &accountRecord{
		account: account,
		lock:    make(chan struct{}, 1),
	}
	r.store.accountIDByNum[account.AccountNumber] = account.ID

	return account, nil
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.currentLocked(id)
}

func (r *AccountRepository) GetByAccountNumber(ctx context.Context, accountNumber string) (domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, ok := r.store.accountIDByNum[accountNumber]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}

	return r.currentLocked(id)
}

func (r *AccountRepository) ExistsByNumber(ctx context.Context, accountNumber string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	_, taken := r.store.accountIDByNum[accountNumber]
	return taken, nil
}

func (r *AccountRepository) ListByUser(ctx context.Context, userID string) ([]domain.Account, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var accounts []domain.Account
	for _, record := range r.store.accounts {
		if record.account.UserID == userID {
			accounts = append(accounts, record.account)
		}
	}

	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})

	return accounts, nil
}

// GetForUpdate acquires the account's exclusive lock for the rest of the
// unit of work, blocking up to the store's lock timeout, then returns the
// authoritative state of the row.
func (r *AccountRepository) GetForUpdate(ctx context.Context, id string) (domain.Account, error) {
	if r.unit == nil {
		return domain.Account{}, errOutsideUnitOfWork
	}

	if _, err := r.unit.lockAccount(ctx, id); err != nil {
		return domain.Account{}, err
	}

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return r.currentLocked(id)
}

func (r *AccountRepository) SaveBalance(ctx context.Context, account domain.Account) error {
	if r.unit == nil {
		return errOutsideUnitOfWork
	}
	if _, held := r.unit.heldByID[account.ID]; !held {
		return errOutsideUnitOfWork
	}

	if r.unit.stagedAccounts == nil {
		r.unit.stagedAccounts = make(map[string]domain.Account)
	}
	r.unit.stagedAccounts[account.ID] = account

	return nil
}

func (r *AccountRepository) UpdateStatus(ctx context.Context, id string, status domain.AccountStatus) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	record, ok := r.store.accounts[id]
	if !ok {
		return domain.ErrAccountNotFound
	}

	record.account.Status = status
	record.account.UpdatedAt = time.Now().UTC()

	return nil
}

// currentLocked resolves the account's visible state for this repository:
// staged writes from the owning unit of work shadow the committed row.
// Callers hold store.mu.
func (r *AccountRepository) currentLocked(id string) (domain.Account, error) {
	if r.unit != nil && r.unit.stagedAccounts != nil {
		if staged, ok := r.unit.stagedAccounts[id]; ok {
			return staged, nil
		}
	}

	record, ok := r.store.accounts[id]
	if !ok {
		return domain.Account{}, domain.ErrRecordNotFound
	}

	return record.account, nil
}
