package memory

import (
	"context"
	"sync"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/adapter/repository/repo_interfaces"
	"github.com/api-sage/core-banking-ledger/internal/domain"
	"github.com/google/uuid"
)

// Store keeps the whole ledger in process memory while honoring the same
// discipline as the postgres adapter: per-account exclusive locks held for
// the life of a unit of work, writes staged until commit, reference and
// account-number uniqueness enforced at insert. Service tests run against it
// to exercise the engine's concurrency behavior without a database.
type Store struct {
	mu          sync.Mutex
	lockTimeout time.Duration

	accounts       map[string]*accountRecord
	accountIDByNum map[string]string
	transactions   map[string]domain.Transaction
	txnIDByRef     map[string]string
	users          map[string]domain.User
	userIDByEmail  map[string]string
}

type accountRecord struct {
	account domain.Account
	lock    chan struct{} // capacity 1; full while a unit of work holds the row
}

func NewStore(lockTimeout time.Duration) *Store {
	return &Store{
		lockTimeout:    lockTimeout,
		accounts:       make(map[string]*accountRecord),
		accountIDByNum: make(map[string]string),
		transactions:   make(map[string]domain.Transaction),
		txnIDByRef:     make(map[string]string),
		users:          make(map[string]domain.User),
		userIDByEmail:  make(map[string]string),
	}
}

// Do runs fn as one atomic unit. Locks acquired through GetForUpdate stay
// held until fn returns; staged writes become visible only when fn succeeds.
func (s *Store) Do(ctx context.Context, fn func(uow repo_interfaces.UnitOfWork) error) error {
	u := &unitOfWork{store: s}
	defer u.releaseLocks()

	if err := fn(u); err != nil {
		return err
	}

	u.commit()
	return nil
}

func (s *Store) Accounts() repo_interfaces.AccountRepository {
	return &AccountRepository{store: s}
}

func (s *Store) Transactions() repo_interfaces.TransactionRepository {
	return &TransactionRepository{store: s}
}

func (s *Store) Users() repo_interfaces.UserRepository {
	return &UserRepository{store: s}
}

// unitOfWork stages mutations for a single Do invocation.
type unitOfWork struct {
	store *Store

	held           []*accountRecord
	heldByID       map[string]*accountRecord
	stagedAccounts map[string]domain.Account
	stagedTxns     []domain.Transaction
	stagedStatuses map[string]domain.TransactionStatus
}

func (u *unitOfWork) Do(ctx context.Context, fn func(uow repo_interfaces.UnitOfWork) error) error {
	// Units of work do not nest; run in the current one.
	return fn(u)
}

func (u *unitOfWork) Accounts() repo_interfaces.AccountRepository {
	return &AccountRepository{store: u.store, unit: u}
}

func (u *unitOfWork) Transactions() repo_interfaces.TransactionRepository {
	return &TransactionRepository{store: u.store, unit: u}
}

func (u *unitOfWork) lockAccount(ctx context.Context, id string) (*accountRecord, error) {
	u.store.mu.Lock()
	record, ok := u.store.accounts[id]
	u.store.mu.Unlock()
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	if u.heldByID != nil {
		if held, ok := u.heldByID[id]; ok {
			return held, nil
		}
	}

	timeout := u.store.lockTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case record.lock <- struct{}{}:
	case <-timer.C:
		return nil, domain.ErrLockTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if u.heldByID == nil {
		u.heldByID = make(map[string]*accountRecord)
	}
	u.held = append(u.held, record)
	u.heldByID[id] = record

	return record, nil
}

func (u *unitOfWork) releaseLocks() {
	for _, record := range u.held {
		<-record.lock
	}
	u.held = nil
	u.heldByID = nil
}

func (u *unitOfWork) commit() {
	u.store.mu.Lock()
	defer u.store.mu.Unlock()

	now := time.Now().UTC()

	for id, account := range u.stagedAccounts {
		record := u.store.accounts[id]
		account.UpdatedAt = now
		record.account = account
	}

	for _, txn := range u.stagedTxns {
		u.store.transactions[txn.ID] = txn
		u.store.txnIDByRef[txn.ReferenceNumber] = txn.ID
	}

	for id, status := range u.stagedStatuses {
		txn := u.store.transactions[id]
		txn.Status = status
		txn.UpdatedAt = now
		u.store.transactions[id] = txn
	}
}

func newID() string {
	return uuid.NewString()
}
