package memory

import (
	"context"
	"strings"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/domain"
)

type UserRepository struct {
	store *Store
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, taken := r.store.userIDByEmail[email]; taken {
		return domain.User{}, domain.ErrDuplicateIdentifier
	}

	now := time.Now().UTC()
	user.ID = newID()
	user.CreatedAt = now
	user.UpdatedAt = now

	r.store.users[user.ID] = user
	r.store.userIDByEmail[email] = user.ID

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	user, ok := r.store.users[id]
	if !ok {
		return domain.User{}, domain.ErrRecordNotFound
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	id, ok := r.store.userIDByEmail[strings.ToLower(email)]
	if !ok {
		return domain.User{}, domain.ErrRecordNotFound
	}

	return r.store.users[id], nil
}
