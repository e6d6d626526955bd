package postgres

import (
	"context"
	"time"

	"github.com/api-sage/core-banking-ledger/internal/domain"
)

const userColumns = `id, email, password_hash, first_name, last_name, is_admin, created_at, updated_at`

type UserRepository struct {
	q querier
}

func NewUserRepository(q querier) *UserRepository {
	return &UserRepository{q: q}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) (domain.User, error) {
	const query = `
INSERT INTO users (
	email,
	password_hash,
	first_name,
	last_name,
	is_admin
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
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		user.IsAdmin,
	).Scan(&id, &createdAt, &updatedAt); err != nil {
		return domain.User{}, wrapError("create user", err)
	}

	user.ID = id
	user.CreatedAt = createdAt
	user.UpdatedAt = updatedAt

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (domain.User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE id = $1`

	return r.scanUser(ctx, "get user by id", query, id)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	const query = `
SELECT ` + userColumns + `
FROM users
WHERE email = $1`

	return r.scanUser(ctx, "get user by email", query, email)
}

func (r *UserRepository) scanUser(ctx context.Context, op string, query string, arg any) (domain.User, error) {
	var user domain.User
	if err := r.q.QueryRowContext(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&user.IsAdmin,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return domain.User{}, wrapError(op, err)
	}

	return user, nil
}
