package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/MrSnakeDoc/jump-spaces/internal/auth"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

const (
	qInsertUser = `
INSERT INTO users (id, email, username, name, password_hash, password_salt, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	qSelectUserByID       = `SELECT id, email, username, name, password_hash, password_salt, created_at FROM users WHERE id=$1`
	qSelectUserByEmail    = `SELECT id, email, username, name, password_hash, password_salt, created_at FROM users WHERE email=$1`
	qSelectUserByUsername = `SELECT id, email, username, name, password_hash, password_salt, created_at FROM users WHERE username=$1`

	qUpdateUser = `
UPDATE users
SET email=$2, username=$3, name=$4, password_hash=$5, password_salt=$6
WHERE id=$1`
)

// UserRepo implements auth.UserRepository using PostgreSQL.
type UserRepo struct{ db *DB }

var _ auth.UserRepository = (*UserRepo)(nil)

// NewUserRepo constructs a user repository.
func NewUserRepo(db *DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user row.
func (r *UserRepo) Create(ctx context.Context, u *auth.User) error {
	_, err := r.db.Pool.Exec(ctx, qInsertUser,
		u.ID, u.Email, u.Username, u.Name, u.PasswordHash, u.PasswordSalt, u.CreatedAt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepo) GetByID(ctx context.Context, id string) (*auth.User, error) {
	return r.get(ctx, qSelectUserByID, id)
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	return r.get(ctx, qSelectUserByEmail, email)
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*auth.User, error) {
	return r.get(ctx, qSelectUserByUsername, username)
}

// Update rewrites the mutable columns of a user.
func (r *UserRepo) Update(ctx context.Context, u *auth.User) error {
	tag, err := r.db.Pool.Exec(ctx, qUpdateUser,
		u.ID, u.Email, u.Username, u.Name, u.PasswordHash, u.PasswordSalt)
	if isUniqueViolation(err) {
		return errs.ErrAlreadyExists
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *UserRepo) get(ctx context.Context, q, arg string) (*auth.User, error) {
	var u auth.User
	err := r.db.Pool.QueryRow(ctx, q, arg).Scan(
		&u.ID, &u.Email, &u.Username, &u.Name, &u.PasswordHash, &u.PasswordSalt, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	u.CreatedAt = utc(u.CreatedAt)
	return &u, nil
}
