// Package auth implements accounts and sessions: signup, login, logout,
// session restore and profile updates.
package auth

import (
	"context"
	"time"
)

// User is a stored account.
type User struct {
	ID           string
	Email        string // lower-cased, unique
	Name         string
	Username     string // lower-cased, unique, used by public profile URLs
	PasswordHash []byte
	PasswordSalt []byte
	CreatedAt    time.Time
}

// Profile is the part of a User that may leave the server.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// Profile returns the public projection of u.
func (u User) Profile() Profile {
	return Profile{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
	}
}

// UserRepository provides access to stored accounts.
type UserRepository interface {
	// Create inserts a new user. It fails with errs.ErrAlreadyExists when the
	// email or username is taken.
	Create(ctx context.Context, u *User) error
	// GetByID loads a user by id (errs.ErrNotFound when missing).
	GetByID(ctx context.Context, id string) (*User, error)
	// GetByEmail loads a user by lower-cased email.
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByUsername loads a user by lower-cased username.
	GetByUsername(ctx context.Context, username string) (*User, error)
	// Update replaces the mutable fields of an existing user.
	Update(ctx context.Context, u *User) error
}

type ctxKey string

const principalKey ctxKey = "jump.principal"

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    string
	Username  string
	TokenID   string
	ExpiresAt time.Time
}

// WithPrincipal stores the authenticated caller in ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// PrincipalFrom fetches the authenticated caller from ctx.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey).(Principal)
	return p, ok
}
