package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/uuid/v5"

	"github.com/MrSnakeDoc/jump-spaces/internal/auth/passhash"
	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

// MinPasswordLen is the shortest accepted password.
const MinPasswordLen = 6

var (
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_]{3,20}$`)
	emailRe    = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// SignupInput carries a new account's fields.
type SignupInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ProfileUpdate changes profile fields; nil retains the current value.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

// Session is the result of a successful signup or login.
type Session struct {
	Token Token   `json:"token"`
	User  Profile `json:"user"`
}

// Service implements the account operations.
type Service struct {
	users   UserRepository
	tokens  *TokenManager
	revoker Revoker
	now     func() time.Time
}

// NewService wires a Service.
func NewService(users UserRepository, tokens *TokenManager, revoker Revoker) *Service {
	return &Service{
		users:   users,
		tokens:  tokens,
		revoker: revoker,
		now:     func() time.Time { return domain.Timestamp(time.Now()) },
	}
}

// Signup creates an account and opens a session for it.
func (s *Service) Signup(ctx context.Context, in SignupInput) (Session, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return Session{}, errs.Invalid("name", "is required")
	}
	username, err := normalizeUsername(in.Username)
	if err != nil {
		return Session{}, err
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return Session{}, err
	}
	if len(in.Password) < MinPasswordLen {
		return Session{}, errs.Invalidf("password", "must be at least %d characters", MinPasswordLen)
	}

	uid, err := uuid.NewV4()
	if err != nil {
		return Session{}, err
	}
	hash, salt, err := passhash.New(in.Password)
	if err != nil {
		return Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		ID:           uid.String(),
		Email:        email,
		Name:         name,
		Username:     username,
		PasswordHash: hash,
		PasswordSalt: salt,
		CreatedAt:    s.now(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		return Session{}, err
	}
	return s.open(*u)
}

// Login verifies credentials. Unknown emails and wrong passwords both return errs.ErrUnauthorized.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return Session{}, errs.ErrUnauthorized
		}
		return Session{}, err
	}
	if !passhash.VerifyPassword([]byte(password), u.PasswordSalt, u.PasswordHash) {
		return Session{}, errs.ErrUnauthorized
	}
	return s.open(*u)
}

// Logout revokes the session's token.
func (s *Service) Logout(ctx context.Context, p Principal) error {
	return s.revoker.Revoke(ctx, p.TokenID, p.ExpiresAt)
}

// Authenticate restores a session from a raw access token.
func (s *Service) Authenticate(ctx context.Context, raw string) (Principal, error) {
	p, err := s.tokens.Parse(raw)
	if err != nil {
		return Principal{}, err
	}
	revoked, err := s.revoker.IsRevoked(ctx, p.TokenID)
	if err != nil {
		return Principal{}, err
	}
	if revoked {
		return Principal{}, fmt.Errorf("%w: session ended", errs.ErrUnauthorized)
	}
	return p, nil
}

// Me returns the caller's profile.
func (s *Service) Me(ctx context.Context, userID string) (Profile, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	return u.Profile(), nil
}

// UpdateProfile applies upd to the caller's account.
func (s *Service) UpdateProfile(ctx context.Context, userID string, upd ProfileUpdate) (Profile, error) {
	u, err := s.user(ctx, userID)
	if err != nil {
		return Profile{}, err
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return Profile{}, errs.Invalid("name", "is required")
		}
		u.Name = name
	}
	if upd.Username != nil {
		if u.Username, err = normalizeUsername(*upd.Username); err != nil {
			return Profile{}, err
		}
	}
	if upd.Email != nil {
		if u.Email, err = normalizeEmail(*upd.Email); err != nil {
			return Profile{}, err
		}
	}
	if err := s.users.Update(ctx, u); err != nil {
		return Profile{}, err
	}
	return u.Profile(), nil
}

// ChangePassword replaces the password after checking the current one.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) error {
	u, err := s.user(ctx, userID)
	if err != nil {
		return err
	}
	if !passhash.VerifyPassword([]byte(current), u.PasswordSalt, u.PasswordHash) {
		return errs.Invalid("currentPassword", "is incorrect")
	}
	if len(next) < MinPasswordLen {
		return errs.Invalidf("newPassword", "must be at least %d characters", MinPasswordLen)
	}
	if u.PasswordHash, u.PasswordSalt, err = passhash.New(next); err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.users.Update(ctx, u)
}

// LookupUsername resolves a public username to its user id.
func (s *Service) LookupUsername(ctx context.Context, username string) (string, error) {
	u, err := s.users.GetByUsername(ctx, strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return "", errs.NotFound("user", username)
		}
		return "", err
	}
	return u.ID, nil
}

func (s *Service) user(ctx context.Context, userID string) (*User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.NotFound("user", userID)
		}
		return nil, err
	}
	return u, nil
}

func (s *Service) open(u User) (Session, error) {
	tok, err := s.tokens.Issue(u)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: tok, User: u.Profile()}, nil
}

func normalizeUsername(raw string) (string, error) {
	v := strings.TrimSpace(raw)
	if !usernameRe.MatchString(v) {
		return "", errs.Invalid("username", "must be 3-20 letters, digits or underscores")
	}
	return strings.ToLower(v), nil
}

func normalizeEmail(raw string) (string, error) {
	v := strings.ToLower(strings.TrimSpace(raw))
	if !emailRe.MatchString(v) {
		return "", errs.Invalid("email", "is not a valid address")
	}
	return v, nil
}
