package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"

	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

// Issuer is the iss claim of every access token.
const Issuer = "jump"

// Claims are the access token claims.
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Token is a signed access token.
type Token struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
}

// TokenManager issues and verifies HS256 access tokens.
type TokenManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewTokenManager returns a manager signing with key. Tokens live for ttl.
func NewTokenManager(key []byte, ttl time.Duration) *TokenManager {
	return &TokenManager{key: key, ttl: ttl, now: time.Now}
}

// WithClock replaces the manager's clock.
func (m *TokenManager) WithClock(now func() time.Time) *TokenManager {
	m.now = now
	return m
}

// Issue creates a signed token for u with a fresh token id.
func (m *TokenManager) Issue(u User) (Token, error) {
	jti, err := uuid.NewV4()
	if err != nil {
		return Token{}, err
	}
	now := m.now()
	exp := now.Add(m.ttl)
	claims := Claims{
		Username: u.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti.String(),
			Issuer:    Issuer,
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return Token{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return Token{AccessToken: signed, ExpiresAt: exp.Truncate(time.Second)}, nil
}

// Parse verifies raw and returns its principal. Every failure wraps errs.ErrUnauthorized.
func (m *TokenManager) Parse(raw string) (Principal, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return m.key, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Principal{}, fmt.Errorf("%w: %v", errs.ErrUnauthorized, err)
	}
	if claims.Subject == "" || claims.ID == "" {
		return Principal{}, fmt.Errorf("%w: token without subject or id", errs.ErrUnauthorized)
	}
	return Principal{
		UserID:    claims.Subject,
		Username:  claims.Username,
		TokenID:   claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
