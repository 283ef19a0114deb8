package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

var testKey = []byte("test-signing-key")

func newService(t *testing.T) (*Service, *MemoryUsers) {
	t.Helper()
	users := NewMemoryUsers()
	return NewService(users, NewTokenManager(testKey, time.Hour), NewMemoryRevoker()), users
}

func signup(t *testing.T, s *Service) Session {
	t.Helper()
	sess, err := s.Signup(context.Background(), SignupInput{
		Name:     "Alice",
		Username: "Alice_01",
		Email:    " Alice@Example.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	return sess
}

func TestSignup_NormalizesAndOpensSession(t *testing.T) {
	s, users := newService(t)
	sess := signup(t, s)

	require.Equal(t, "alice_01", sess.User.Username)
	require.Equal(t, "alice@example.com", sess.User.Email)
	require.NotEmpty(t, sess.Token.AccessToken)

	stored, err := users.GetByID(context.Background(), sess.User.ID)
	require.NoError(t, err)
	require.NotEqual(t, []byte("secret1"), stored.PasswordHash)

	p, err := s.Authenticate(context.Background(), sess.Token.AccessToken)
	require.NoError(t, err)
	require.Equal(t, sess.User.ID, p.UserID)
	require.Equal(t, "alice_01", p.Username)
}

func TestSignup_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    SignupInput
		field string
	}{
		{name: "missing name", in: SignupInput{Name: " ", Username: "bob", Email: "b@x.io", Password: "secret1"}, field: "name"},
		{name: "short username", in: SignupInput{Name: "Bob", Username: "bo", Email: "b@x.io", Password: "secret1"}, field: "username"},
		{name: "username symbols", in: SignupInput{Name: "Bob", Username: "bob-smith", Email: "b@x.io", Password: "secret1"}, field: "username"},
		{name: "bad email", in: SignupInput{Name: "Bob", Username: "bob", Email: "bob@x", Password: "secret1"}, field: "email"},
		{name: "short password", in: SignupInput{Name: "Bob", Username: "bob", Email: "b@x.io", Password: "12345"}, field: "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newService(t)
			_, err := s.Signup(context.Background(), tt.in)
			var ve *errs.ValidationError
			require.True(t, errors.As(err, &ve), "got %v", err)
			require.Equal(t, tt.field, ve.Field)
		})
	}
}

func TestSignup_Duplicates(t *testing.T) {
	s, _ := newService(t)
	signup(t, s)

	_, err := s.Signup(context.Background(), SignupInput{Name: "A", Username: "other", Email: "alice@example.com", Password: "secret1"})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	_, err = s.Signup(context.Background(), SignupInput{Name: "A", Username: "ALICE_01", Email: "new@example.com", Password: "secret1"})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestLogin(t *testing.T) {
	s, _ := newService(t)
	sess := signup(t, s)
	ctx := context.Background()

	got, err := s.Login(ctx, "ALICE@example.com", "secret1")
	require.NoError(t, err)
	require.Equal(t, sess.User.ID, got.User.ID)

	_, err = s.Login(ctx, "alice@example.com", "wrong!")
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = s.Login(ctx, "nobody@example.com", "secret1")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestLogout_RevokesToken(t *testing.T) {
	s, _ := newService(t)
	sess := signup(t, s)
	ctx := context.Background()

	p, err := s.Authenticate(ctx, sess.Token.AccessToken)
	require.NoError(t, err)
	require.NoError(t, s.Logout(ctx, p))

	_, err = s.Authenticate(ctx, sess.Token.AccessToken)
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestUpdateProfile(t *testing.T) {
	s, _ := newService(t)
	sess := signup(t, s)
	ctx := context.Background()

	name, email := " Alicia ", "alicia@example.com"
	prof, err := s.UpdateProfile(ctx, sess.User.ID, ProfileUpdate{Name: &name, Email: &email})
	require.NoError(t, err)
	require.Equal(t, "Alicia", prof.Name)
	require.Equal(t, "alicia@example.com", prof.Email)
	require.Equal(t, "alice_01", prof.Username)

	_, err = s.Login(ctx, "alicia@example.com", "secret1")
	require.NoError(t, err)

	bad := "x"
	_, err = s.UpdateProfile(ctx, sess.User.ID, ProfileUpdate{Username: &bad})
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = s.UpdateProfile(ctx, "missing", ProfileUpdate{Name: &name})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUpdateProfile_UsernameTaken(t *testing.T) {
	s, _ := newService(t)
	sess := signup(t, s)
	ctx := context.Background()

	_, err := s.Signup(ctx, SignupInput{Name: "Bob", Username: "bob", Email: "bob@example.com", Password: "secret1"})
	require.NoError(t, err)

	taken := "Bob"
	_, err = s.UpdateProfile(ctx, sess.User.ID, ProfileUpdate{Username: &taken})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)
}

func TestChangePassword(t *testing.T) {
	s, _ := newService(t)
	sess := signup(t, s)
	ctx := context.Background()

	err := s.ChangePassword(ctx, sess.User.ID, "wrong!", "newsecret")
	require.ErrorIs(t, err, errs.ErrValidation)

	err = s.ChangePassword(ctx, sess.User.ID, "secret1", "123")
	require.ErrorIs(t, err, errs.ErrValidation)

	require.NoError(t, s.ChangePassword(ctx, sess.User.ID, "secret1", "newsecret"))

	_, err = s.Login(ctx, "alice@example.com", "secret1")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	_, err = s.Login(ctx, "alice@example.com", "newsecret")
	require.NoError(t, err)
}

func TestLookupUsername(t *testing.T) {
	s, _ := newService(t)
	sess := signup(t, s)

	id, err := s.LookupUsername(context.Background(), "ALICE_01")
	require.NoError(t, err)
	require.Equal(t, sess.User.ID, id)

	_, err = s.LookupUsername(context.Background(), "ghost")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestTokenManager_Rejects(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	tm := NewTokenManager(testKey, time.Minute).WithClock(func() time.Time { return now })
	tok, err := tm.Issue(User{ID: "u1", Username: "alice"})
	require.NoError(t, err)

	_, err = tm.Parse(tok.AccessToken)
	require.NoError(t, err)

	other := NewTokenManager([]byte("other-key"), time.Minute).WithClock(func() time.Time { return now })
	_, err = other.Parse(tok.AccessToken)
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	later := NewTokenManager(testKey, time.Minute).WithClock(func() time.Time { return now.Add(2 * time.Minute) })
	_, err = later.Parse(tok.AccessToken)
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = tm.Parse("not-a-token")
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestPrincipalContext(t *testing.T) {
	_, ok := PrincipalFrom(context.Background())
	require.False(t, ok)

	ctx := WithPrincipal(context.Background(), Principal{UserID: "u1"})
	p, ok := PrincipalFrom(ctx)
	require.True(t, ok)
	require.Equal(t, "u1", p.UserID)
}

func TestMemoryRevoker_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewMemoryRevoker()
	r.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "t1", now.Add(time.Minute)))
	require.NoError(t, r.Revoke(ctx, "t2", now.Add(-time.Minute)))

	ok, _ := r.IsRevoked(ctx, "t1")
	require.True(t, ok)
	ok, _ = r.IsRevoked(ctx, "t2")
	require.False(t, ok)

	now = now.Add(2 * time.Minute)
	ok, _ = r.IsRevoked(ctx, "t1")
	require.False(t, ok)
}

func TestRedisRevoker(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	r := NewRedisRevoker(client)
	ctx := context.Background()

	require.NoError(t, r.Revoke(ctx, "t1", time.Now().Add(time.Minute)))
	ok, err := r.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Greater(t, mr.TTL(KeyPrefixRevoked+"t1"), time.Duration(0))

	mr.FastForward(2 * time.Minute)
	ok, err = r.IsRevoked(ctx, "t1")
	require.NoError(t, err)
	require.False(t, ok)

	require.NoError(t, r.Revoke(ctx, "old", time.Now().Add(-time.Second)))
	require.False(t, mr.Exists(KeyPrefixRevoked+"old"))
}
