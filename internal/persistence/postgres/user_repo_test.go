package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/jump-spaces/internal/auth"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

var userColumns = []string{"id", "email", "username", "name", "password_hash", "password_salt", "created_at"}

func sampleUser() *auth.User {
	return &auth.User{
		ID:           "u1",
		Email:        "alice@example.com",
		Username:     "alice",
		Name:         "Alice",
		PasswordHash: []byte("h"),
		PasswordSalt: []byte("s"),
		CreatedAt:    created,
	}
}

func TestUserRepo_Create_OK_and_UniqueViolation(t *testing.T) {
	db, mock := newDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()
	u := sampleUser()

	mock.ExpectExec(qInsertUser).
		WithArgs(u.ID, u.Email, u.Username, u.Name, u.PasswordHash, u.PasswordSalt, u.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	require.NoError(t, r.Create(ctx, u))

	mock.ExpectExec(qInsertUser).
		WithArgs(u.ID, u.Email, u.Username, u.Name, u.PasswordHash, u.PasswordSalt, u.CreatedAt).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Create(ctx, u), errs.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepo_Getters(t *testing.T) {
	tests := []struct {
		name  string
		query string
		arg   string
		call  func(r *UserRepo, arg string) (*auth.User, error)
	}{
		{name: "by id", query: qSelectUserByID, arg: "u1", call: func(r *UserRepo, a string) (*auth.User, error) {
			return r.GetByID(context.Background(), a)
		}},
		{name: "by email", query: qSelectUserByEmail, arg: "alice@example.com", call: func(r *UserRepo, a string) (*auth.User, error) {
			return r.GetByEmail(context.Background(), a)
		}},
		{name: "by username", query: qSelectUserByUsername, arg: "alice", call: func(r *UserRepo, a string) (*auth.User, error) {
			return r.GetByUsername(context.Background(), a)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newDB(t)
			r := NewUserRepo(db)
			want := sampleUser()

			mock.ExpectQuery(tt.query).
				WithArgs(tt.arg).
				WillReturnRows(pgxmock.NewRows(userColumns).
					AddRow(want.ID, want.Email, want.Username, want.Name, want.PasswordHash, want.PasswordSalt, want.CreatedAt))
			got, err := tt.call(r, tt.arg)
			require.NoError(t, err)
			require.Equal(t, want, got)

			mock.ExpectQuery(tt.query).WithArgs(tt.arg).WillReturnError(pgx.ErrNoRows)
			_, err = tt.call(r, tt.arg)
			require.ErrorIs(t, err, errs.ErrNotFound)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestUserRepo_Update(t *testing.T) {
	db, mock := newDB(t)
	r := NewUserRepo(db)
	ctx := context.Background()
	u := sampleUser()

	mock.ExpectExec(qUpdateUser).
		WithArgs(u.ID, u.Email, u.Username, u.Name, u.PasswordHash, u.PasswordSalt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	require.NoError(t, r.Update(ctx, u))

	mock.ExpectExec(qUpdateUser).
		WithArgs(u.ID, u.Email, u.Username, u.Name, u.PasswordHash, u.PasswordSalt).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	require.ErrorIs(t, r.Update(ctx, u), errs.ErrNotFound)

	mock.ExpectExec(qUpdateUser).
		WithArgs(u.ID, u.Email, u.Username, u.Name, u.PasswordHash, u.PasswordSalt).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	require.ErrorIs(t, r.Update(ctx, u), errs.ErrAlreadyExists)
	require.NoError(t, mock.ExpectationsWereMet())
}
