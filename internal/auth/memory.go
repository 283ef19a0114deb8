package auth

import (
	"context"
	"sync"

	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

// MemoryUsers is an in-process UserRepository.
type MemoryUsers struct {
	mu    sync.RWMutex
	byID  map[string]*User
	email map[string]string // email -> id
	uname map[string]string // username -> id
}

var _ UserRepository = (*MemoryUsers)(nil)

// NewMemoryUsers returns an empty repository.
func NewMemoryUsers() *MemoryUsers {
	return &MemoryUsers{
		byID:  make(map[string]*User),
		email: make(map[string]string),
		uname: make(map[string]string),
	}
}

func (m *MemoryUsers) Create(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.byID[u.ID]; ok {
		return errs.ErrAlreadyExists
	}
	if _, ok := m.email[u.Email]; ok {
		return errs.ErrAlreadyExists
	}
	if _, ok := m.uname[u.Username]; ok {
		return errs.ErrAlreadyExists
	}
	cpy := *u
	m.byID[u.ID] = &cpy
	m.email[u.Email] = u.ID
	m.uname[u.Username] = u.ID
	return nil
}

func (m *MemoryUsers) GetByID(_ context.Context, id string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(id)
}

func (m *MemoryUsers) GetByEmail(_ context.Context, email string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(m.email[email])
}

func (m *MemoryUsers) GetByUsername(_ context.Context, username string) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.get(m.uname[username])
}

func (m *MemoryUsers) Update(_ context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	cur, ok := m.byID[u.ID]
	if !ok {
		return errs.ErrNotFound
	}
	if id, ok := m.email[u.Email]; ok && id != u.ID {
		return errs.ErrAlreadyExists
	}
	if id, ok := m.uname[u.Username]; ok && id != u.ID {
		return errs.ErrAlreadyExists
	}

	delete(m.email, cur.Email)
	delete(m.uname, cur.Username)
	cpy := *u
	cpy.CreatedAt = cur.CreatedAt
	m.byID[u.ID] = &cpy
	m.email[u.Email] = u.ID
	m.uname[u.Username] = u.ID
	return nil
}

// get must be called with mu held.
func (m *MemoryUsers) get(id string) (*User, error) {
	u, ok := m.byID[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cpy := *u
	return &cpy, nil
}
