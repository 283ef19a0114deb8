package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence"
)

type entry struct {
	snapshot domain.Snapshot
	savedAt  time.Time
}

// Store keeps snapshots in process memory
// It is the default backend for development and tests
type Store struct {
	mu      sync.RWMutex
	entries map[string]entry // userID -> snapshot
	ttl     time.Duration
	now     func() time.Time
}

// New creates a memory store whose snapshots expire after ttl (0 disables expiry)
func New(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// WithClock replaces the store's clock
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// Load returns a copy of the user's snapshot
func (s *Store) Load(_ context.Context, userID string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[userID]
	if !ok || persistence.Expired(e.savedAt, s.ttl, s.now()) {
		return domain.Snapshot{}, errs.NotFound("snapshot", userID)
	}
	return domain.Snapshot{Spaces: e.snapshot.Spaces.Clone(), CurrentSpace: e.snapshot.CurrentSpace}, nil
}

// Save replaces the user's snapshot
func (s *Store) Save(_ context.Context, userID string, snap domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[userID] = entry{
		snapshot: persistence.Normalize(snap),
		savedAt:  s.now(),
	}
	return nil
}

// Delete removes the user's snapshot
func (s *Store) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, userID)
	return nil
}

// Users returns the ids of users with a live snapshot, sorted
func (s *Store) Users(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	users := make([]string, 0, len(s.entries))
	for id, e := range s.entries {
		if !persistence.Expired(e.savedAt, s.ttl, now) {
			users = append(users, id)
		}
	}
	sort.Strings(users)
	return users, nil
}

// Purge drops expired snapshots and returns how many were removed
func (s *Store) Purge(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if persistence.Expired(e.savedAt, s.ttl, now) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Count returns the number of stored snapshots, expired ones included
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.entries)
}
