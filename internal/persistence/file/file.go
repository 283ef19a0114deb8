// Package file stores one JSON snapshot file per user under a data directory.
package file

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/codec"
	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence"
)

const fileExt = ".json"

// envelope is the on-disk format of one user's file.
type envelope struct {
	UserID   string          `json:"userId"`
	SavedAt  time.Time       `json:"savedAt"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// Store persists snapshots as files. Writes go through a temp file and a rename.
type Store struct {
	mu  sync.RWMutex
	dir string
	ttl time.Duration
	now func() time.Time
}

// New creates the data directory if needed and returns a store rooted at it.
func New(dir string, ttl time.Duration) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the store's clock.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

// path maps a user id to a file name that is safe on every filesystem.
func (s *Store) path(userID string) string {
	sum := sha256.Sum256([]byte(userID))
	return filepath.Join(s.dir, hex.EncodeToString(sum[:])+fileExt)
}

func (s *Store) Load(_ context.Context, userID string) (domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	env, err := readEnvelope(s.path(userID))
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Snapshot{}, errs.NotFound("snapshot", userID)
	}
	if err != nil {
		return domain.Snapshot{}, err
	}
	if persistence.Expired(env.SavedAt, s.ttl, s.now()) {
		return domain.Snapshot{}, errs.NotFound("snapshot", userID)
	}

	snap, err := codec.DecodeSnapshot(env.Snapshot)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to decode snapshot of %s: %w", userID, err)
	}
	return snap, nil
}

func (s *Store) Save(_ context.Context, userID string, snap domain.Snapshot) error {
	body, err := codec.EncodeSnapshot(persistence.Normalize(snap))
	if err != nil {
		return err
	}
	data, err := json.Marshal(envelope{UserID: userID, SavedAt: s.now().UTC(), Snapshot: body})
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return writeAtomic(s.dir, s.path(userID), data)
}

func (s *Store) Delete(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path(userID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Users lists the owners of live snapshot files, sorted.
func (s *Store) Users(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	now := s.now()
	var users []string
	err := s.walk(func(_ string, env envelope) error {
		if !persistence.Expired(env.SavedAt, s.ttl, now) {
			users = append(users, env.UserID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(users)
	return users, nil
}

// Purge removes expired snapshot files.
func (s *Store) Purge(_ context.Context, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	err := s.walk(func(path string, env envelope) error {
		if !persistence.Expired(env.SavedAt, s.ttl, now) {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to purge %s: %w", path, err)
		}
		removed++
		return nil
	})
	return removed, err
}

// walk visits every snapshot file. Unreadable files are skipped.
func (s *Store) walk(visit func(path string, env envelope) error) error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to read data dir: %w", err)
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) || strings.HasPrefix(name, ".") {
			continue
		}
		path := filepath.Join(s.dir, name)
		env, err := readEnvelope(path)
		if err != nil {
			continue
		}
		if err := visit(path, env); err != nil {
			return err
		}
	}
	return nil
}

func readEnvelope(path string) (envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return envelope{}, err
	}
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("failed to unmarshal %s: %w", filepath.Base(path), err)
	}
	return env, nil
}

func writeAtomic(dir, path string, data []byte) error {
	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}
