package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/jump-spaces/internal/codec"
	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence"
)

// Store keeps one JSON snapshot per user in Redis
// Expiry is delegated to Redis key TTLs
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a new Redis snapshot store (ttl 0 disables expiry)
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	return &Store{
		client: client,
		ttl:    ttl,
	}
}

// Load retrieves a user's snapshot
func (s *Store) Load(ctx context.Context, userID string) (domain.Snapshot, error) {
	data, err := s.client.Get(ctx, SnapshotKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Snapshot{}, errs.NotFound("snapshot", userID)
		}
		return domain.Snapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}

	snap, err := codec.DecodeSnapshot(data)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("failed to decode snapshot of %s: %w", userID, err)
	}
	return snap, nil
}

// Save stores a user's snapshot and refreshes its TTL
func (s *Store) Save(ctx context.Context, userID string, snap domain.Snapshot) error {
	data, err := codec.EncodeSnapshot(persistence.Normalize(snap))
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, SnapshotKey(userID), data, s.ttl)
		pipe.SAdd(ctx, AllSnapshotsKey(), userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Delete removes a user's snapshot
func (s *Store) Delete(ctx context.Context, userID string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, SnapshotKey(userID))
		pipe.SRem(ctx, AllSnapshotsKey(), userID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Users returns the users whose snapshot key is still live, sorted
func (s *Store) Users(ctx context.Context) ([]string, error) {
	live, _, err := s.partition(ctx)
	if err != nil {
		return nil, err
	}
	return live, nil
}

// Purge drops index entries whose snapshot key already expired
func (s *Store) Purge(ctx context.Context, _ time.Time) (int, error) {
	_, stale, err := s.partition(ctx)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	members := make([]any, len(stale))
	for i, id := range stale {
		members[i] = id
	}
	if err := s.client.SRem(ctx, AllSnapshotsKey(), members...).Err(); err != nil {
		return 0, fmt.Errorf("failed to purge snapshot index: %w", err)
	}
	return len(stale), nil
}

// partition splits the indexed users into those with a live key and stale ones.
func (s *Store) partition(ctx context.Context) (live, stale []string, err error) {
	ids, err := s.client.SMembers(ctx, AllSnapshotsKey()).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get snapshot owners: %w", err)
	}
	if len(ids) == 0 {
		return []string{}, nil, nil
	}

	pipe := s.client.Pipeline()
	checks := make([]*redis.IntCmd, len(ids))
	for i, id := range ids {
		checks[i] = pipe.Exists(ctx, SnapshotKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, nil, fmt.Errorf("failed to check snapshots: %w", err)
	}

	live = make([]string, 0, len(ids))
	for i, id := range ids {
		if checks[i].Val() > 0 {
			live = append(live, id)
		} else {
			stale = append(stale, id)
		}
	}
	sort.Strings(live)
	return live, stale, nil
}
