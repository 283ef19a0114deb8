package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence"
)

// SnapshotSource lists users and loads their stored snapshots.
type SnapshotSource interface {
	persistence.Lister
	Load(ctx context.Context, userID string) (domain.Snapshot, error)
}

// ShareIndex is rebuilt wholesale from stored snapshots.
type ShareIndex interface {
	Replace(all map[string][]string) (conflicts int)
}

// ShareSyncer rebuilds the share index from every stored snapshot, so links
// to collections of users not yet seen by this process resolve.
type ShareSyncer struct {
	source   SnapshotSource
	index    ShareIndex
	publicOf func(domain.Graph) []string
	logger   logger.Logger
	interval time.Duration
	stopCh   chan struct{}
}

// NewShareSyncer creates a syncer. publicOf lists the public collection ids of a graph.
func NewShareSyncer(
	source SnapshotSource,
	idx ShareIndex,
	publicOf func(domain.Graph) []string,
	log logger.Logger,
	interval time.Duration,
) *ShareSyncer {
	return &ShareSyncer{
		source:   source,
		index:    idx,
		publicOf: publicOf,
		logger:   log.Named("share-sync"),
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start syncs once, then every interval when interval is positive.
func (s *ShareSyncer) Start(ctx context.Context) error {
	if err := s.Sync(ctx); err != nil {
		return fmt.Errorf("initial share sync failed: %w", err)
	}
	if s.interval <= 0 {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := s.Sync(ctx); err != nil {
					s.logger.Error("failed to sync share index", logger.Error(err))
				}
			case <-s.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// Stop stops the syncer
func (s *ShareSyncer) Stop() {
	close(s.stopCh)
}

// Sync loads every stored snapshot and replaces the index with their public collections.
// Users whose snapshot fails to load are skipped and logged.
func (s *ShareSyncer) Sync(ctx context.Context) error {
	users, err := s.source.Users(ctx)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	all := make(map[string][]string, len(users))
	shared := 0
	for _, userID := range users {
		snap, err := s.source.Load(ctx, userID)
		if err != nil {
			if !errors.Is(err, errs.ErrNotFound) {
				s.logger.Warn("failed to load snapshot",
					logger.String("user", userID),
					logger.Error(err))
			}
			continue
		}
		if ids := s.publicOf(snap.Spaces); len(ids) > 0 {
			all[userID] = ids
			shared += len(ids)
		}
	}

	conflicts := s.index.Replace(all)
	if conflicts > 0 {
		s.logger.Warn("public collection ids shared by more than one user",
			logger.Int("skipped", conflicts))
	}
	s.logger.Info("synced share index",
		logger.Int("users", len(users)),
		logger.Int("public_collections", shared-conflicts))
	return nil
}
