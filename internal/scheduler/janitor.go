package scheduler

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence"
)

const (
	// DefaultJanitorInterval is how often expired snapshots and idle workspaces are swept.
	DefaultJanitorInterval = time.Hour
	// DefaultIdleTimeout is how long a cached workspace may stay untouched.
	DefaultIdleTimeout = 30 * time.Minute
)

// Evictor drops cached per-user state.
type Evictor interface {
	EvictIdle(now time.Time, idle time.Duration) int
}

// SnapshotJanitor removes expired snapshots from stores that keep them and
// evicts idle workspaces from memory.
type SnapshotJanitor struct {
	purger   persistence.Purger // nil when the store expires entries itself
	evictor  Evictor
	logger   logger.Logger
	interval time.Duration
	idle     time.Duration
	now      func() time.Time
	stopCh   chan struct{}
}

// NewSnapshotJanitor creates a janitor. purger and evictor may each be nil.
func NewSnapshotJanitor(
	purger persistence.Purger,
	evictor Evictor,
	log logger.Logger,
	interval time.Duration,
	idle time.Duration,
) *SnapshotJanitor {
	if interval <= 0 {
		interval = DefaultJanitorInterval
	}
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &SnapshotJanitor{
		purger:   purger,
		evictor:  evictor,
		logger:   log.Named("janitor"),
		interval: interval,
		idle:     idle,
		now:      time.Now,
		stopCh:   make(chan struct{}),
	}
}

// Start runs one sweep, then sweeps every interval until Stop or ctx is done.
func (j *SnapshotJanitor) Start(ctx context.Context) {
	j.Sweep(ctx)

	ticker := time.NewTicker(j.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				j.Sweep(ctx)
			case <-j.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop stops the janitor
func (j *SnapshotJanitor) Stop() {
	close(j.stopCh)
}

// Sweep runs one pass and reports what it removed.
func (j *SnapshotJanitor) Sweep(ctx context.Context) (purged, evicted int) {
	now := j.now()

	if j.purger != nil {
		n, err := j.purger.Purge(ctx, now)
		if err != nil {
			j.logger.Error("failed to purge expired snapshots", logger.Error(err))
		}
		purged = n
	}
	if j.evictor != nil {
		evicted = j.evictor.EvictIdle(now, j.idle)
	}

	if purged > 0 || evicted > 0 {
		j.logger.Info("sweep completed",
			logger.Int("snapshots_purged", purged),
			logger.Int("workspaces_evicted", evicted))
	} else {
		j.logger.Debug("nothing to sweep")
	}
	return purged, evicted
}
