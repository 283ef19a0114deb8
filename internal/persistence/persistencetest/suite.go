// Package persistencetest holds the behavior every persistence.Store must share.
package persistencetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/engine"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/ids"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence"
)

// Epoch is the starting time of every Clock.
var Epoch = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

// Clock is a manual clock for stores that take one.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

// NewClock returns a clock set to Epoch.
func NewClock() *Clock { return &Clock{now: Epoch} }

// Now returns the current fake time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Harness is one fresh store under test.
type Harness struct {
	Store persistence.Store
	// Now reports the store's notion of the current time.
	Now func() time.Time
	// Advance moves the store's time forward.
	Advance func(time.Duration)
}

// Factory builds a fresh store whose snapshots expire after ttl.
type Factory func(t *testing.T, ttl time.Duration) Harness

// SampleSnapshot returns a small valid snapshot with two spaces.
func SampleSnapshot(t *testing.T, prefix string) domain.Snapshot {
	t.Helper()
	e := engine.New(ids.NewSequence(prefix), func() time.Time { return Epoch })

	g, _ := e.EnsureDefault(nil)
	g, work, err := e.CreateSpace(g, "Work")
	require.NoError(t, err)
	g, col, err := e.CreateCollection(g, work.ID, domain.CollectionFields{Name: "Tools", Width: 2, IsPublic: true})
	require.NoError(t, err)
	g, _, err = e.CreateBookmark(g, work.ID, col.ID, domain.BookmarkFields{
		URL: "https://grafana.example/d/1", Tags: []string{"ops", "metrics"},
	})
	require.NoError(t, err)

	return domain.Snapshot{Spaces: g, CurrentSpace: work.ID}
}

// Run exercises the shared Store contract, plus Lister and Purger when implemented.
func Run(t *testing.T, newStore Factory) {
	ctx := context.Background()
	const ttl = time.Hour

	t.Run("load missing", func(t *testing.T) {
		h := newStore(t, ttl)
		_, err := h.Store.Load(ctx, "nobody")
		require.True(t, errors.Is(err, errs.ErrNotFound), "got %v", err)
	})

	t.Run("save then load", func(t *testing.T) {
		h := newStore(t, ttl)
		want := SampleSnapshot(t, "a")
		require.NoError(t, h.Store.Save(ctx, "alice", want))

		got, err := h.Store.Load(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, want, got)
	})

	t.Run("timestamps keep microseconds", func(t *testing.T) {
		h := newStore(t, ttl)
		snap := SampleSnapshot(t, "a")
		snap.Spaces[1].CreatedAt = Epoch.Add(123456789 * time.Nanosecond)
		snap.Spaces[1].Collections[0].CreatedAt = Epoch.Add(999 * time.Nanosecond)
		snap.Spaces[1].Collections[0].Bookmarks[0].CreatedAt = Epoch.Add(time.Second + 1500*time.Nanosecond)
		require.NoError(t, h.Store.Save(ctx, "alice", snap))

		got, err := h.Store.Load(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, Epoch.Add(123456*time.Microsecond), got.Spaces[1].CreatedAt)
		require.Equal(t, Epoch, got.Spaces[1].Collections[0].CreatedAt)
		require.Equal(t, Epoch.Add(time.Second+time.Microsecond), got.Spaces[1].Collections[0].Bookmarks[0].CreatedAt)
		require.Equal(t, persistence.Normalize(snap), got)
		require.Equal(t, Epoch.Add(123456789*time.Nanosecond), snap.Spaces[1].CreatedAt, "Save must not touch its input")
	})

	t.Run("last write wins", func(t *testing.T) {
		h := newStore(t, ttl)
		first := SampleSnapshot(t, "a")
		second := SampleSnapshot(t, "b")
		second.CurrentSpace = second.Spaces[0].ID
		require.NoError(t, h.Store.Save(ctx, "alice", first))
		require.NoError(t, h.Store.Save(ctx, "alice", second))

		got, err := h.Store.Load(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, second, got)
	})

	t.Run("empty current space", func(t *testing.T) {
		h := newStore(t, ttl)
		want := SampleSnapshot(t, "a")
		want.CurrentSpace = ""
		require.NoError(t, h.Store.Save(ctx, "alice", want))

		got, err := h.Store.Load(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, "", got.CurrentSpace)
	})

	t.Run("users are isolated", func(t *testing.T) {
		h := newStore(t, ttl)
		a := SampleSnapshot(t, "a")
		b := SampleSnapshot(t, "b")
		require.NoError(t, h.Store.Save(ctx, "alice", a))
		require.NoError(t, h.Store.Save(ctx, "bob", b))

		got, err := h.Store.Load(ctx, "bob")
		require.NoError(t, err)
		require.Equal(t, b, got)

		require.NoError(t, h.Store.Delete(ctx, "bob"))
		_, err = h.Store.Load(ctx, "bob")
		require.True(t, errors.Is(err, errs.ErrNotFound))
		_, err = h.Store.Load(ctx, "alice")
		require.NoError(t, err)
	})

	t.Run("delete missing is not an error", func(t *testing.T) {
		h := newStore(t, ttl)
		require.NoError(t, h.Store.Delete(ctx, "nobody"))
	})

	t.Run("loaded snapshot is a copy", func(t *testing.T) {
		h := newStore(t, ttl)
		require.NoError(t, h.Store.Save(ctx, "alice", SampleSnapshot(t, "a")))

		got, err := h.Store.Load(ctx, "alice")
		require.NoError(t, err)
		got.Spaces[0].Name = "mutated"

		again, err := h.Store.Load(ctx, "alice")
		require.NoError(t, err)
		require.Equal(t, domain.DefaultSpaceName, again.Spaces[0].Name)
	})

	t.Run("expiry", func(t *testing.T) {
		h := newStore(t, ttl)
		require.NoError(t, h.Store.Save(ctx, "alice", SampleSnapshot(t, "a")))

		h.Advance(ttl - time.Minute)
		_, err := h.Store.Load(ctx, "alice")
		require.NoError(t, err, "snapshot must survive until its ttl")

		require.NoError(t, h.Store.Save(ctx, "alice", SampleSnapshot(t, "a")))
		h.Advance(ttl - time.Minute)
		_, err = h.Store.Load(ctx, "alice")
		require.NoError(t, err, "saving refreshes the ttl")

		h.Advance(2 * time.Minute)
		_, err = h.Store.Load(ctx, "alice")
		require.True(t, errors.Is(err, errs.ErrNotFound), "expired snapshot must not load, got %v", err)
	})

	t.Run("lister", func(t *testing.T) {
		h := newStore(t, ttl)
		lister, ok := h.Store.(persistence.Lister)
		if !ok {
			t.Skip("store does not list users")
		}
		users, err := lister.Users(ctx)
		require.NoError(t, err)
		require.Empty(t, users)

		require.NoError(t, h.Store.Save(ctx, "bob", SampleSnapshot(t, "b")))
		require.NoError(t, h.Store.Save(ctx, "alice", SampleSnapshot(t, "a")))

		users, err = lister.Users(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"alice", "bob"}, users)
	})

	t.Run("purger", func(t *testing.T) {
		h := newStore(t, ttl)
		purger, ok := h.Store.(persistence.Purger)
		if !ok {
			t.Skip("store does not purge")
		}
		require.NoError(t, h.Store.Save(ctx, "alice", SampleSnapshot(t, "a")))
		h.Advance(ttl / 2)
		require.NoError(t, h.Store.Save(ctx, "bob", SampleSnapshot(t, "b")))

		removed, err := purger.Purge(ctx, h.Now())
		require.NoError(t, err)
		require.Zero(t, removed)

		h.Advance(ttl/2 + time.Second)
		removed, err = purger.Purge(ctx, h.Now())
		require.NoError(t, err)
		require.Equal(t, 1, removed)

		_, err = h.Store.Load(ctx, "bob")
		require.NoError(t, err)
	})
}
