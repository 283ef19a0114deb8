package workspace

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/engine"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/ids"
	"github.com/MrSnakeDoc/jump-spaces/internal/index"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence/memory"
	"github.com/MrSnakeDoc/jump-spaces/internal/sources/homepage"
)

var epoch = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// countingStore counts saves and can be told to fail them.
type countingStore struct {
	*memory.Store
	saves   atomic.Int32
	failing atomic.Bool
}

func (c *countingStore) Save(ctx context.Context, userID string, s domain.Snapshot) error {
	c.saves.Add(1)
	if c.failing.Load() {
		return errors.New("disk full")
	}
	return c.Store.Save(ctx, userID, s)
}

type fixture struct {
	ws     *Service
	store  *countingStore
	shares *index.MemoryIndex
	logs   *observer.ObservedLogs
	now    time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	f := &fixture{
		store:  &countingStore{Store: memory.New(0)},
		shares: index.NewMemoryIndex(),
		logs:   logs,
		now:    epoch,
	}
	f.ws = New(Options{
		Store:         f.store,
		Engine:        engine.New(ids.NewSequence("id"), func() time.Time { return epoch }),
		Shares:        f.shares,
		Logger:        logger.FromZap(zap.New(core)),
		PublicBaseURL: "https://jump.example.com/",
		Now:           func() time.Time { return f.now },
	})
	return f
}

func stored(t *testing.T, f *fixture, userID string) domain.Snapshot {
	t.Helper()
	snap, err := f.store.Load(context.Background(), userID)
	require.NoError(t, err)
	return snap
}

func TestSnapshot_CreatesDefaultSpace(t *testing.T) {
	f := newFixture(t)

	snap, err := f.ws.Snapshot(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, snap.Spaces, 1)
	require.Equal(t, domain.DefaultSpaceName, snap.Spaces[0].Name)
	require.Equal(t, "id-1", snap.CurrentSpace)

	require.Equal(t, snap, stored(t, f, "alice"))
	require.Equal(t, 1, f.logs.FilterMessage("created default space").Len())

	// Second access is served from memory.
	_, err = f.ws.Snapshot(context.Background(), "alice")
	require.NoError(t, err)
	require.EqualValues(t, 1, f.store.saves.Load())
}

func TestSnapshot_ReconcilesStoredCurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.Store.Save(ctx, "alice", domain.Snapshot{
		Spaces:       domain.Graph{{ID: "s1", Name: "One", Collections: []domain.Collection{}}},
		CurrentSpace: "gone",
	}))

	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "s1", snap.CurrentSpace)
	require.Zero(t, f.store.saves.Load(), "loading alone does not save")
}

func TestSnapshot_ReturnsCopy(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	snap.Spaces[0].Name = "mutated"

	again, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, domain.DefaultSpaceName, again.Spaces[0].Name)
}

func TestMutations_SaveAfterEachSuccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	sp, err := f.ws.CreateSpace(ctx, "alice", "Work")
	require.NoError(t, err)
	col, err := f.ws.CreateCollection(ctx, "alice", sp.ID, domain.CollectionFields{Name: "Tools"})
	require.NoError(t, err)
	bm, err := f.ws.CreateBookmark(ctx, "alice", sp.ID, col.ID, domain.BookmarkFields{URL: "https://go.dev", Tags: []string{" go "}})
	require.NoError(t, err)
	require.Equal(t, "https://go.dev", bm.Title)
	require.Equal(t, []string{"go"}, bm.Tags)

	// default-space save + three mutations
	require.EqualValues(t, 4, f.store.saves.Load())

	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, snap, stored(t, f, "alice"))
	require.Len(t, snap.Spaces, 2)
}

func TestCreateSpace_BecomesCurrent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)

	work, err := f.ws.CreateSpace(ctx, "alice", "Work")
	require.NoError(t, err)
	require.NotEqual(t, before.CurrentSpace, work.ID)

	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, work.ID, snap.CurrentSpace)
	require.Equal(t, work.ID, stored(t, f, "alice").CurrentSpace)

	_, err = f.ws.CreateSpace(ctx, "alice", " ")
	require.ErrorIs(t, err, errs.ErrValidation)
	snap, err = f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, work.ID, snap.CurrentSpace, "rejected create keeps the selection")
}

func TestMutations_RejectedLeaveStateUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	before, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	spaceID := before.Spaces[0].ID
	col, err := f.ws.CreateCollection(ctx, "alice", spaceID, domain.CollectionFields{Name: "Tools"})
	require.NoError(t, err)
	saves := f.store.saves.Load()

	_, err = f.ws.CreateBookmark(ctx, "alice", spaceID, col.ID, domain.BookmarkFields{URL: "notaurl"})
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.ws.ReorderCollections(ctx, "alice", spaceID, []string{"nope"})
	require.ErrorIs(t, err, errs.ErrValidation)

	_, err = f.ws.CreateCollection(ctx, "alice", "missing", domain.CollectionFields{Name: "X"})
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.Equal(t, saves, f.store.saves.Load(), "rejected operations are not saved")

	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Empty(t, snap.Spaces[0].Collections[0].Bookmarks)
}

func TestSaveFailure_IsLoggedNotReturned(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)

	f.store.failing.Store(true)
	sp, err := f.ws.CreateSpace(ctx, "alice", "Work")
	require.NoError(t, err)

	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, snap.Spaces, 2, "in-memory state keeps the mutation")
	require.Equal(t, sp.ID, snap.Spaces[1].ID)

	entries := f.logs.FilterMessage("failed to save snapshot").All()
	require.Len(t, entries, 1)
	require.Equal(t, zapcore.ErrorLevel, entries[0].Level)
	fields := entries[0].ContextMap()
	require.Equal(t, "alice", fields["user"])
	require.Equal(t, "createSpace", fields["op"])
}

func TestUpdates_ReportMissingEntities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	spaceID := snap.Spaces[0].ID

	_, err = f.ws.UpdateSpace(ctx, "alice", "missing", domain.SpacePatch{Name: ptr("X")})
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.ws.UpdateCollection(ctx, "alice", spaceID, "missing", domain.CollectionPatch{Name: ptr("X")})
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.ws.UpdateBookmark(ctx, "alice", spaceID, "missing", "b", domain.BookmarkPatch{})
	require.ErrorIs(t, err, errs.ErrNotFound)

	sp, err := f.ws.UpdateSpace(ctx, "alice", spaceID, domain.SpacePatch{Name: ptr("Home")})
	require.NoError(t, err)
	require.Equal(t, "Home", sp.Name)
}

func TestDeleteSpace_MovesSelectionAndKeepsDefault(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	first := snap.Spaces[0].ID

	work, err := f.ws.CreateSpace(ctx, "alice", "Work")
	require.NoError(t, err)
	_, err = f.ws.SelectSpace(ctx, "alice", work.ID)
	require.NoError(t, err)

	require.NoError(t, f.ws.DeleteSpace(ctx, "alice", work.ID))
	snap, err = f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, first, snap.CurrentSpace)

	require.NoError(t, f.ws.DeleteSpace(ctx, "alice", first))
	snap, err = f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, snap.Spaces, 1)
	require.Equal(t, domain.DefaultSpaceName, snap.Spaces[0].Name)
	require.NotEqual(t, first, snap.Spaces[0].ID)
	require.Equal(t, snap.Spaces[0].ID, snap.CurrentSpace)
}

func TestSelectSpace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.ws.SelectSpace(ctx, "alice", "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)

	work, err := f.ws.CreateSpace(ctx, "alice", "Work")
	require.NoError(t, err)
	snap, err := f.ws.SelectSpace(ctx, "alice", work.ID)
	require.NoError(t, err)
	require.Equal(t, work.ID, snap.CurrentSpace)
	require.Equal(t, work.ID, stored(t, f, "alice").CurrentSpace)

	cur, err := f.ws.CurrentSpace(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "Work", cur.Name)
}

func TestClearAll(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ws.CreateSpace(ctx, "alice", "Work")
	require.NoError(t, err)

	snap, err := f.ws.ClearAll(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, snap.Spaces, 1)
	require.Equal(t, domain.DefaultSpaceName, snap.Spaces[0].Name)
	require.Empty(t, snap.Spaces[0].Collections)
	require.Equal(t, snap.Spaces[0].ID, snap.CurrentSpace)
	require.Equal(t, snap, stored(t, f, "alice"))
}

func TestMoves(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	home := snap.Spaces[0].ID

	a, err := f.ws.CreateCollection(ctx, "alice", home, domain.CollectionFields{Name: "A"})
	require.NoError(t, err)
	b, err := f.ws.CreateCollection(ctx, "alice", home, domain.CollectionFields{Name: "B"})
	require.NoError(t, err)
	bm, err := f.ws.CreateBookmark(ctx, "alice", home, a.ID, domain.BookmarkFields{URL: "https://a.example"})
	require.NoError(t, err)

	target, err := f.ws.MoveBookmark(ctx, "alice", home, a.ID, bm.ID, b.ID, 0)
	require.NoError(t, err)
	require.Equal(t, []string{bm.ID}, target.BookmarkIDs())

	work, err := f.ws.CreateSpace(ctx, "alice", "Work")
	require.NoError(t, err)
	moved, err := f.ws.MoveCollection(ctx, "alice", home, b.ID, work.ID)
	require.NoError(t, err)
	require.Equal(t, []string{b.ID}, moved.CollectionIDs())

	reordered, err := f.ws.ReorderCollections(ctx, "alice", home, []string{a.ID})
	require.NoError(t, err)
	require.Equal(t, []string{a.ID}, reordered.CollectionIDs())
}

func TestImport(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)

	_, err = f.ws.Import(ctx, "alice", []byte(`{"spaces": "nope"}`))
	require.ErrorIs(t, err, errs.ErrValidation)
	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, "id-1", snap.Spaces[0].ID, "rejected import leaves the graph")

	doc := `{"spaces":[{"id":"s9","name":"Imported","collections":[],"createdAt":"2026-01-01T00:00:00Z"}]}`
	snap, err = f.ws.Import(ctx, "alice", []byte(doc))
	require.NoError(t, err)
	require.Len(t, snap.Spaces, 1)
	require.Equal(t, "s9", snap.CurrentSpace)
	require.Equal(t, snap, stored(t, f, "alice"))

	exported, err := f.ws.Export(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, snap.Spaces, exported.Spaces)

	_, err = f.ws.ExportSpace(ctx, "alice", "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestImport_EmptyDocumentKeepsDefault(t *testing.T) {
	f := newFixture(t)

	snap, err := f.ws.Import(context.Background(), "alice", []byte(`{"spaces":[]}`))
	require.NoError(t, err)
	require.Len(t, snap.Spaces, 1)
	require.Equal(t, domain.DefaultSpaceName, snap.Spaces[0].Name)
}

func TestImportHomepage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	groups := []homepage.Group{
		{Name: "Infra", Bookmarks: []domain.BookmarkFields{{Title: "AdGuard", URL: "https://adguard.example"}}},
		{Name: "Media", Bookmarks: []domain.BookmarkFields{{Title: "Jellyfin", URL: "https://jellyfin.example"}}},
	}

	sp, err := f.ws.ImportHomepage(ctx, "alice", "", groups)
	require.NoError(t, err)
	require.Len(t, sp.Collections, 2)
	require.Equal(t, "Infra", sp.Collections[0].Name)
	require.Equal(t, "AdGuard", sp.Collections[0].Bookmarks[0].Title)

	saves := f.store.saves.Load()
	bad := []homepage.Group{
		{Name: "Ok", Bookmarks: []domain.BookmarkFields{{URL: "https://ok.example"}}},
		{Name: "Broken", Bookmarks: []domain.BookmarkFields{{URL: "broken"}}},
	}
	_, err = f.ws.ImportHomepage(ctx, "alice", sp.ID, bad)
	require.ErrorIs(t, err, errs.ErrValidation)
	require.Equal(t, saves, f.store.saves.Load())

	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, snap.Spaces[0].Collections, 2, "failed import adds nothing")

	_, err = f.ws.ImportHomepage(ctx, "alice", "missing", groups)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPublicCollection(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	spaceID := snap.Spaces[0].ID

	col, err := f.ws.CreateCollection(ctx, "alice", spaceID, domain.CollectionFields{Name: "Shared", IsPublic: true})
	require.NoError(t, err)

	pc, err := f.ws.PublicCollection(ctx, col.ID)
	require.NoError(t, err)
	require.Equal(t, spaceID, pc.SpaceID)
	require.Equal(t, "Shared", pc.Collection.Name)

	_, err = f.ws.UpdateCollection(ctx, "alice", spaceID, col.ID, domain.CollectionPatch{IsPublic: ptr(false)})
	require.NoError(t, err)
	_, err = f.ws.PublicCollection(ctx, col.ID)
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, ok := f.shares.Owner(col.ID)
	require.False(t, ok)

	_, err = f.ws.PublicCollection(ctx, "unknown")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestPublicCollection_IDOfAnotherUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	shared, err := f.ws.CreateCollection(ctx, "alice", snap.Spaces[0].ID, domain.CollectionFields{Name: "Alice links", IsPublic: true})
	require.NoError(t, err)

	doc := `{"spaces":[{"id":"s1","name":"Mallory","createdAt":"2026-01-01T00:00:00Z","collections":[` +
		`{"id":"` + shared.ID + `","name":"Mallory spam","width":1,"viewMode":"grid","isPublic":true,"bookmarks":[],"createdAt":"2026-01-01T00:00:00Z"}]}]}`
	imported, err := f.ws.Import(ctx, "mallory", []byte(doc))
	require.NoError(t, err)
	rekeyed := imported.Spaces[0].Collections[0].ID
	require.NotEqual(t, shared.ID, rekeyed)
	require.Equal(t, 1, f.logs.FilterMessage("imported collection id is shared by another user, assigned a new id").Len())

	pc, err := f.ws.PublicCollection(ctx, shared.ID)
	require.NoError(t, err)
	require.Equal(t, "Alice links", pc.Collection.Name)
	owner, _ := f.shares.Owner(rekeyed)
	require.Equal(t, "mallory", owner)

	// a stored snapshot reusing the id, as after a restart, does not take it over
	require.NoError(t, f.store.Store.Save(ctx, "eve", domain.Snapshot{Spaces: domain.Graph{{
		ID: "e1", Name: "Eve", Collections: []domain.Collection{{
			ID: shared.ID, Name: "Eve spam", Width: 1, ViewMode: domain.ViewGrid, IsPublic: true, Bookmarks: []domain.Bookmark{},
		}},
	}}}))
	_, err = f.ws.Snapshot(ctx, "eve")
	require.NoError(t, err)
	require.Equal(t, 1, f.logs.FilterMessage("public collection ids already shared by another user").Len())

	_, err = f.ws.UpdateCollection(ctx, "eve", "e1", shared.ID, domain.CollectionPatch{IsPublic: ptr(false)})
	require.NoError(t, err)
	pc, err = f.ws.PublicCollection(ctx, shared.ID)
	require.NoError(t, err, "another user unsharing must not hide alice's collection")
	require.Equal(t, "Alice links", pc.Collection.Name)
}

func TestPublicViews_DoNotCreateWorkspace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	prof, err := f.ws.PublicProfile(ctx, "bob", "bob")
	require.NoError(t, err)
	require.Empty(t, prof.Collections)
	require.Zero(t, f.store.saves.Load())
	require.Zero(t, f.ws.Cached())
	_, err = f.store.Load(ctx, "bob")
	require.ErrorIs(t, err, errs.ErrNotFound)

	require.NoError(t, f.store.Store.Save(ctx, "carol", domain.Snapshot{Spaces: domain.Graph{{
		ID: "c1", Name: "Home", Collections: []domain.Collection{{
			ID: "pub", Name: "Links", Width: 1, ViewMode: domain.ViewGrid, IsPublic: true, Bookmarks: []domain.Bookmark{},
		}},
	}}}))
	prof, err = f.ws.PublicProfile(ctx, "carol", "carol")
	require.NoError(t, err)
	require.Len(t, prof.Collections, 1)
	require.Zero(t, f.ws.Cached(), "public reads are not cached")
}

func TestPublicProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	spaceID := snap.Spaces[0].ID

	_, err = f.ws.CreateCollection(ctx, "alice", spaceID, domain.CollectionFields{Name: "Private"})
	require.NoError(t, err)
	pub, err := f.ws.CreateCollection(ctx, "alice", spaceID, domain.CollectionFields{Name: "Public", IsPublic: true})
	require.NoError(t, err)

	prof, err := f.ws.PublicProfile(ctx, "alice", "alice_01")
	require.NoError(t, err)
	require.Equal(t, "https://jump.example.com/#/u/alice_01", prof.URL)
	require.Len(t, prof.Collections, 1)
	require.Equal(t, pub.ID, prof.Collections[0].Collection.ID)
	require.Equal(t, "https://jump.example.com/#/share/"+pub.ID, prof.Collections[0].URL)
}

func TestSearch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	spaceID := snap.Spaces[0].ID
	col, err := f.ws.CreateCollection(ctx, "alice", spaceID, domain.CollectionFields{Name: "Dev"})
	require.NoError(t, err)
	_, err = f.ws.CreateBookmark(ctx, "alice", spaceID, col.ID, domain.BookmarkFields{Title: "Go Docs", URL: "https://go.dev"})
	require.NoError(t, err)

	hits, err := f.ws.Search(ctx, "alice", "go", "", 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	hits, err = f.ws.Search(ctx, "alice", "go", spaceID, 0)
	require.NoError(t, err)
	require.Len(t, hits, 1)

	_, err = f.ws.Search(ctx, "alice", "go", "missing", 0)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestEvictIdle_ReloadsFromStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sp, err := f.ws.CreateSpace(ctx, "alice", "Work")
	require.NoError(t, err)
	_, err = f.ws.Snapshot(ctx, "bob")
	require.NoError(t, err)
	require.Equal(t, 2, f.ws.Cached())

	f.now = epoch.Add(2 * time.Hour)
	_, err = f.ws.Snapshot(ctx, "bob")
	require.NoError(t, err)

	require.Equal(t, 1, f.ws.EvictIdle(f.now, time.Hour))
	require.Equal(t, 1, f.ws.Cached())

	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, sp.ID, snap.Spaces[1].ID)

	f.ws.Forget("alice")
	require.Equal(t, 1, f.ws.Cached())
}

func TestConcurrentMutationsOfOneUser(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	snap, err := f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	spaceID := snap.Spaces[0].ID
	col, err := f.ws.CreateCollection(ctx, "alice", spaceID, domain.CollectionFields{Name: "Inbox"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errCh := make(chan error, 25)
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.ws.CreateBookmark(ctx, "alice", spaceID, col.ID, domain.BookmarkFields{URL: "https://example.com"})
			errCh <- err
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		require.NoError(t, err)
	}

	snap, err = f.ws.Snapshot(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, snap.Spaces[0].Collections[0].Bookmarks, 25)
	require.Equal(t, snap, stored(t, f, "alice"), "last save holds the latest snapshot")
}
