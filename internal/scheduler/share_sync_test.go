package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/index"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence/memory"
	"github.com/MrSnakeDoc/jump-spaces/internal/workspace"
)

func graphWith(spaceID string, cols ...domain.Collection) domain.Snapshot {
	return domain.Snapshot{
		Spaces:       domain.Graph{{ID: spaceID, Name: "Personal", Collections: cols}},
		CurrentSpace: spaceID,
	}
}

type brokenLister struct{ *memory.Store }

func (brokenLister) Users(context.Context) ([]string, error) {
	return nil, errors.New("timeout")
}

func TestShareSyncer_Sync(t *testing.T) {
	ctx := context.Background()
	store := memory.New(0)
	_ = store.Save(ctx, "alice", graphWith("s1",
		domain.Collection{ID: "c1", Name: "Shared", IsPublic: true, Bookmarks: []domain.Bookmark{}},
		domain.Collection{ID: "c2", Name: "Private", Bookmarks: []domain.Bookmark{}},
	))
	_ = store.Save(ctx, "bob", graphWith("s2"))

	idx := index.NewMemoryIndex()
	idx.SetUser("ghost", []string{"stale"})

	s := NewShareSyncer(store, idx, workspace.PublicCollectionIDs, logger.Nop(), 0)
	if err := s.Sync(ctx); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if owner, ok := idx.Owner("c1"); !ok || owner != "alice" {
		t.Errorf("Expected c1 owned by alice, got %q (found=%v)", owner, ok)
	}
	if _, ok := idx.Owner("c2"); ok {
		t.Error("Private collection was indexed")
	}
	if _, ok := idx.Owner("stale"); ok {
		t.Error("Stale entry survived a full sync")
	}
	if idx.Count() != 1 {
		t.Errorf("Expected 1 indexed collection, got %d", idx.Count())
	}
	if idx.GetLastSync().IsZero() {
		t.Error("Expected last sync to be recorded")
	}
}

func TestShareSyncer_SyncKeepsFirstOwnerOfSharedID(t *testing.T) {
	ctx := context.Background()
	store := memory.New(0)
	_ = store.Save(ctx, "alice", graphWith("s1",
		domain.Collection{ID: "dup", Name: "Alice", IsPublic: true, Bookmarks: []domain.Bookmark{}},
	))
	_ = store.Save(ctx, "zed", graphWith("s2",
		domain.Collection{ID: "dup", Name: "Zed", IsPublic: true, Bookmarks: []domain.Bookmark{}},
		domain.Collection{ID: "z1", Name: "Zed own", IsPublic: true, Bookmarks: []domain.Bookmark{}},
	))

	idx := index.NewMemoryIndex()
	idx.SetUser("zed", []string{"dup"})

	s := NewShareSyncer(store, idx, workspace.PublicCollectionIDs, logger.Nop(), 0)
	if err := s.Sync(ctx); err != nil {
		t.Fatalf("Sync failed: %v", err)
	}

	if owner, _ := idx.Owner("dup"); owner != "zed" {
		t.Errorf("Expected dup to stay with its current owner zed, got %q", owner)
	}
	if owner, _ := idx.Owner("z1"); owner != "zed" {
		t.Errorf("Expected z1 owned by zed, got %q", owner)
	}
	if got := idx.Collections("alice"); len(got) != 0 {
		t.Errorf("Expected alice to own nothing, got %v", got)
	}
}

func TestShareSyncer_StartFailsWhenListingFails(t *testing.T) {
	s := NewShareSyncer(brokenLister{memory.New(0)}, index.NewMemoryIndex(), workspace.PublicCollectionIDs, logger.Nop(), time.Minute)
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("Expected initial sync error")
	}
}
