package workspace

import (
	"context"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

// ─────────────────────────────────────────────────────────────────
// Spaces
// ─────────────────────────────────────────────────────────────────

// CreateSpace appends a space and makes it the current one.
func (s *Service) CreateSpace(ctx context.Context, userID, name string) (domain.Space, error) {
	var created domain.Space
	err := s.applySelect(ctx, userID, "createSpace", func(g domain.Graph, _ string) (domain.Graph, string, error) {
		next, sp, err := s.engine.CreateSpace(g, name)
		created = sp
		return next, sp.ID, err
	})
	return created.Clone(), err
}

// UpdateSpace patches a space. Unlike the engine it reports a missing space.
func (s *Service) UpdateSpace(ctx context.Context, userID, spaceID string, p domain.SpacePatch) (domain.Space, error) {
	var updated domain.Space
	err := s.apply(ctx, userID, "updateSpace", func(g domain.Graph) (domain.Graph, error) {
		if g.SpaceIndex(spaceID) < 0 {
			return nil, errs.NotFound("space", spaceID)
		}
		next, err := s.engine.UpdateSpace(g, spaceID, p)
		if err != nil {
			return nil, err
		}
		updated = next[next.SpaceIndex(spaceID)]
		return next, nil
	})
	return updated.Clone(), err
}

// DeleteSpace removes a space with everything it holds. Deleting the
// current space moves the selection to the first remaining one.
func (s *Service) DeleteSpace(ctx context.Context, userID, spaceID string) error {
	return s.apply(ctx, userID, "deleteSpace", func(g domain.Graph) (domain.Graph, error) {
		return s.engine.DeleteSpace(g, spaceID), nil
	})
}

// ─────────────────────────────────────────────────────────────────
// Collections
// ─────────────────────────────────────────────────────────────────

func (s *Service) CreateCollection(ctx context.Context, userID, spaceID string, f domain.CollectionFields) (domain.Collection, error) {
	var created domain.Collection
	err := s.apply(ctx, userID, "createCollection", func(g domain.Graph) (domain.Graph, error) {
		next, c, err := s.engine.CreateCollection(g, spaceID, f)
		created = c
		return next, err
	})
	return created.Clone(), err
}

func (s *Service) UpdateCollection(ctx context.Context, userID, spaceID, collectionID string, p domain.CollectionPatch) (domain.Collection, error) {
	var updated domain.Collection
	err := s.apply(ctx, userID, "updateCollection", func(g domain.Graph) (domain.Graph, error) {
		if _, err := findCollection(g, spaceID, collectionID); err != nil {
			return nil, err
		}
		next, err := s.engine.UpdateCollection(g, spaceID, collectionID, p)
		if err != nil {
			return nil, err
		}
		updated, _ = findCollection(next, spaceID, collectionID)
		return next, nil
	})
	return updated.Clone(), err
}

// ReorderCollections applies a full permutation of the space's collection ids.
func (s *Service) ReorderCollections(ctx context.Context, userID, spaceID string, order []string) (domain.Space, error) {
	var reordered domain.Space
	err := s.apply(ctx, userID, "reorderCollections", func(g domain.Graph) (domain.Graph, error) {
		if g.SpaceIndex(spaceID) < 0 {
			return nil, errs.NotFound("space", spaceID)
		}
		next, err := s.engine.ReorderCollections(g, spaceID, order)
		if err != nil {
			return nil, err
		}
		reordered = next[next.SpaceIndex(spaceID)]
		return next, nil
	})
	return reordered.Clone(), err
}

func (s *Service) DeleteCollection(ctx context.Context, userID, spaceID, collectionID string) error {
	return s.apply(ctx, userID, "deleteCollection", func(g domain.Graph) (domain.Graph, error) {
		return s.engine.DeleteCollection(g, spaceID, collectionID), nil
	})
}

// MoveCollection moves a collection to the end of another space and returns that space.
func (s *Service) MoveCollection(ctx context.Context, userID, fromSpaceID, collectionID, toSpaceID string) (domain.Space, error) {
	var target domain.Space
	err := s.apply(ctx, userID, "moveCollection", func(g domain.Graph) (domain.Graph, error) {
		next, err := s.engine.MoveCollection(g, fromSpaceID, collectionID, toSpaceID)
		if err != nil {
			return nil, err
		}
		target = next[next.SpaceIndex(toSpaceID)]
		return next, nil
	})
	return target.Clone(), err
}

// ─────────────────────────────────────────────────────────────────
// Bookmarks
// ─────────────────────────────────────────────────────────────────

func (s *Service) CreateBookmark(ctx context.Context, userID, spaceID, collectionID string, f domain.BookmarkFields) (domain.Bookmark, error) {
	var created domain.Bookmark
	err := s.apply(ctx, userID, "createBookmark", func(g domain.Graph) (domain.Graph, error) {
		next, b, err := s.engine.CreateBookmark(g, spaceID, collectionID, f)
		created = b
		return next, err
	})
	return created.Clone(), err
}

func (s *Service) UpdateBookmark(ctx context.Context, userID, spaceID, collectionID, bookmarkID string, p domain.BookmarkPatch) (domain.Bookmark, error) {
	var updated domain.Bookmark
	err := s.apply(ctx, userID, "updateBookmark", func(g domain.Graph) (domain.Graph, error) {
		if _, err := findBookmark(g, spaceID, collectionID, bookmarkID); err != nil {
			return nil, err
		}
		next, err := s.engine.UpdateBookmark(g, spaceID, collectionID, bookmarkID, p)
		if err != nil {
			return nil, err
		}
		updated, _ = findBookmark(next, spaceID, collectionID, bookmarkID)
		return next, nil
	})
	return updated.Clone(), err
}

// ReorderBookmarks applies a full permutation of the collection's bookmark ids.
func (s *Service) ReorderBookmarks(ctx context.Context, userID, spaceID, collectionID string, order []string) (domain.Collection, error) {
	var reordered domain.Collection
	err := s.apply(ctx, userID, "reorderBookmarks", func(g domain.Graph) (domain.Graph, error) {
		if _, err := findCollection(g, spaceID, collectionID); err != nil {
			return nil, err
		}
		next, err := s.engine.ReorderBookmarks(g, spaceID, collectionID, order)
		if err != nil {
			return nil, err
		}
		reordered, _ = findCollection(next, spaceID, collectionID)
		return next, nil
	})
	return reordered.Clone(), err
}

func (s *Service) DeleteBookmark(ctx context.Context, userID, spaceID, collectionID, bookmarkID string) error {
	return s.apply(ctx, userID, "deleteBookmark", func(g domain.Graph) (domain.Graph, error) {
		return s.engine.DeleteBookmark(g, spaceID, collectionID, bookmarkID), nil
	})
}

// MoveBookmark moves a bookmark to index of another collection of the same
// space and returns the target collection.
func (s *Service) MoveBookmark(ctx context.Context, userID, spaceID, fromCollectionID, bookmarkID, toCollectionID string, index int) (domain.Collection, error) {
	var target domain.Collection
	err := s.apply(ctx, userID, "moveBookmark", func(g domain.Graph) (domain.Graph, error) {
		next, err := s.engine.MoveBookmark(g, spaceID, fromCollectionID, bookmarkID, toCollectionID, index)
		if err != nil {
			return nil, err
		}
		target, _ = findCollection(next, spaceID, toCollectionID)
		return next, nil
	})
	return target.Clone(), err
}

func findCollection(g domain.Graph, spaceID, collectionID string) (domain.Collection, error) {
	si := g.SpaceIndex(spaceID)
	if si < 0 {
		return domain.Collection{}, errs.NotFound("space", spaceID)
	}
	ci := g[si].CollectionIndex(collectionID)
	if ci < 0 {
		return domain.Collection{}, errs.NotFound("collection", collectionID)
	}
	return g[si].Collections[ci], nil
}

func findBookmark(g domain.Graph, spaceID, collectionID, bookmarkID string) (domain.Bookmark, error) {
	c, err := findCollection(g, spaceID, collectionID)
	if err != nil {
		return domain.Bookmark{}, err
	}
	bi := c.BookmarkIndex(bookmarkID)
	if bi < 0 {
		return domain.Bookmark{}, errs.NotFound("bookmark", bookmarkID)
	}
	return c.Bookmarks[bi], nil
}
