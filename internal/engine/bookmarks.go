package engine

import (
	"strings"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

// CreateBookmark appends a bookmark to a collection.
// The URL must be absolute; a blank title falls back to the URL.
func (e *Engine) CreateBookmark(g domain.Graph, spaceID, collectionID string, f domain.BookmarkFields) (domain.Graph, domain.Bookmark, error) {
	si, ci, ok := locateCollection(g, spaceID, collectionID)
	if !ok {
		if si < 0 {
			return g, domain.Bookmark{}, errs.NotFound("space", spaceID)
		}
		return g, domain.Bookmark{}, errs.NotFound("collection", collectionID)
	}

	b := normalizeBookmark(domain.Bookmark{
		ID:            e.ids.NewID(),
		Title:         f.Title,
		URL:           f.URL,
		Description:   f.Description,
		Tags:          f.Tags,
		Notes:         f.Notes,
		Favicon:       f.Favicon,
		HasCustomIcon: f.HasCustomIcon,
		CreatedAt:     e.now(),
	})
	if err := domain.ValidateBookmark(b); err != nil {
		return g, domain.Bookmark{}, err
	}

	out := g.Clone()
	out[si].Collections[ci].Bookmarks = append(out[si].Collections[ci].Bookmarks, b)
	return out, b.Clone(), nil
}

// UpdateBookmark merges p into a bookmark. The merged bookmark is normalized and
// re-validated; an invalid result rejects the whole update.
func (e *Engine) UpdateBookmark(g domain.Graph, spaceID, collectionID, bookmarkID string, p domain.BookmarkPatch) (domain.Graph, error) {
	si, ci, ok := locateCollection(g, spaceID, collectionID)
	if !ok {
		return g, nil
	}
	bi := g[si].Collections[ci].BookmarkIndex(bookmarkID)
	if bi < 0 {
		return g, nil
	}

	updated := normalizeBookmark(p.Apply(g[si].Collections[ci].Bookmarks[bi].Clone()))
	if err := domain.ValidateBookmark(updated); err != nil {
		return g, err
	}

	out := g.Clone()
	out[si].Collections[ci].Bookmarks[bi] = updated
	return out, nil
}

// ReorderBookmarks replaces the bookmark order of a collection.
// order must be an exact permutation of the existing bookmark ids.
func (e *Engine) ReorderBookmarks(g domain.Graph, spaceID, collectionID string, order []string) (domain.Graph, error) {
	si, ci, ok := locateCollection(g, spaceID, collectionID)
	if !ok {
		return g, nil
	}

	out := g.Clone()
	reordered, err := permute(out[si].Collections[ci].Bookmarks, func(b domain.Bookmark) string { return b.ID }, order, "bookmark")
	if err != nil {
		return g, err
	}
	out[si].Collections[ci].Bookmarks = reordered
	return out, nil
}

// DeleteBookmark removes a bookmark.
func (e *Engine) DeleteBookmark(g domain.Graph, spaceID, collectionID, bookmarkID string) domain.Graph {
	si, ci, ok := locateCollection(g, spaceID, collectionID)
	if !ok {
		return g
	}
	bi := g[si].Collections[ci].BookmarkIndex(bookmarkID)
	if bi < 0 {
		return g
	}

	out := g.Clone()
	bs := out[si].Collections[ci].Bookmarks
	out[si].Collections[ci].Bookmarks = append(bs[:bi:bi], bs[bi+1:]...)
	return out
}

// MoveBookmark moves a bookmark into another collection of the same space, at
// position index. An index outside [0, len] appends. Moving within one
// collection repositions the bookmark.
func (e *Engine) MoveBookmark(g domain.Graph, spaceID, fromCollectionID, bookmarkID, toCollectionID string, index int) (domain.Graph, error) {
	si, from, ok := locateCollection(g, spaceID, fromCollectionID)
	if !ok {
		if si < 0 {
			return g, errs.NotFound("space", spaceID)
		}
		return g, errs.NotFound("collection", fromCollectionID)
	}
	to := g[si].CollectionIndex(toCollectionID)
	if to < 0 {
		return g, errs.NotFound("collection", toCollectionID)
	}
	bi := g[si].Collections[from].BookmarkIndex(bookmarkID)
	if bi < 0 {
		return g, errs.NotFound("bookmark", bookmarkID)
	}
	if from != to && g[si].Collections[to].BookmarkIndex(bookmarkID) >= 0 {
		return g, errs.Invalidf("bookmarkId", "collection %q already holds bookmark %q", toCollectionID, bookmarkID)
	}

	out := g.Clone()
	src := out[si].Collections[from].Bookmarks
	moved := src[bi]
	out[si].Collections[from].Bookmarks = append(src[:bi:bi], src[bi+1:]...)

	dst := out[si].Collections[to].Bookmarks
	if index < 0 || index > len(dst) {
		index = len(dst)
	}
	inserted := make([]domain.Bookmark, 0, len(dst)+1)
	inserted = append(inserted, dst[:index]...)
	inserted = append(inserted, moved)
	inserted = append(inserted, dst[index:]...)
	out[si].Collections[to].Bookmarks = inserted
	return out, nil
}

func normalizeBookmark(b domain.Bookmark) domain.Bookmark {
	b.URL = strings.TrimSpace(b.URL)
	b.Title = strings.TrimSpace(b.Title)
	if b.Title == "" {
		b.Title = b.URL
	}
	b.Tags = domain.NormalizeTags(b.Tags)
	return b
}
