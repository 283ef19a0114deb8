package engine

import (
	"strings"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

// CreateCollection appends a new collection to the space with spaceID.
func (e *Engine) CreateCollection(g domain.Graph, spaceID string, f domain.CollectionFields) (domain.Graph, domain.Collection, error) {
	si := g.SpaceIndex(spaceID)
	if si < 0 {
		return g, domain.Collection{}, errs.NotFound("space", spaceID)
	}

	c := domain.Collection{
		ID:          e.ids.NewID(),
		Name:        strings.TrimSpace(f.Name),
		Description: f.Description,
		Icon:        f.Icon,
		Color:       f.Color,
		Width:       f.Width,
		ViewMode:    f.ViewMode,
		IsPublic:    f.IsPublic,
		IsCollapsed: false,
		Bookmarks:   []domain.Bookmark{},
		CreatedAt:   e.now(),
	}
	if c.Width == 0 {
		c.Width = domain.MinWidth
	}
	if c.ViewMode == "" {
		c.ViewMode = domain.ViewGrid
	}
	if err := domain.ValidateCollection(c); err != nil {
		return g, domain.Collection{}, err
	}

	out := g.Clone()
	out[si].Collections = append(out[si].Collections, c)
	return out, c.Clone(), nil
}

// UpdateCollection merges p into the matching collection. Unspecified fields are retained.
func (e *Engine) UpdateCollection(g domain.Graph, spaceID, collectionID string, p domain.CollectionPatch) (domain.Graph, error) {
	si, ci, ok := locateCollection(g, spaceID, collectionID)
	if !ok {
		return g, nil
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}

	updated := p.Apply(g[si].Collections[ci].Clone())
	if err := domain.ValidateCollection(updated); err != nil {
		return g, err
	}

	out := g.Clone()
	out[si].Collections[ci] = updated
	return out, nil
}

// ReorderCollections replaces the collection order of a space.
// order must be an exact permutation of the existing collection ids.
func (e *Engine) ReorderCollections(g domain.Graph, spaceID string, order []string) (domain.Graph, error) {
	si := g.SpaceIndex(spaceID)
	if si < 0 {
		return g, nil
	}

	out := g.Clone()
	reordered, err := permute(out[si].Collections, func(c domain.Collection) string { return c.ID }, order, "collection")
	if err != nil {
		return g, err
	}
	out[si].Collections = reordered
	return out, nil
}

// DeleteCollection removes a collection together with its bookmarks.
func (e *Engine) DeleteCollection(g domain.Graph, spaceID, collectionID string) domain.Graph {
	si, ci, ok := locateCollection(g, spaceID, collectionID)
	if !ok {
		return g
	}

	out := g.Clone()
	cols := out[si].Collections
	out[si].Collections = append(cols[:ci:ci], cols[ci+1:]...)
	return out
}

// MoveCollection moves a collection to the end of another space.
// Moving within the same space is a no-op.
func (e *Engine) MoveCollection(g domain.Graph, fromSpaceID, collectionID, toSpaceID string) (domain.Graph, error) {
	si, ci, ok := locateCollection(g, fromSpaceID, collectionID)
	if !ok {
		if si < 0 {
			return g, errs.NotFound("space", fromSpaceID)
		}
		return g, errs.NotFound("collection", collectionID)
	}
	ti := g.SpaceIndex(toSpaceID)
	if ti < 0 {
		return g, errs.NotFound("space", toSpaceID)
	}
	if ti == si {
		return g, nil
	}
	if g[ti].CollectionIndex(collectionID) >= 0 {
		return g, errs.Invalidf("collectionId", "space %q already holds collection %q", toSpaceID, collectionID)
	}

	out := g.Clone()
	moved := out[si].Collections[ci]
	cols := out[si].Collections
	out[si].Collections = append(cols[:ci:ci], cols[ci+1:]...)
	out[ti].Collections = append(out[ti].Collections, moved)
	return out, nil
}
