// Package engine implements the mutation engine: pure functions from a graph and
// an operation to the next graph.
//
// No operation mutates the graph it is given. Update, delete and reorder
// operations that reference a missing id return the input graph unchanged and a
// nil error. Operations that must produce a result (creates, moves) return an
// errs.NotFoundError when a parent is missing. Every rejected operation leaves
// the input graph untouched and reports an errs.ValidationError.
package engine

import (
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/ids"
)

// Engine carries the injected id generator and clock used by create operations.
type Engine struct {
	ids ids.Generator
	now func() time.Time
}

// New returns an Engine. A nil generator defaults to UUIDs and a nil clock to UTC wall time
// at domain.TimePrecision.
func New(gen ids.Generator, now func() time.Time) *Engine {
	if gen == nil {
		gen = ids.UUID{}
	}
	if now == nil {
		now = func() time.Time { return domain.Timestamp(time.Now()) }
	}
	return &Engine{ids: gen, now: now}
}

// NewID returns a fresh id from the engine's generator.
func (e *Engine) NewID() string { return e.ids.NewID() }

// EnsureDefault returns g unchanged when it holds at least one space.
// Otherwise it returns a graph holding only a fresh default space, and true.
func (e *Engine) EnsureDefault(g domain.Graph) (domain.Graph, bool) {
	if len(g) > 0 {
		return g, false
	}
	return domain.Graph{e.defaultSpace()}, true
}

// Reset returns a fresh graph with only the default space.
func (e *Engine) Reset() domain.Graph {
	return domain.Graph{e.defaultSpace()}
}

func (e *Engine) defaultSpace() domain.Space {
	return domain.Space{
		ID:          e.ids.NewID(),
		Name:        domain.DefaultSpaceName,
		Collections: []domain.Collection{},
		CreatedAt:   e.now(),
	}
}

// locateCollection resolves (spaceID, collectionID) to indexes, or ok=false.
func locateCollection(g domain.Graph, spaceID, collectionID string) (si, ci int, ok bool) {
	si = g.SpaceIndex(spaceID)
	if si < 0 {
		return -1, -1, false
	}
	ci = g[si].CollectionIndex(collectionID)
	if ci < 0 {
		return si, -1, false
	}
	return si, ci, true
}

// permute reorders items to match order, which must be an exact permutation of their ids.
func permute[T any](items []T, idOf func(T) string, order []string, kind string) ([]T, error) {
	if len(order) != len(items) {
		return nil, errs.Invalidf("order", "expected %d %s ids, got %d", len(items), kind, len(order))
	}
	byID := make(map[string]T, len(items))
	for _, item := range items {
		byID[idOf(item)] = item
	}
	used := make(map[string]bool, len(order))
	out := make([]T, 0, len(order))
	for _, id := range order {
		item, ok := byID[id]
		if !ok {
			return nil, errs.Invalidf("order", "unknown %s id %q", kind, id)
		}
		if used[id] {
			return nil, errs.Invalidf("order", "%s id %q listed twice", kind, id)
		}
		used[id] = true
		out = append(out, item)
	}
	return out, nil
}
