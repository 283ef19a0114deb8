// Package selector tracks which space of a graph is current.
package selector

import (
	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

// None is the current-space id of a graph with no spaces.
const None = ""

// Current returns the space with id currentSpaceID, or false.
func Current(g domain.Graph, currentSpaceID string) (*domain.Space, bool) {
	if currentSpaceID == None {
		return nil, false
	}
	i := g.SpaceIndex(currentSpaceID)
	if i < 0 {
		return nil, false
	}
	s := g[i].Clone()
	return &s, true
}

// Select validates spaceID as the new current space.
func Select(g domain.Graph, spaceID string) (string, error) {
	if g.SpaceIndex(spaceID) < 0 {
		return None, errs.NotFound("space", spaceID)
	}
	return spaceID, nil
}

// Reconcile keeps current if it still names a space, and otherwise falls back
// to the first space, or None for an empty graph.
func Reconcile(g domain.Graph, current string) string {
	if current != None && g.SpaceIndex(current) >= 0 {
		return current
	}
	return First(g)
}

// First returns the id of the first space, or None.
func First(g domain.Graph) string {
	if len(g) == 0 {
		return None
	}
	return g[0].ID
}
