package domain

import "time"

// TimePrecision is the resolution every stored timestamp keeps. Postgres
// timestamptz holds microseconds.
const TimePrecision = time.Microsecond

// Timestamp returns t in UTC at TimePrecision, without a monotonic reading.
func Timestamp(t time.Time) time.Time { return t.UTC().Truncate(TimePrecision) }

// Graph is the full tree of one user's spaces, in display order.
// It is the unit of persistence and of import/export.
type Graph []Space

// Clone returns a deep copy of g. A nil graph stays nil.
func (g Graph) Clone() Graph {
	if g == nil {
		return nil
	}
	out := make(Graph, len(g))
	for i, s := range g {
		out[i] = s.Clone()
	}
	return out
}

// SpaceIndex returns the position of the space with id, or -1.
func (g Graph) SpaceIndex(id string) int {
	for i := range g {
		if g[i].ID == id {
			return i
		}
	}
	return -1
}

// FindCollection locates a collection anywhere in the graph.
// It returns (-1, -1) when no space holds it.
func (g Graph) FindCollection(collectionID string) (spaceIdx, collectionIdx int) {
	for i := range g {
		if j := g[i].CollectionIndex(collectionID); j >= 0 {
			return i, j
		}
	}
	return -1, -1
}

// Counts returns the number of spaces, collections and bookmarks in g.
func (g Graph) Counts() (spaces, collections, bookmarks int) {
	spaces = len(g)
	for _, s := range g {
		collections += len(s.Collections)
		for _, c := range s.Collections {
			bookmarks += len(c.Bookmarks)
		}
	}
	return spaces, collections, bookmarks
}

// Snapshot is the persisted state of one user: the graph plus the current space.
// CurrentSpace is empty when no space is selected.
type Snapshot struct {
	Spaces       Graph
	CurrentSpace string
}
