package search

import (
	"cmp"
	"slices"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
)

// DefaultLimit caps the number of hits when no limit is given.
const DefaultLimit = 20

// Hit is one ranked bookmark with its location in the graph.
type Hit struct {
	SpaceID        string          `json:"spaceId"`
	CollectionID   string          `json:"collectionId"`
	CollectionName string          `json:"collectionName"`
	Bookmark       domain.Bookmark `json:"bookmark"`
	Score          float64         `json:"score"`
}

// Search ranks every bookmark of g against input, best first. Equal scores
// keep graph order. limit <= 0 selects DefaultLimit.
func Search(g domain.Graph, input string, limit int) []Hit {
	hits := []Hit{}
	q := ParseQuery(input)
	if q.Empty() {
		return hits
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	for _, sp := range g {
		for _, c := range sp.Collections {
			for _, b := range c.Bookmarks {
				score := ScoreBookmark(q, b)
				if score == 0 {
					continue
				}
				hits = append(hits, Hit{
					SpaceID:        sp.ID,
					CollectionID:   c.ID,
					CollectionName: c.Name,
					Bookmark:       b.Clone(),
					Score:          score,
				})
			}
		}
	}

	slices.SortStableFunc(hits, func(a, b Hit) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// InSpace is Search restricted to one space.
func InSpace(g domain.Graph, spaceID, input string, limit int) []Hit {
	i := g.SpaceIndex(spaceID)
	if i < 0 {
		return []Hit{}
	}
	return Search(g[i:i+1], input, limit)
}
