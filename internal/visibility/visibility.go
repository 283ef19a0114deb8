// Package visibility computes the externally shareable views of a graph.
//
// Resolution always reads the graph it is given; nothing is cached, so a
// collection made private is unresolvable on the next call.
package visibility

import (
	"net/url"
	"strings"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

// PublicCollection is a read-only projection of one public collection.
// It never references sibling collections or the rest of the owning space.
type PublicCollection struct {
	SpaceID    string            `json:"spaceId"`
	SpaceName  string            `json:"spaceName"`
	Collection domain.Collection `json:"collection"`
}

// ResolvePublicCollection finds the collection with collectionID and returns it
// only when it is public.
func ResolvePublicCollection(g domain.Graph, collectionID string) (PublicCollection, error) {
	for _, s := range g {
		for ci, c := range s.Collections {
			if c.ID == collectionID && c.IsPublic {
				return project(s, ci), nil
			}
		}
	}
	return PublicCollection{}, errs.NotFound("collection", collectionID)
}

// ResolvePublicCollectionsForUser lists every public collection in graph order.
func ResolvePublicCollectionsForUser(g domain.Graph) []PublicCollection {
	out := []PublicCollection{}
	for _, s := range g {
		for ci, c := range s.Collections {
			if c.IsPublic {
				out = append(out, project(s, ci))
			}
		}
	}
	return out
}

func project(s domain.Space, ci int) PublicCollection {
	return PublicCollection{
		SpaceID:    s.ID,
		SpaceName:  s.Name,
		Collection: s.Collections[ci].Clone(),
	}
}

// ShareURL returns the public link of one collection: <base>/#/share/<id>.
func ShareURL(base, collectionID string) string {
	return strings.TrimRight(base, "/") + "/#/share/" + url.PathEscape(collectionID)
}

// UserShareURL returns the public link listing a user's collections: <base>/#/u/<username>.
func UserShareURL(base, username string) string {
	return strings.TrimRight(base, "/") + "/#/u/" + url.PathEscape(username)
}
