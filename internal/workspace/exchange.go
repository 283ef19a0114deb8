package workspace

import (
	"context"
	"errors"

	"github.com/MrSnakeDoc/jump-spaces/internal/codec"
	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/logger"
	"github.com/MrSnakeDoc/jump-spaces/internal/search"
	"github.com/MrSnakeDoc/jump-spaces/internal/sources/homepage"
	"github.com/MrSnakeDoc/jump-spaces/internal/visibility"
)

// Export returns the user's whole graph as a portable document.
func (s *Service) Export(ctx context.Context, userID string) (codec.Document, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return codec.Document{}, err
	}
	return codec.Export(snap.Spaces), nil
}

// ExportSpace returns one space as a portable document.
func (s *Service) ExportSpace(ctx context.Context, userID, spaceID string) (codec.Document, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return codec.Document{}, err
	}
	return codec.ExportSpace(snap.Spaces, spaceID)
}

// Import replaces the user's graph with a decoded document. A rejected
// document leaves the graph untouched.
func (s *Service) Import(ctx context.Context, userID string, data []byte) (domain.Snapshot, error) {
	imported, err := codec.Import(data)
	if err != nil {
		return domain.Snapshot{}, err
	}
	s.rekeyForeignShares(userID, imported.Spaces)

	st, err := s.acquire(ctx, userID)
	if err != nil {
		return domain.Snapshot{}, err
	}
	defer st.mu.Unlock()

	s.commit(ctx, userID, "import", st, imported.Spaces, imported.CurrentSpace)
	spaces, collections, bookmarks := st.snap.Spaces.Counts()
	s.log.Info("imported graph",
		logger.String("user", userID),
		logger.Int("spaces", spaces),
		logger.Int("collections", collections),
		logger.Int("bookmarks", bookmarks))
	return cloneSnapshot(st.snap), nil
}

// rekeyForeignShares gives a fresh id to every collection of g whose id is
// already shared by another user. g is modified in place.
func (s *Service) rekeyForeignShares(userID string, g domain.Graph) {
	if s.shares == nil {
		return
	}
	for i := range g {
		for j := range g[i].Collections {
			c := &g[i].Collections[j]
			owner, ok := s.shares.Owner(c.ID)
			if !ok || owner == userID {
				continue
			}
			old := c.ID
			c.ID = s.engine.NewID()
			s.log.Warn("imported collection id is shared by another user, assigned a new id",
				logger.String("user", userID),
				logger.String("collection", old),
				logger.String("new_id", c.ID))
		}
	}
}

// ImportHomepage appends every Homepage group as a new collection of spaceID,
// or of the current space when spaceID is empty. Either all groups are
// imported or none.
func (s *Service) ImportHomepage(ctx context.Context, userID, spaceID string, groups []homepage.Group) (domain.Space, error) {
	st, err := s.acquire(ctx, userID)
	if err != nil {
		return domain.Space{}, err
	}
	defer st.mu.Unlock()

	if spaceID == "" {
		spaceID = st.snap.CurrentSpace
	}
	if st.snap.Spaces.SpaceIndex(spaceID) < 0 {
		return domain.Space{}, errs.NotFound("space", spaceID)
	}
	next := st.snap.Spaces
	for _, group := range groups {
		var c domain.Collection
		next, c, err = s.engine.CreateCollection(next, spaceID, domain.CollectionFields{Name: group.Name})
		if err != nil {
			return domain.Space{}, err
		}
		for _, f := range group.Bookmarks {
			if next, _, err = s.engine.CreateBookmark(next, spaceID, c.ID, f); err != nil {
				return domain.Space{}, errs.WithPrefix(group.Name, err)
			}
		}
	}

	s.commit(ctx, userID, "importHomepage", st, next, st.snap.CurrentSpace)
	s.log.Info("imported homepage groups",
		logger.String("user", userID),
		logger.String("space", spaceID),
		logger.Int("groups", len(groups)))
	return next[next.SpaceIndex(spaceID)].Clone(), nil
}

// Search ranks the user's bookmarks against query, within spaceID when set.
func (s *Service) Search(ctx context.Context, userID, query, spaceID string, limit int) ([]search.Hit, error) {
	snap, err := s.Snapshot(ctx, userID)
	if err != nil {
		return nil, err
	}
	if spaceID != "" {
		if snap.Spaces.SpaceIndex(spaceID) < 0 {
			return nil, errs.NotFound("space", spaceID)
		}
		return search.InSpace(snap.Spaces, spaceID, query, limit), nil
	}
	return search.Search(snap.Spaces, query, limit), nil
}

// ─────────────────────────────────────────────────────────────────
// Public views
// ─────────────────────────────────────────────────────────────────

// ShareLink is a public collection with its share URL.
type ShareLink struct {
	visibility.PublicCollection
	URL string `json:"url"`
}

// PublicProfile lists a user's public collections.
type PublicProfile struct {
	Username    string      `json:"username"`
	URL         string      `json:"url"`
	Collections []ShareLink `json:"collections"`
}

// PublicCollection resolves a shared collection of any user. Private and
// unknown collections are both reported as not found.
func (s *Service) PublicCollection(ctx context.Context, collectionID string) (visibility.PublicCollection, error) {
	if s.shares == nil {
		return visibility.PublicCollection{}, errs.NotFound("collection", collectionID)
	}
	owner, ok := s.shares.Owner(collectionID)
	if !ok {
		return visibility.PublicCollection{}, errs.NotFound("collection", collectionID)
	}
	g, err := s.view(ctx, owner)
	if err != nil {
		return visibility.PublicCollection{}, err
	}
	pc, err := visibility.ResolvePublicCollection(g, collectionID)
	if errors.Is(err, errs.ErrNotFound) {
		s.index(owner, g)
	}
	return pc, err
}

// PublicProfile returns every public collection of userID with share URLs.
// It never creates the user's workspace.
func (s *Service) PublicProfile(ctx context.Context, userID, username string) (PublicProfile, error) {
	g, err := s.view(ctx, userID)
	if err != nil {
		return PublicProfile{}, err
	}
	pubs := visibility.ResolvePublicCollectionsForUser(g)
	links := make([]ShareLink, len(pubs))
	for i, p := range pubs {
		links[i] = ShareLink{PublicCollection: p, URL: visibility.ShareURL(s.baseURL, p.Collection.ID)}
	}
	return PublicProfile{
		Username:    username,
		URL:         visibility.UserShareURL(s.baseURL, username),
		Collections: links,
	}, nil
}
