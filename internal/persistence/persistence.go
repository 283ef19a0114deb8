// Package persistence defines the snapshot store shared by every backend.
//
// A store holds one domain.Snapshot per user. Backends are interchangeable:
// memory, file, redis (local snapshot) and postgres (row-backed).
package persistence

import (
	"context"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
)

// DefaultTTL is how long a local snapshot survives without being saved again.
const DefaultTTL = 30 * 24 * time.Hour

// Store loads and saves whole snapshots. Load returns an error wrapping
// errs.ErrNotFound when the user has no snapshot or it expired.
type Store interface {
	Load(ctx context.Context, userID string) (domain.Snapshot, error)
	Save(ctx context.Context, userID string, s domain.Snapshot) error
	Delete(ctx context.Context, userID string) error
}

// Lister is implemented by stores that can enumerate their users.
type Lister interface {
	Users(ctx context.Context) ([]string, error)
}

// Purger is implemented by stores whose expired snapshots need explicit removal.
type Purger interface {
	Purge(ctx context.Context, now time.Time) (int, error)
}

// Normalize returns a copy of s with every timestamp at domain.TimePrecision.
// Stores save the normalized copy, so a loaded snapshot matches on any backend.
func Normalize(s domain.Snapshot) domain.Snapshot {
	g := s.Spaces.Clone()
	for i := range g {
		sp := &g[i]
		sp.CreatedAt = domain.Timestamp(sp.CreatedAt)
		for j := range sp.Collections {
			c := &sp.Collections[j]
			c.CreatedAt = domain.Timestamp(c.CreatedAt)
			for k := range c.Bookmarks {
				c.Bookmarks[k].CreatedAt = domain.Timestamp(c.Bookmarks[k].CreatedAt)
			}
		}
	}
	return domain.Snapshot{Spaces: g, CurrentSpace: s.CurrentSpace}
}

// Expired reports whether a snapshot saved at savedAt is past ttl at now.
// A non-positive ttl never expires.
func Expired(savedAt time.Time, ttl time.Duration, now time.Time) bool {
	return ttl > 0 && !now.Before(savedAt.Add(ttl))
}
