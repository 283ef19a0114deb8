package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/persistence"
)

const (
	qSelectState = `SELECT current_space, saved_at FROM workspace_state WHERE user_id=$1`

	qSelectSpaces = `
SELECT id, name, background_image, created_at
FROM spaces WHERE user_id=$1
ORDER BY position`

	qSelectCollections = `
SELECT space_id, id, name, description, icon, color, width, view_mode, is_public, is_collapsed, created_at
FROM collections WHERE user_id=$1
ORDER BY space_id, position`

	qSelectBookmarks = `
SELECT space_id, collection_id, id, title, url, description, tags, notes, favicon, has_custom_icon, created_at
FROM bookmarks WHERE user_id=$1
ORDER BY space_id, collection_id, position`

	qUpsertState = `
INSERT INTO workspace_state (user_id, current_space, saved_at)
VALUES ($1, $2, $3)
ON CONFLICT (user_id) DO UPDATE
SET current_space = EXCLUDED.current_space, saved_at = EXCLUDED.saved_at`

	qDeleteSpaces = `DELETE FROM spaces WHERE user_id=$1`

	qInsertSpace = `
INSERT INTO spaces (user_id, id, position, name, background_image, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`

	qInsertCollection = `
INSERT INTO collections (user_id, space_id, id, position, name, description, icon, color, width, view_mode, is_public, is_collapsed, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	qInsertBookmark = `
INSERT INTO bookmarks (user_id, space_id, collection_id, id, position, title, url, description, tags, notes, favicon, has_custom_icon, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

	qDeleteState = `DELETE FROM workspace_state WHERE user_id=$1`

	qAllUsers  = `SELECT user_id FROM workspace_state ORDER BY user_id`
	qLiveUsers = `SELECT user_id FROM workspace_state WHERE saved_at > $1 ORDER BY user_id`

	qPurge = `DELETE FROM workspace_state WHERE saved_at <= $1`
)

// SnapshotStore keeps each snapshot as spaces, collections and bookmarks rows
// ordered by a position column. A save replaces all rows of the user at once.
type SnapshotStore struct {
	db  *DB
	ttl time.Duration
	now func() time.Time
}

var (
	_ persistence.Store  = (*SnapshotStore)(nil)
	_ persistence.Lister = (*SnapshotStore)(nil)
	_ persistence.Purger = (*SnapshotStore)(nil)
)

// NewSnapshotStore constructs a row-backed store (ttl 0 disables expiry).
func NewSnapshotStore(db *DB, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{db: db, ttl: ttl, now: time.Now}
}

// WithClock replaces the store's clock.
func (s *SnapshotStore) WithClock(now func() time.Time) *SnapshotStore {
	s.now = now
	return s
}

// Load reads the user's rows back into a snapshot.
func (s *SnapshotStore) Load(ctx context.Context, userID string) (snap domain.Snapshot, err error) {
	err = s.db.inTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, func(tx pgx.Tx) error {
		var (
			current *string
			savedAt time.Time
		)
		if err := tx.QueryRow(ctx, qSelectState, userID).Scan(&current, &savedAt); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errs.NotFound("snapshot", userID)
			}
			return fmt.Errorf("failed to load workspace state: %w", err)
		}
		if persistence.Expired(savedAt, s.ttl, s.now()) {
			return errs.NotFound("snapshot", userID)
		}
		if current != nil {
			snap.CurrentSpace = *current
		}

		g, err := loadGraph(ctx, tx, userID)
		if err != nil {
			return err
		}
		snap.Spaces = g
		return nil
	})
	if err != nil {
		return domain.Snapshot{}, err
	}
	return snap, nil
}

func loadGraph(ctx context.Context, tx pgx.Tx, userID string) (domain.Graph, error) {
	g := domain.Graph{}
	spaceIdx := map[string]int{}

	rows, err := tx.Query(ctx, qSelectSpaces, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load spaces: %w", err)
	}
	for rows.Next() {
		sp := domain.Space{Collections: []domain.Collection{}}
		if err := rows.Scan(&sp.ID, &sp.Name, &sp.BackgroundImage, &sp.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		sp.CreatedAt = utc(sp.CreatedAt)
		spaceIdx[sp.ID] = len(g)
		g = append(g, sp)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	type colKey struct{ space, id string }
	colIdx := map[colKey]int{}

	rows, err = tx.Query(ctx, qSelectCollections, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load collections: %w", err)
	}
	for rows.Next() {
		var (
			spaceID  string
			viewMode string
			c        = domain.Collection{Bookmarks: []domain.Bookmark{}}
		)
		if err := rows.Scan(&spaceID, &c.ID, &c.Name, &c.Description, &c.Icon, &c.Color,
			&c.Width, &viewMode, &c.IsPublic, &c.IsCollapsed, &c.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		si, ok := spaceIdx[spaceID]
		if !ok {
			continue
		}
		c.ViewMode = domain.ViewMode(viewMode)
		c.CreatedAt = utc(c.CreatedAt)
		colIdx[colKey{spaceID, c.ID}] = len(g[si].Collections)
		g[si].Collections = append(g[si].Collections, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = tx.Query(ctx, qSelectBookmarks, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load bookmarks: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			spaceID, colID string
			b              domain.Bookmark
		)
		if err := rows.Scan(&spaceID, &colID, &b.ID, &b.Title, &b.URL, &b.Description,
			&b.Tags, &b.Notes, &b.Favicon, &b.HasCustomIcon, &b.CreatedAt); err != nil {
			return nil, err
		}
		ci, ok := colIdx[colKey{spaceID, colID}]
		if !ok {
			continue
		}
		si := spaceIdx[spaceID]
		b.CreatedAt = utc(b.CreatedAt)
		g[si].Collections[ci].Bookmarks = append(g[si].Collections[ci].Bookmarks, b)
	}
	return g, rows.Err()
}

// Save replaces the user's rows with snap in one transaction.
func (s *SnapshotStore) Save(ctx context.Context, userID string, snap domain.Snapshot) error {
	snap = persistence.Normalize(snap)
	return s.db.inTx(ctx, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, qUpsertState, userID, nullable(snap.CurrentSpace), utc(s.now())); err != nil {
			return fmt.Errorf("failed to save workspace state: %w", err)
		}
		if _, err := tx.Exec(ctx, qDeleteSpaces, userID); err != nil {
			return fmt.Errorf("failed to clear spaces: %w", err)
		}
		for i, sp := range snap.Spaces {
			if _, err := tx.Exec(ctx, qInsertSpace, userID, sp.ID, i, sp.Name, sp.BackgroundImage, sp.CreatedAt); err != nil {
				return fmt.Errorf("failed to insert space %s: %w", sp.ID, err)
			}
			for j, c := range sp.Collections {
				if _, err := tx.Exec(ctx, qInsertCollection, userID, sp.ID, c.ID, j, c.Name, c.Description,
					c.Icon, c.Color, c.Width, string(c.ViewMode), c.IsPublic, c.IsCollapsed, c.CreatedAt); err != nil {
					return fmt.Errorf("failed to insert collection %s: %w", c.ID, err)
				}
				for k, b := range c.Bookmarks {
					if _, err := tx.Exec(ctx, qInsertBookmark, userID, sp.ID, c.ID, b.ID, k, b.Title, b.URL,
						b.Description, b.Tags, b.Notes, b.Favicon, b.HasCustomIcon, b.CreatedAt); err != nil {
						return fmt.Errorf("failed to insert bookmark %s: %w", b.ID, err)
					}
				}
			}
		}
		return nil
	})
}

// Delete removes the user's state; spaces and below cascade.
func (s *SnapshotStore) Delete(ctx context.Context, userID string) error {
	if _, err := s.db.Pool.Exec(ctx, qDeleteState, userID); err != nil {
		return fmt.Errorf("failed to delete snapshot: %w", err)
	}
	return nil
}

// Users returns the ids of users with a live snapshot, sorted.
func (s *SnapshotStore) Users(ctx context.Context) ([]string, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if s.ttl > 0 {
		rows, err = s.db.Pool.Query(ctx, qLiveUsers, utc(s.now().Add(-s.ttl)))
	} else {
		rows, err = s.db.Pool.Query(ctx, qAllUsers)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Purge deletes every snapshot expired at now.
func (s *SnapshotStore) Purge(ctx context.Context, now time.Time) (int, error) {
	if s.ttl <= 0 {
		return 0, nil
	}
	tag, err := s.db.Pool.Exec(ctx, qPurge, utc(now.Add(-s.ttl)))
	if err != nil {
		return 0, fmt.Errorf("failed to purge snapshots: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
