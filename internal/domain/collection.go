package domain

import "time"

// ViewMode selects how a collection lays out its bookmarks.
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// Valid reports whether v is one of the known view modes.
func (v ViewMode) Valid() bool {
	return v == ViewGrid || v == ViewList
}

const (
	// MinWidth and MaxWidth bound a collection's column span.
	MinWidth = 1
	MaxWidth = 4
)

// Collection is a named, ordered group of bookmarks owned by exactly one Space.
type Collection struct {
	// ID is unique within the owning space.
	ID string `json:"id"`

	Name        string `json:"name"`
	Description string `json:"description"`

	// ─────────────────────────────
	// Display preferences
	// ─────────────────────────────

	Icon     string   `json:"icon"`
	Color    string   `json:"color"` // hex, e.g. #3B82F6
	Width    int      `json:"width"` // column span in [MinWidth, MaxWidth]
	ViewMode ViewMode `json:"viewMode"`

	// IsPublic governs external visibility through the public resolver.
	IsPublic bool `json:"isPublic"`

	// IsCollapsed is UI state, persisted with the graph.
	IsCollapsed bool `json:"isCollapsed"`

	// Bookmarks order is display and drag-and-drop order.
	Bookmarks []Bookmark `json:"bookmarks"`

	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy of c.
func (c Collection) Clone() Collection {
	if c.Bookmarks != nil {
		bookmarks := make([]Bookmark, len(c.Bookmarks))
		for i, b := range c.Bookmarks {
			bookmarks[i] = b.Clone()
		}
		c.Bookmarks = bookmarks
	}
	return c
}

// BookmarkIndex returns the position of the bookmark with id, or -1.
func (c Collection) BookmarkIndex(id string) int {
	for i := range c.Bookmarks {
		if c.Bookmarks[i].ID == id {
			return i
		}
	}
	return -1
}

// BookmarkIDs returns bookmark ids in order.
func (c Collection) BookmarkIDs() []string {
	ids := make([]string, len(c.Bookmarks))
	for i := range c.Bookmarks {
		ids[i] = c.Bookmarks[i].ID
	}
	return ids
}

// CollectionFields are the caller-supplied fields of a new collection.
// Zero values select the defaults (width 1, grid, private).
type CollectionFields struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Icon        string   `json:"icon"`
	Color       string   `json:"color"`
	Width       int      `json:"width"`
	ViewMode    ViewMode `json:"viewMode"`
	IsPublic    bool     `json:"isPublic"`
}
