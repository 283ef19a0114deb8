package domain

import (
	"strings"
	"time"
)

// Bookmark is a single saved link owned by exactly one Collection.
type Bookmark struct {
	// ─────────────────────────────
	// Identity (immutable)
	// ─────────────────────────────

	// ID is unique within the owning collection.
	ID string `json:"id"`

	// ─────────────────────────────
	// Link & metadata
	// ─────────────────────────────

	// Title falls back to URL when blank.
	Title string `json:"title"`

	// URL is absolute, with scheme and host.
	// Example: https://news.example.com
	URL string `json:"url"`

	Description string `json:"description"`

	// Tags are trimmed, non-empty and order-preserving.
	// Duplicates are kept as given.
	Tags []string `json:"tags"`

	Notes string `json:"notes"`

	// ─────────────────────────────
	// Icon
	// ─────────────────────────────

	// Favicon is either a URL or a data-URI.
	Favicon string `json:"favicon"`

	// HasCustomIcon marks Favicon as a user-supplied data-URI.
	// Otherwise Favicon is derived from URL and may be re-derived lazily.
	HasCustomIcon bool `json:"hasCustomIcon"`

	// CreatedAt is set once by the mutation engine.
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayTitle returns Title, or URL when Title is blank.
func (b Bookmark) DisplayTitle() string {
	if strings.TrimSpace(b.Title) == "" {
		return b.URL
	}
	return b.Title
}

// Clone returns a deep copy of b. A nil tag slice stays nil.
func (b Bookmark) Clone() Bookmark {
	if b.Tags != nil {
		b.Tags = append(make([]string, 0, len(b.Tags)), b.Tags...)
	}
	return b
}

// NormalizeTags trims every tag and drops empty ones, keeping order and duplicates.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if t := strings.TrimSpace(tag); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// BookmarkFields are the caller-supplied fields of a new bookmark.
type BookmarkFields struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Description   string   `json:"description"`
	Tags          []string `json:"tags"`
	Notes         string   `json:"notes"`
	Favicon       string   `json:"favicon"`
	HasCustomIcon bool     `json:"hasCustomIcon"`
}
