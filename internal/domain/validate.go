package domain

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

var hexColor = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)

// IsValidURL reports whether s parses as an absolute URL with a scheme and a host.
func IsValidURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// IsValidColor reports whether s is empty or a #rgb, #rgba, #rrggbb or #rrggbbaa color.
func IsValidColor(s string) bool {
	return s == "" || hexColor.MatchString(s)
}

// ValidateBookmark checks a bookmark's own invariants.
func ValidateBookmark(b Bookmark) error {
	if b.ID == "" {
		return errs.Invalid("id", "must not be empty")
	}
	if strings.TrimSpace(b.URL) == "" {
		return errs.Invalid("url", "must not be empty")
	}
	if !IsValidURL(b.URL) {
		return errs.Invalidf("url", "%q is not an absolute URL", b.URL)
	}
	for i, tag := range b.Tags {
		if tag == "" || tag != strings.TrimSpace(tag) {
			return errs.Invalidf(fmt.Sprintf("tags[%d]", i), "%q must be a non-empty trimmed string", tag)
		}
	}
	return nil
}

// ValidateCollection checks a collection and every bookmark it owns.
func ValidateCollection(c Collection) error {
	if c.ID == "" {
		return errs.Invalid("id", "must not be empty")
	}
	if strings.TrimSpace(c.Name) == "" {
		return errs.Invalid("name", "must not be empty")
	}
	if c.Width < MinWidth || c.Width > MaxWidth {
		return errs.Invalidf("width", "%d is outside [%d,%d]", c.Width, MinWidth, MaxWidth)
	}
	if !c.ViewMode.Valid() {
		return errs.Invalidf("viewMode", "%q is not one of grid, list", c.ViewMode)
	}
	if !IsValidColor(c.Color) {
		return errs.Invalidf("color", "%q is not a hex color", c.Color)
	}

	seen := make(map[string]bool, len(c.Bookmarks))
	for i, b := range c.Bookmarks {
		field := fmt.Sprintf("bookmarks[%d]", i)
		if err := ValidateBookmark(b); err != nil {
			return errs.WithPrefix(field, err)
		}
		if seen[b.ID] {
			return errs.Invalidf(field+".id", "duplicate bookmark id %q", b.ID)
		}
		seen[b.ID] = true
	}
	return nil
}

// ValidateSpace checks a space and everything it owns.
func ValidateSpace(s Space) error {
	if s.ID == "" {
		return errs.Invalid("id", "must not be empty")
	}
	if strings.TrimSpace(s.Name) == "" {
		return errs.Invalid("name", "must not be empty")
	}

	seen := make(map[string]bool, len(s.Collections))
	for i, c := range s.Collections {
		field := fmt.Sprintf("collections[%d]", i)
		if err := ValidateCollection(c); err != nil {
			return errs.WithPrefix(field, err)
		}
		if seen[c.ID] {
			return errs.Invalidf(field+".id", "duplicate collection id %q", c.ID)
		}
		seen[c.ID] = true
	}
	return nil
}

// ValidateGraph checks every space and the graph-wide uniqueness of space ids.
func ValidateGraph(g Graph) error {
	seen := make(map[string]bool, len(g))
	for i, s := range g {
		field := fmt.Sprintf("spaces[%d]", i)
		if err := ValidateSpace(s); err != nil {
			return errs.WithPrefix(field, err)
		}
		if seen[s.ID] {
			return errs.Invalidf(field+".id", "duplicate space id %q", s.ID)
		}
		seen[s.ID] = true
	}
	return nil
}
