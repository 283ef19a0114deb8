package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

// SpacePatch lists the space fields an update may change. Nil fields are retained.
type SpacePatch struct {
	Name            *string `json:"name,omitempty"`
	BackgroundImage *string `json:"backgroundImage,omitempty"`
}

// Apply merges p into s.
func (p SpacePatch) Apply(s Space) Space {
	if p.Name != nil {
		s.Name = *p.Name
	}
	if p.BackgroundImage != nil {
		s.BackgroundImage = *p.BackgroundImage
	}
	return s
}

// CollectionPatch lists the collection fields an update may change.
type CollectionPatch struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Icon        *string   `json:"icon,omitempty"`
	Color       *string   `json:"color,omitempty"`
	Width       *int      `json:"width,omitempty"`
	ViewMode    *ViewMode `json:"viewMode,omitempty"`
	IsPublic    *bool     `json:"isPublic,omitempty"`
	IsCollapsed *bool     `json:"isCollapsed,omitempty"`
}

// Apply merges p into c. Bookmarks are never touched by a patch.
func (p CollectionPatch) Apply(c Collection) Collection {
	if p.Name != nil {
		c.Name = *p.Name
	}
	if p.Description != nil {
		c.Description = *p.Description
	}
	if p.Icon != nil {
		c.Icon = *p.Icon
	}
	if p.Color != nil {
		c.Color = *p.Color
	}
	if p.Width != nil {
		c.Width = *p.Width
	}
	if p.ViewMode != nil {
		c.ViewMode = *p.ViewMode
	}
	if p.IsPublic != nil {
		c.IsPublic = *p.IsPublic
	}
	if p.IsCollapsed != nil {
		c.IsCollapsed = *p.IsCollapsed
	}
	return c
}

// BookmarkPatch lists the bookmark fields an update may change.
type BookmarkPatch struct {
	Title         *string   `json:"title,omitempty"`
	URL           *string   `json:"url,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Tags          *[]string `json:"tags,omitempty"`
	Notes         *string   `json:"notes,omitempty"`
	Favicon       *string   `json:"favicon,omitempty"`
	HasCustomIcon *bool     `json:"hasCustomIcon,omitempty"`
}

// Apply merges p into b.
func (p BookmarkPatch) Apply(b Bookmark) Bookmark {
	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.URL != nil {
		b.URL = *p.URL
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.Tags != nil {
		b.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.Notes != nil {
		b.Notes = *p.Notes
	}
	if p.Favicon != nil {
		b.Favicon = *p.Favicon
	}
	if p.HasCustomIcon != nil {
		b.HasCustomIcon = *p.HasCustomIcon
	}
	return b
}

// DecodeStrict decodes one JSON object into T, rejecting unknown keys and trailing data.
// Failures are reported as validation errors.
func DecodeStrict[T any](data []byte) (T, error) {
	var v T
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, errs.Invalid("body", err.Error())
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return v, errs.Invalid("body", "unexpected data after JSON object")
	}
	return v, nil
}
