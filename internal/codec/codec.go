// Package codec converts graphs to and from their portable JSON documents.
//
// Two documents exist: the user-facing export {"spaces": [...]} and the
// persisted snapshot {"spaces": [...], "currentSpace": id|null}.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
	"github.com/MrSnakeDoc/jump-spaces/internal/selector"
)

// Document is the export format.
type Document struct {
	Spaces domain.Graph `json:"spaces"`
}

// Export returns a deep, structurally complete copy of g as a document.
func Export(g domain.Graph) Document {
	spaces := g.Clone()
	if spaces == nil {
		spaces = domain.Graph{}
	}
	return Document{Spaces: spaces}
}

// ExportSpace exports a single space.
func ExportSpace(g domain.Graph, spaceID string) (Document, error) {
	i := g.SpaceIndex(spaceID)
	if i < 0 {
		return Document{}, errs.NotFound("space", spaceID)
	}
	return Document{Spaces: domain.Graph{g[i].Clone()}}, nil
}

// Encode writes v as JSON indented by two spaces.
func Encode(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// ExportFilename returns the download name <product>-bookmarks-<YYYY-MM-DD>.json.
func ExportFilename(product string, t time.Time) string {
	return fmt.Sprintf("%s-bookmarks-%s.json", product, t.Format(time.DateOnly))
}

// Import parses and validates an export document.
//
// The whole document is rejected on the first structural failure; nothing is
// partially imported. On success the current space is the first space, or
// selector.None for an empty document. Unknown keys are ignored.
func Import(data []byte) (domain.Snapshot, error) {
	g, err := decodeSpaces(data)
	if err != nil {
		return domain.Snapshot{}, err
	}
	return domain.Snapshot{Spaces: g, CurrentSpace: selector.First(g)}, nil
}

func decodeSpaces(data []byte) (domain.Graph, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, errs.Invalidf("document", "not a JSON object: %v", err)
	}

	raw, ok := top["spaces"]
	if !ok {
		return nil, errs.Invalid("spaces", "is required")
	}
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, errs.Invalid("spaces", "must be an array")
	}

	var g domain.Graph
	if err := json.Unmarshal(raw, &g); err != nil {
		return nil, errs.Invalidf("spaces", "malformed: %v", err)
	}
	if err := domain.ValidateGraph(g); err != nil {
		return nil, err
	}
	return g, nil
}

type snapshotDoc struct {
	Spaces       domain.Graph `json:"spaces"`
	CurrentSpace *string      `json:"currentSpace"`
}

// EncodeSnapshot serializes a snapshot for persistence.
func EncodeSnapshot(s domain.Snapshot) ([]byte, error) {
	doc := snapshotDoc{Spaces: s.Spaces}
	if doc.Spaces == nil {
		doc.Spaces = domain.Graph{}
	}
	if s.CurrentSpace != selector.None {
		current := s.CurrentSpace
		doc.CurrentSpace = &current
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshot parses a persisted snapshot and validates its graph.
// The current space is kept as stored; callers reconcile it.
func DecodeSnapshot(data []byte) (domain.Snapshot, error) {
	g, err := decodeSpaces(data)
	if err != nil {
		return domain.Snapshot{}, err
	}

	var doc struct {
		CurrentSpace *string `json:"currentSpace"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return domain.Snapshot{}, errs.Invalidf("currentSpace", "malformed: %v", err)
	}

	s := domain.Snapshot{Spaces: g}
	if doc.CurrentSpace != nil {
		s.CurrentSpace = *doc.CurrentSpace
	}
	return s, nil
}
