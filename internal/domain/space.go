package domain

import "time"

// DefaultSpaceName is the name of the space synthesized for a user with none.
const DefaultSpaceName = "Personal"

// Space is the top-level container of one user's collections.
type Space struct {
	// ID is unique across the graph.
	ID   string `json:"id"`
	Name string `json:"name"`

	// BackgroundImage is an optional URL or data-URI shown behind the space.
	BackgroundImage string `json:"backgroundImage"`

	// Collections order is display and drag-and-drop order.
	Collections []Collection `json:"collections"`

	CreatedAt time.Time `json:"createdAt"`
}

// Clone returns a deep copy of s.
func (s Space) Clone() Space {
	if s.Collections != nil {
		collections := make([]Collection, len(s.Collections))
		for i, c := range s.Collections {
			collections[i] = c.Clone()
		}
		s.Collections = collections
	}
	return s
}

// CollectionIndex returns the position of the collection with id, or -1.
func (s Space) CollectionIndex(id string) int {
	for i := range s.Collections {
		if s.Collections[i].ID == id {
			return i
		}
	}
	return -1
}

// CollectionIDs returns collection ids in order.
func (s Space) CollectionIDs() []string {
	ids := make([]string, len(s.Collections))
	for i := range s.Collections {
		ids[i] = s.Collections[i].ID
	}
	return ids
}
