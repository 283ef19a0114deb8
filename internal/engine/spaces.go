package engine

import (
	"strings"

	"github.com/MrSnakeDoc/jump-spaces/internal/domain"
	"github.com/MrSnakeDoc/jump-spaces/internal/errs"
)

// CreateSpace appends a new empty space named name (trimmed).
func (e *Engine) CreateSpace(g domain.Graph, name string) (domain.Graph, domain.Space, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return g, domain.Space{}, errs.Invalid("name", "must not be empty")
	}

	space := domain.Space{
		ID:          e.ids.NewID(),
		Name:        name,
		Collections: []domain.Collection{},
		CreatedAt:   e.now(),
	}

	out := append(g.Clone(), space)
	return out, space.Clone(), nil
}

// UpdateSpace merges p into the space with spaceID.
func (e *Engine) UpdateSpace(g domain.Graph, spaceID string, p domain.SpacePatch) (domain.Graph, error) {
	i := g.SpaceIndex(spaceID)
	if i < 0 {
		return g, nil
	}
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		if name == "" {
			return g, errs.Invalid("name", "must not be empty")
		}
		p.Name = &name
	}

	out := g.Clone()
	out[i] = p.Apply(out[i])
	return out, nil
}

// DeleteSpace removes the space with spaceID and everything it owns.
// Choosing a new current space is the selector's job.
func (e *Engine) DeleteSpace(g domain.Graph, spaceID string) domain.Graph {
	i := g.SpaceIndex(spaceID)
	if i < 0 {
		return g
	}

	out := make(domain.Graph, 0, len(g)-1)
	for j, s := range g {
		if j != i {
			out = append(out, s.Clone())
		}
	}
	return out
}
