// Package ids provides the id generators injected into the mutation engine.
package ids

import (
	"fmt"
	"sync"

	"github.com/gofrs/uuid/v5"
)

// Generator returns a fresh unique identifier on every call.
type Generator interface {
	NewID() string
}

// UUID generates random version 4 UUIDs.
type UUID struct{}

// NewID returns a new UUIDv4 string. It panics only if the system entropy source fails.
func (UUID) NewID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// Sequence generates deterministic ids "<prefix>-1", "<prefix>-2", ...
// It is safe for concurrent use.
type Sequence struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequence returns a Sequence using prefix.
func NewSequence(prefix string) *Sequence {
	return &Sequence{prefix: prefix}
}

// NewID returns the next id in the sequence.
func (s *Sequence) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	return fmt.Sprintf("%s-%d", s.prefix, s.n)
}
