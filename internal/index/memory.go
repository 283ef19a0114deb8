// Package index keeps the lookup from public collection ids to their owners,
// so a share link resolves without knowing whose graph holds it.
package index

import (
	"sort"
	"sync"
	"time"
)

// MemoryIndex is an in-process share index.
type MemoryIndex struct {
	mu       sync.RWMutex
	owners   map[string]string   // collection ID -> user ID
	byUser   map[string][]string // user ID -> public collection IDs
	lastSync time.Time           // timestamp of the last full rebuild
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		owners: make(map[string]string),
		byUser: make(map[string][]string),
	}
}

// SetUser replaces the public collections owned by userID. An id already
// owned by another user stays with that user; SetUser returns those ids.
func (idx *MemoryIndex) SetUser(userID string, collectionIDs []string) (taken []string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return idx.setUser(userID, collectionIDs)
}

// setUser must be called with mu held.
func (idx *MemoryIndex) setUser(userID string, collectionIDs []string) (taken []string) {
	for _, id := range idx.byUser[userID] {
		if idx.owners[id] == userID {
			delete(idx.owners, id)
		}
	}
	ids := make([]string, 0, len(collectionIDs))
	for _, id := range collectionIDs {
		if owner, ok := idx.owners[id]; ok && owner != userID {
			taken = append(taken, id)
			continue
		}
		idx.owners[id] = userID
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		delete(idx.byUser, userID)
		return taken
	}
	idx.byUser[userID] = ids
	return taken
}

// RemoveUser drops every entry of userID.
func (idx *MemoryIndex) RemoveUser(userID string) {
	idx.SetUser(userID, nil)
}

// Replace rebuilds the whole index from userID -> collection IDs and returns
// how many ids were left out because another user claimed them first.
// Current owners keep their ids; remaining conflicts go to the user sorting
// first.
func (idx *MemoryIndex) Replace(all map[string][]string) (conflicts int) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	prev := idx.owners
	idx.owners = make(map[string]string)
	idx.byUser = make(map[string][]string, len(all))
	users := make([]string, 0, len(all))
	for u := range all {
		users = append(users, u)
	}
	sort.Strings(users)

	for _, u := range users {
		for _, id := range all[u] {
			if prev[id] == u {
				idx.owners[id] = u
			}
		}
	}
	for _, u := range users {
		conflicts += len(idx.setUser(u, all[u]))
	}
	idx.lastSync = time.Now()
	return conflicts
}

// Owner returns the user owning a public collection.
func (idx *MemoryIndex) Owner(collectionID string) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	owner, ok := idx.owners[collectionID]
	return owner, ok
}

// Collections returns the public collection IDs of userID.
func (idx *MemoryIndex) Collections(userID string) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return append([]string{}, idx.byUser[userID]...)
}

// Count returns the number of indexed public collections.
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.owners)
}

// Users returns the number of users with at least one public collection.
func (idx *MemoryIndex) Users() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.byUser)
}

// GetLastSync returns the timestamp of the last full rebuild.
func (idx *MemoryIndex) GetLastSync() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastSync
}
