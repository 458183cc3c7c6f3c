package presence

import (
	"sort"
	"sync"
)

// Registry maps user ids to their live connection id. At most one
// connection per user: a new register supersedes the previous one
// (last connect wins). All methods are safe for concurrent use and
// none performs I/O, so no caller ever blocks the lock for long.
type Registry struct {
	mu    sync.RWMutex
	conns map[string]string // userID -> connID
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		conns: make(map[string]string),
	}
}

// Register binds userID to connID, overwriting any prior entry.
// It returns the superseded connection id, if there was one.
func (r *Registry) Register(userID, connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, had := r.conns[userID]
	r.conns[userID] = connID
	return prev, had && prev != connID
}

// Unregister removes the entry for userID, but only if connID is still
// the registered connection. A stale disconnect from a superseded
// connection must not evict a newer one.
func (r *Registry) Unregister(userID, connID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.conns[userID]; ok && current == connID {
		delete(r.conns, userID)
		return true
	}
	return false
}

// Lookup returns the live connection id for userID, if present.
func (r *Registry) Lookup(userID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	connID, ok := r.conns[userID]
	return connID, ok
}

// OnlineUserIDs returns the sorted set of user ids with a live connection.
func (r *Registry) OnlineUserIDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.conns))
	for userID := range r.conns {
		ids = append(ids, userID)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of registered users.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conns)
}
