package presence

import (
	"slices"
	"sync"
)

// Registry is the server-side mapping from identity to its active realtime
// connections. Safe for concurrent use from many channel authenticate/close
// events.
type Registry struct {
	mu          sync.RWMutex
	connections map[string]map[string]struct{} // identity -> connection IDs
}

// NewRegistry creates an empty presence registry.
func NewRegistry() *Registry {
	return &Registry{
		connections: make(map[string]map[string]struct{}),
	}
}

// Add registers a connection under the identity and returns the online
// snapshot reflecting the change.
func (r *Registry) Add(userID, connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.connections[userID]
	if !ok {
		set = make(map[string]struct{})
		r.connections[userID] = set
	}
	set[connID] = struct{}{}

	return r.snapshotLocked()
}

// Remove deregisters a connection and returns the online snapshot reflecting
// the change. Removing the identity's last connection takes it offline.
// Unknown connections are a no-op.
func (r *Registry) Remove(userID, connID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if set, ok := r.connections[userID]; ok {
		delete(set, connID)
		if len(set) == 0 {
			delete(r.connections, userID)
		}
	}

	return r.snapshotLocked()
}

// Online returns the current snapshot: distinct identities holding at least
// one connection, sorted for deterministic output.
func (r *Registry) Online() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// ConnectionCount reports how many connections the identity currently holds.
func (r *Registry) ConnectionCount(userID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.connections[userID])
}

func (r *Registry) snapshotLocked() []string {
	online := make([]string, 0, len(r.connections))
	for userID := range r.connections {
		online = append(online, userID)
	}
	slices.Sort(online)
	return online
}
