// Package broadcast implements the Broadcast Bus and Session Registry
// (spec.md §4/§6): process-wide username→session lookup, fan-out to
// connected clients, and the bus-level operations (give, destroy_entity,
// chat, flush_chunk) that hooks and the build/dig orchestrator call
// through the hooks.Factory interface. Grounded on the teacher's
// internal/server/player/manager.go (mutex-guarded map plus broadcast
// helpers), re-keyed by username instead of entity id per spec.md's
// registry invariant ("session.state == AUTHENTICATED iff session.player
// is Some and the session is in the global registry").
package broadcast

import (
	"context"
	"sync"

	"github.com/coldiron/betacraft/internal/location"
	"github.com/coldiron/betacraft/internal/wire"
	"github.com/coldiron/betacraft/internal/worldmodel"
)

// Handle is the subset of a Session that the registry and bus need. It is
// defined here (not in internal/session) so that broadcast has no
// dependency on session, even though session is the only implementation —
// the teacher's "duck-typed factory" becomes this explicit interface.
type Handle interface {
	Username() string
	EID() uint32
	Location() location.Location
	HasChunk(c worldmodel.ChunkCoord) bool
	Equipment() []wire.Packet
	WritePacket(p wire.Packet) error
	TeleportTo(loc location.Location)
	Save(ctx context.Context)
	Disconnect(reason string)
}

// Registry is the process-wide username→session map (spec.md §4's
// "Session Registry"). A session is present here iff it is authenticated
// (spec.md §3 invariant).
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]Handle
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]Handle)}
}

// Insert adds a session under username, called once authentication
// completes (spec.md §4.2 step 6).
func (r *Registry) Insert(username string, h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[username] = h
}

// Remove deletes a session, called on disconnect.
func (r *Registry) Remove(username string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, username)
}

// Get looks up a session by username.
func (r *Registry) Get(username string) (Handle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.sessions[username]
	return h, ok
}

// Usernames returns a snapshot of every registered username.
func (r *Registry) Usernames() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.sessions))
	for u := range r.sessions {
		out = append(out, u)
	}
	return out
}

// ForEach calls fn for every registered session under a read lock.
func (r *Registry) ForEach(fn func(Handle)) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, h := range r.sessions {
		fn(h)
	}
}

// Count returns the number of registered sessions.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
