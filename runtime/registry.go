package runtime

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"iter"
	"maps"
	"sync"
)

// Registry maps each identity to its single live outbound channel.
// Every operation holds the same mutex, which serializes register and unregister per identity.
type Registry struct {
	mu       sync.RWMutex
	sessions map[domain.Identity]contract.Outbound
}

func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[domain.Identity]contract.Outbound),
	}
}

// Register associates the identity with its outbound channel.
// A channel already registered for the identity is replaced and returned so that the caller can
// close it; the registry never closes channels itself.
func (r *Registry) Register(identity domain.Identity, outbound contract.Outbound) contract.Outbound {
	r.mu.Lock()
	defer r.mu.Unlock()

	previous := r.sessions[identity]
	r.sessions[identity] = outbound
	if previous == outbound {
		return nil
	}
	return previous
}

// Lookup never blocks on I/O, only on the registry lock.
func (r *Registry) Lookup(identity domain.Identity) (contract.Outbound, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	outbound, ok := r.sessions[identity]
	return outbound, ok
}

func (r *Registry) Unregister(identity domain.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, identity)
}

// UnregisterIf removes the entry only while it still points to outbound.
// A stale connection closing after being replaced therefore cannot evict the newer session.
func (r *Registry) UnregisterIf(identity domain.Identity, outbound contract.Outbound) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[identity]; !ok || current != outbound {
		return false
	}
	delete(r.sessions, identity)
	return true
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// All iterates over a copy taken under the lock, so the callback may unregister sessions.
func (r *Registry) All() iter.Seq2[domain.Identity, contract.Outbound] {
	r.mu.RLock()
	snapshot := maps.Clone(r.sessions)
	r.mu.RUnlock()

	return maps.All(snapshot)
}
