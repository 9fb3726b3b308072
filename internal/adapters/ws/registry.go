package ws

import "sync"

// Registry tracks the subscribers currently interested in the commentary
// channel. All methods are safe for concurrent use.
type Registry struct {
	mu   sync.RWMutex
	subs map[Subscriber]struct{}
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{subs: make(map[Subscriber]struct{})}
}

// Add registers sub. Idempotent when already registered.
func (r *Registry) Add(sub Subscriber) {
	r.mu.Lock()
	r.subs[sub] = struct{}{}
	r.mu.Unlock()
}

// Remove deregisters sub. A no-op when sub is not registered.
func (r *Registry) Remove(sub Subscriber) {
	r.mu.Lock()
	delete(r.subs, sub)
	r.mu.Unlock()
}

// Snapshot returns the current subscriber set. Iterating a copy means
// subscribers removed mid-broadcast are simply skipped, never an error.
func (r *Registry) Snapshot() []Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Subscriber, 0, len(r.subs))
	for sub := range r.subs {
		out = append(out, sub)
	}
	return out
}

// Count returns the number of registered subscribers.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}
