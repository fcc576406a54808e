package stimulation

import "sync"

// ListenerRegistry holds the engine-wide response listeners registered via
// Engine.AddResponseListener (spec.md §6 "Observer registration"). It is
// shared across every Stimulation run against an Engine — a listener
// registered once sees every subsequent stimulation's records — and
// supports concurrent registration/removal while stimulations are running.
type ListenerRegistry struct {
	mu        sync.Mutex
	nextID    uint64
	listeners map[uint64]Listener
}

// NewListenerRegistry builds an empty registry.
func NewListenerRegistry() *ListenerRegistry {
	return &ListenerRegistry{listeners: make(map[uint64]Listener)}
}

// Add registers fn and returns a function that removes it. Calling the
// returned function more than once is a harmless no-op.
func (r *ListenerRegistry) Add(fn Listener) (unsubscribe func()) {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.listeners, id)
		r.mu.Unlock()
	}
}

// Snapshot returns the currently registered listeners. Taken once per hop
// before fan-out so that a listener added or removed mid-fan-out doesn't
// race the in-progress errgroup.
func (r *ListenerRegistry) Snapshot() []Listener {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Listener, 0, len(r.listeners))
	for _, fn := range r.listeners {
		out = append(out, fn)
	}
	return out
}
