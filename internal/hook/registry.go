package hook

import "sync"

// Events fired by the mode dispatcher after a switch completes.
const (
	EventEnterHost     = "enter_host"
	EventEnterEmbedded = "enter_embedded"
)

// Func is a hook callback. The argument names the buffer (usually its
// file path) the switch happened in.
type Func func(bufName string)

// Registry holds ordered hook callbacks per event.
type Registry struct {
	mu    sync.RWMutex
	hooks map[string][]Func
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{hooks: make(map[string][]Func)}
}

// Add appends a callback to the event's hook list.
// Callbacks fire in registration order.
func (r *Registry) Add(event string, fn Func) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hooks[event] = append(r.hooks[event], fn)
}

// Fire invokes the event's callbacks in order.
// Callbacks run outside the registry lock.
func (r *Registry) Fire(event, bufName string) {
	r.mu.RLock()
	fns := make([]Func, len(r.hooks[event]))
	copy(fns, r.hooks[event])
	r.mu.RUnlock()

	for _, fn := range fns {
		if fn != nil {
			fn(bufName)
		}
	}
}

// Len returns the number of callbacks registered for the event.
func (r *Registry) Len(event string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.hooks[event])
}
