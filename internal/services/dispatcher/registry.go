package dispatcher

import (
	"fmt"
	"slices"
)

// HandlerRegistry is the closed set of effect handlers, keyed by action name.
// It is filled once by NewService and only read afterwards.
type HandlerRegistry struct {
	handlers map[string]Handler
	keys     []string
}

// NewHandlerRegistry creates a registry holding the given handlers
func NewHandlerRegistry(handlers ...Handler) *HandlerRegistry {
	r := &HandlerRegistry{handlers: make(map[string]Handler, len(handlers))}
	for _, h := range handlers {
		r.register(h)
	}
	return r
}

// register panics on a duplicate action name
func (r *HandlerRegistry) register(h Handler) {
	key := h.Key()
	if _, taken := r.handlers[key]; taken {
		panic(fmt.Sprintf("dispatcher: action %q registered twice", key))
	}
	r.handlers[key] = h

	idx, _ := slices.BinarySearch(r.keys, key)
	r.keys = slices.Insert(r.keys, idx, key)
}

// Get returns the handler for an action name
func (r *HandlerRegistry) Get(action string) (Handler, bool) {
	h, ok := r.handlers[action]
	return h, ok
}

// List returns every action name in sorted order
func (r *HandlerRegistry) List() []string {
	return slices.Clone(r.keys)
}
