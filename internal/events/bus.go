package events

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"

	"github.com/KirkDiggler/ability-engine/internal/domain/cast"
)

// Bus manages mutation distribution
type Bus struct {
	listeners map[cast.MutationKind][]Listener
	mu        sync.RWMutex
}

// NewBus creates a new mutation bus
func NewBus() *Bus {
	return &Bus{
		listeners: make(map[cast.MutationKind][]Listener),
	}
}

// Subscribe adds a listener for one mutation kind
func (b *Bus) Subscribe(kind cast.MutationKind, listener Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners[kind] = append(b.listeners[kind], listener)
	b.sortLocked(kind)

	log.Printf("EventBus: Subscribed listener %s to %s with priority %d",
		listener.ID(), kind, listener.Priority())
}

// Unsubscribe removes a listener
func (b *Bus) Unsubscribe(kind cast.MutationKind, listenerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners := b.listeners[kind]
	for i, l := range listeners {
		if l.ID() != listenerID {
			continue
		}
		b.listeners[kind] = append(listeners[:i:i], listeners[i+1:]...)

		log.Printf("EventBus: Unsubscribed listener %s from %s", listenerID, kind)
		return
	}
}

func (b *Bus) sortLocked(kind cast.MutationKind) {
	sort.SliceStable(b.listeners[kind], func(i, j int) bool {
		return b.listeners[kind][i].Priority() < b.listeners[kind][j].Priority()
	})
}

// Emit sends a mutation to every listener of its kind in priority order,
// stopping at the first listener error.
func (b *Bus) Emit(ctx context.Context, mutation cast.Mutation) error {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners[mutation.Kind]))
	copy(listeners, b.listeners[mutation.Kind])
	b.mu.RUnlock()

	if len(listeners) == 0 {
		return nil
	}

	log.Printf("EventBus: Emitting %s for actor %s with %d listeners", mutation.Kind, mutation.ActorID, len(listeners))

	for _, listener := range listeners {
		if err := listener.HandleMutation(ctx, mutation); err != nil {
			return fmt.Errorf("listener %s failed: %w", listener.ID(), err)
		}
	}

	return nil
}

// EmitAll emits mutations in order
func (b *Bus) EmitAll(ctx context.Context, mutations []cast.Mutation) error {
	for _, m := range mutations {
		if err := b.Emit(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// Clear removes all listeners
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = make(map[cast.MutationKind][]Listener)
	log.Printf("EventBus: Cleared all listeners")
}
