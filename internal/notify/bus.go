// Package notify carries "something changed, recompute" signals. Consumers
// never patch derived state; they drop caches and re-run the slot pipeline
// from its inputs.
package notify

import "sync"

// Invalidation event kinds.
const (
	KindBookings = "bookings.changed"
	KindBlocks   = "blocks.changed"
	KindSettings = "settings.changed"
)

// Invalidation says occupancy or configuration for a scope may have changed.
// BarberID and Date are empty for shop-wide changes.
type Invalidation struct {
	Kind     string `json:"kind"`
	BarberID string `json:"barber_id,omitempty"`
	Date     string `json:"date,omitempty"`
}

// Handler reacts to an invalidation.
type Handler func(inv Invalidation)

// Bus provides in-process pub/sub for invalidations.
type Bus struct {
	subscribers map[string][]Handler
	mu          sync.RWMutex
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subscribers: make(map[string][]Handler)}
}

// Subscribe registers a handler for a given kind.
func (b *Bus) Subscribe(kind string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[kind] = append(b.subscribers[kind], handler)
}

// Publish notifies subscribers of the invalidation kind. Handlers run
// synchronously; the caller decides the concurrency model.
func (b *Bus) Publish(inv Invalidation) {
	b.mu.RLock()
	handlers := append([]Handler(nil), b.subscribers[inv.Kind]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(inv)
	}
}
