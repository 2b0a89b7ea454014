package broadcast

import (
	"context"
	"sync"
	"time"
)

// MemoryBus delivers messages synchronously within one process.
type MemoryBus struct {
	origin string

	mu       sync.RWMutex
	handlers []Handler
}

// NewMemoryBus creates an in-process bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{origin: NewOrigin()}
}

// Publish implements Bus.
func (b *MemoryBus) Publish(ctx context.Context, msg Message) error {
	if msg.Origin == "" {
		msg.Origin = b.origin
	}

	if msg.At.IsZero() {
		msg.At = time.Now()
	}

	if err := msg.validate(); err != nil {
		return err
	}

	b.mu.RLock()
	handlers := append([]Handler{}, b.handlers...)
	b.mu.RUnlock()

	for _, h := range handlers {
		h(ctx, msg)
	}

	return nil
}

// Subscribe implements Bus.
func (b *MemoryBus) Subscribe(h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers = append(b.handlers, h)
}

// Origin implements Bus.
func (b *MemoryBus) Origin() string {
	return b.origin
}

// Run implements Bus. Delivery is synchronous, so Run only waits for ctx.
func (b *MemoryBus) Run(ctx context.Context) error {
	<-ctx.Done()

	return nil
}

// Close implements Bus.
func (b *MemoryBus) Close() error {
	return nil
}
