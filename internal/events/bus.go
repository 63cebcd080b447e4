package events

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/go-hclog"
)

type subscriber struct {
	ch chan Event
}

// MemoryBus is an in-process EventBus. Slow subscribers drop events
// rather than stall publishers.
type MemoryBus struct {
	mu     sync.RWMutex
	subs   map[*subscriber]struct{}
	closed bool
	logger hclog.Logger
}

// NewMemoryBus creates an empty in-process bus
func NewMemoryBus(logger hclog.Logger) *MemoryBus {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &MemoryBus{
		subs:   make(map[*subscriber]struct{}),
		logger: logger,
	}
}

// Publish delivers event to every subscriber with room in its buffer
func (b *MemoryBus) Publish(ctx context.Context, event Event) {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}

	for sub := range b.subs {
		select {
		case sub.ch <- event:
		case <-ctx.Done():
			return
		default:
			b.logger.Warn("dropping event for slow subscriber", "type", event.Type, "entity", event.Entity, "id", event.ID)
		}
	}
}

// Subscribe registers a new subscriber
func (b *MemoryBus) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	sub := &subscriber{ch: make(chan Event, buffer)}

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(sub.ch)
		return sub.ch, func() {}
	}
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return sub.ch, func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if _, ok := b.subs[sub]; ok {
				delete(b.subs, sub)
				close(sub.ch)
			}
		})
	}
}

// Close ends every subscription
func (b *MemoryBus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for sub := range b.subs {
		close(sub.ch)
		delete(b.subs, sub)
	}
}

// SubscriberCount returns the number of live subscriptions
func (b *MemoryBus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// NopBus discards every event
type NopBus struct{}

func (NopBus) Publish(context.Context, Event) {}

func (NopBus) Subscribe(int) (<-chan Event, func()) {
	ch := make(chan Event)
	close(ch)
	return ch, func() {}
}

func (NopBus) Close() {}
