package modulemanager

import (
	"context"
	"sync"

	"github.com/hashicorp/go-hclog"
	"github.com/mantonx/lineup/internal/events"
)

// EventHandlerFunc reacts to a single bus event
type EventHandlerFunc func(ctx context.Context, event events.Event)

// ModuleEventHandler dispatches bus events to handlers registered per entity
type ModuleEventHandler struct {
	eventBus events.EventBus
	handlers map[string][]EventHandlerFunc // entity -> handlers, "" matches all
	logger   hclog.Logger
	mu       sync.RWMutex
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewModuleEventHandler creates a new module event handler
func NewModuleEventHandler(eventBus events.EventBus, logger hclog.Logger) *ModuleEventHandler {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &ModuleEventHandler{
		eventBus: eventBus,
		handlers: make(map[string][]EventHandlerFunc),
		logger:   logger.Named("events"),
	}
}

// Handle registers fn for events about entity. An empty entity matches every event.
func (h *ModuleEventHandler) Handle(entity string, fn EventHandlerFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[entity] = append(h.handlers[entity], fn)
}

// Start subscribes to the bus and dispatches until Stop is called
func (h *ModuleEventHandler) Start(ctx context.Context) {
	h.mu.Lock()
	if h.cancel != nil {
		h.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	h.cancel = cancel
	h.done = make(chan struct{})
	done := h.done
	h.mu.Unlock()

	ch, unsubscribe := h.eventBus.Subscribe(64)
	go func() {
		defer close(done)
		defer unsubscribe()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-ch:
				if !ok {
					return
				}
				h.dispatch(ctx, event)
			}
		}
	}()
}

// Stop ends dispatching and waits for the loop to exit
func (h *ModuleEventHandler) Stop() {
	h.mu.Lock()
	cancel, done := h.cancel, h.done
	h.cancel = nil
	h.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

func (h *ModuleEventHandler) dispatch(ctx context.Context, event events.Event) {
	h.mu.RLock()
	handlers := append(append([]EventHandlerFunc(nil), h.handlers[event.Entity]...), h.handlers[""]...)
	h.mu.RUnlock()

	for _, fn := range handlers {
		func() {
			defer func() {
				if r := recover(); r != nil {
					h.logger.Error("event handler panicked", "entity", event.Entity, "type", event.Type, "panic", r)
				}
			}()
			fn(ctx, event)
		}()
	}
}
