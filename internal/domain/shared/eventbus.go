package shared

import (
	"context"
	"sync"
)

// EventHandler processes a published domain event
type EventHandler func(ctx context.Context, event DomainEvent)

// EventBus delivers domain events to interested subscribers after commit
type EventBus interface {
	Publish(ctx context.Context, events ...DomainEvent)
	Subscribe(eventType string, handler EventHandler)
	SubscribeAll(handler EventHandler)
}

// InMemoryEventBus is a synchronous in-process event bus. Handlers run on
// the publishing goroutine; they must not block.
type InMemoryEventBus struct {
	mu          sync.RWMutex
	handlers    map[string][]EventHandler
	allHandlers []EventHandler
}

// NewInMemoryEventBus creates an empty event bus
func NewInMemoryEventBus() *InMemoryEventBus {
	return &InMemoryEventBus{
		handlers: make(map[string][]EventHandler),
	}
}

// Subscribe registers a handler for a specific event type
func (b *InMemoryEventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// SubscribeAll registers a handler invoked for every event
func (b *InMemoryEventBus) SubscribeAll(handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.allHandlers = append(b.allHandlers, handler)
}

// Publish delivers events to the matching subscribers
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...DomainEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, event := range events {
		for _, handler := range b.allHandlers {
			handler(ctx, event)
		}
		for _, handler := range b.handlers[event.EventType()] {
			handler(ctx, event)
		}
	}
}

// NoOpEventBus discards all events. Used in tests and in deployments that
// do not consume domain events.
type NoOpEventBus struct{}

// Publish discards the events
func (NoOpEventBus) Publish(ctx context.Context, events ...DomainEvent) {}

// Subscribe is a no-op
func (NoOpEventBus) Subscribe(eventType string, handler EventHandler) {}

// SubscribeAll is a no-op
func (NoOpEventBus) SubscribeAll(handler EventHandler) {}
