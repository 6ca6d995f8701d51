// Package events provides event bus infrastructure for decoupled,
// event-driven communication between modules.
package events

import (
	"context"
	"fmt"
	"sync"

	"tourdesk_backend/platform/logger"
)

// InMemoryBus dispatches events to subscribed handlers within the process.
// Publish runs handlers on their own goroutines; PublishSync runs them in
// subscription order and reports the first failure.
type InMemoryBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	log      *logger.Logger
	wg       sync.WaitGroup
}

// NewInMemoryBus creates an empty bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return &InMemoryBus{
		handlers: make(map[string][]Handler),
		log:      log,
	}
}

// Subscribe registers a handler for the named event type.
func (b *InMemoryBus) Subscribe(eventName string, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

// Publish dispatches the event asynchronously. Handler panics are recovered
// and handler errors are logged; the publisher is never affected. The event
// outlives the request context it was published under.
func (b *InMemoryBus) Publish(ctx context.Context, event Event) {
	b.mu.RLock()
	subscribed := append([]Handler(nil), b.handlers[event.EventName()]...)
	b.mu.RUnlock()

	detached := context.WithoutCancel(ctx)
	for _, h := range subscribed {
		handler := h
		b.wg.Add(1)
		go func() {
			defer b.wg.Done()
			defer func() {
				if r := recover(); r != nil && b.log != nil {
					b.log.Error("event handler panicked",
						"event", event.EventName(), "panic", fmt.Sprint(r))
				}
			}()
			if err := handler.Handle(detached, event); err != nil && b.log != nil {
				b.log.Error("event handler failed",
					"event", event.EventName(), "error", err)
			}
		}()
	}
}

// PublishSync dispatches the event to each handler in order and returns the
// first error encountered.
func (b *InMemoryBus) PublishSync(ctx context.Context, event Event) error {
	b.mu.RLock()
	subscribed := append([]Handler(nil), b.handlers[event.EventName()]...)
	b.mu.RUnlock()

	for _, handler := range subscribed {
		if err := handler.Handle(ctx, event); err != nil {
			return fmt.Errorf("handle %s: %w", event.EventName(), err)
		}
	}
	return nil
}

// Wait blocks until all asynchronously published events have been handled.
// Used by graceful shutdown and tests.
func (b *InMemoryBus) Wait() {
	b.wg.Wait()
}
