package core

import (
	"context"
	"errors"
	"sync"
	"time"
)

// EventTagScanned is the type carried by every scan event, including scans of
// tags that do not exist yet.
const EventTagScanned = "tag_scanned"

// Event describes a single tag scan. Name and DeviceID are nil when unknown
// at the time the scan fired.
type Event struct {
	Type     string    `json:"type"`
	TagID    string    `json:"tag_id"`
	Name     *string   `json:"name,omitempty"`
	DeviceID *string   `json:"device_id,omitempty"`
	Time     time.Time `json:"time"`
}

// EventHandler consumes scan events.
type EventHandler interface {
	Handle(ctx context.Context, event Event) error
}

// EventHandlerFunc adapts a function to the EventHandler interface.
type EventHandlerFunc func(ctx context.Context, event Event) error

// Handle implements EventHandler. A nil function is a no-op.
func (f EventHandlerFunc) Handle(ctx context.Context, event Event) error {
	if f == nil {
		return nil
	}
	return f(ctx, event)
}

// EventBus fans events out to subscribed handlers in subscription order.
// Every handler runs even when an earlier one fails; the collected errors are
// joined.
type EventBus struct {
	mu       sync.RWMutex
	handlers []EventHandler
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a handler for subsequent events.
func (b *EventBus) Subscribe(h EventHandler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, h)
}

// Publish delivers the event to every subscribed handler.
func (b *EventBus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	handlers := make([]EventHandler, len(b.handlers))
	copy(handlers, b.handlers)
	b.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h.Handle(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
