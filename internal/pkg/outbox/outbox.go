// Package outbox implements the commit-gated event buffer attached to a unit
// of work. Handlers enqueue domain events while the transaction is open; the
// unit of work flushes the buffer to the broker only after the commit
// succeeded and discards it on rollback, so no event ever describes state that
// may still roll back.
package outbox

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/events"
)

// Publisher is the minimal broker surface the buffer flushes into.
type Publisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// Buffer collects the domain events of one business transaction.
// A Buffer belongs to a single unit of work and is not safe for concurrent
// use; concurrent requests each get their own.
type Buffer struct {
	pending []events.DomainEvent
}

// NewBuffer creates an empty buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

// Enqueue records an event for publication after commit.
func (b *Buffer) Enqueue(event events.DomainEvent) {
	b.pending = append(b.pending, event)
}

// Pending returns the events waiting for the commit gate.
func (b *Buffer) Pending() []events.DomainEvent {
	return append([]events.DomainEvent(nil), b.pending...)
}

// Len returns the number of buffered events.
func (b *Buffer) Len() int {
	return len(b.pending)
}

// Discard drops all buffered events. Called on rollback.
func (b *Buffer) Discard() {
	b.pending = nil
}

// Flush publishes every buffered event and empties the buffer.
//
// The surrounding transaction has already committed when Flush runs, so a
// publish failure must not surface as a business failure: it is logged and
// the remaining events are still attempted. Delivery is at-least-once overall;
// a lost event here is a monitored operational risk, not a fatal error.
func (b *Buffer) Flush(ctx context.Context, publisher Publisher, logger *slog.Logger) {
	for _, event := range b.pending {
		if err := publisher.Publish(ctx, event); err != nil {
			logger.ErrorContext(ctx, "event publish failed after commit",
				"event", event.EventName(),
				"event_id", event.EventID().String(),
				"error", err)
		}
	}
	b.pending = nil
}
