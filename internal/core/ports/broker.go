package ports

import (
	"context"

	"marketplace/internal/core/domain/events"
)

// EventPublisher is the producer side of the broker abstraction.
// Publication is at-least-once; ordering across topics is not guaranteed.
// Publish must only be called after the originating transaction committed —
// the unit of work's outbox buffer enforces this for all core code.
type EventPublisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}

// EnvelopeHandler consumes one delivered envelope. Returning an error aborts
// only this envelope's unit of work; the subscription itself stays alive.
type EnvelopeHandler func(ctx context.Context, env events.Envelope) error

// EventBroker is the consumer side of the broker abstraction. Handlers must
// be idempotent: the broker may redeliver an envelope any number of times.
type EventBroker interface {
	EventPublisher

	// Subscribe registers a handler for a topic. Multiple handlers per topic
	// each receive every envelope.
	Subscribe(topic string, handler EnvelopeHandler)
}
