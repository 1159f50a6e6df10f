package inmemory

import (
	"context"
	"log/slog"
	"sync"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/ports"
)

// Broker is the in-process event broker of local mode. Publish delivers the
// envelope synchronously to every handler subscribed to the event's topic, so
// by the time a command returns its consumers have already run.
//
// Deliveries per envelope defaults to one; a higher value redelivers every
// envelope that many times, which tests use to prove consumer idempotency
// under the at-least-once contract.
type Broker struct {
	mu         sync.RWMutex
	handlers   map[string][]ports.EnvelopeHandler
	deliveries int
	log        *slog.Logger
}

// NewBroker creates a broker delivering each envelope exactly once.
func NewBroker(log *slog.Logger) *Broker {
	return NewBrokerWithRedelivery(1, log)
}

// NewBrokerWithRedelivery creates a broker delivering each envelope the given
// number of times. Values below one are clamped to one.
func NewBrokerWithRedelivery(deliveries int, log *slog.Logger) *Broker {
	if deliveries < 1 {
		deliveries = 1
	}
	return &Broker{
		handlers:   make(map[string][]ports.EnvelopeHandler),
		deliveries: deliveries,
		log:        log,
	}
}

// Subscribe registers a handler for a topic.
func (b *Broker) Subscribe(topic string, handler ports.EnvelopeHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Publish wraps the event and hands it to every subscriber of its topic.
// A handler failure is logged and does not affect the other handlers; the
// publishing transaction has already committed.
func (b *Broker) Publish(ctx context.Context, event events.DomainEvent) error {
	env, err := events.Wrap(event)
	if err != nil {
		return err
	}

	b.mu.RLock()
	handlers := append([]ports.EnvelopeHandler(nil), b.handlers[event.Topic()]...)
	b.mu.RUnlock()

	for _, handler := range handlers {
		for range b.deliveries {
			if err := handler(ctx, env); err != nil {
				b.log.WarnContext(ctx, "event handler failed",
					"topic", event.Topic(),
					"event", env.Name,
					"event_id", env.EventID.String(),
					"error", err)
			}
		}
	}
	return nil
}
