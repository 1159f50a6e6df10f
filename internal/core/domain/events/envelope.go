package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Envelope is the wire form of a domain event: the discriminator plus the
// event body as raw JSON. Collaborators decode the body after switching on
// Name; unknown names are a consumer-side error, not a transport error.
type Envelope struct {
	EventID    uuid.UUID       `json:"event_id"`
	Name       string          `json:"name"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// Wrap serializes a domain event into its envelope.
func Wrap(event DomainEvent) (Envelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s: %w", event.EventName(), err)
	}
	return Envelope{
		EventID:    event.EventID(),
		Name:       event.EventName(),
		OccurredAt: event.OccurredAt(),
		Payload:    payload,
	}, nil
}

// Decode reconstructs the concrete event from an envelope. A malformed
// payload or unknown name aborts only this event's unit of work.
func Decode(env Envelope) (DomainEvent, error) {
	var event DomainEvent

	switch env.Name {
	case NameOrderCreated:
		event = &OrderCreated{}
	case NameOrderPaid:
		event = &OrderPaid{}
	case NameOrderPaidForSeller:
		event = &OrderPaidForSeller{}
	case NameOrderPreparing:
		event = &OrderPreparing{}
	case NameOrderCanceled:
		event = &OrderCanceled{}
	case NameOrderCancelFailed:
		event = &OrderCancelFailed{}
	case NameOrderRejected:
		event = &OrderRejected{}
	case NameOrderCompleted:
		event = &OrderCompleted{}
	case NamePaymentCompleted:
		event = &PaymentCompleted{}
	case NamePaymentFailed:
		event = &PaymentFailed{}
	case NameDeliveryStatusChanged:
		event = &DeliveryStatusChanged{}
	case NameRiderDecision:
		event = &RiderDecision{}
	default:
		return nil, fmt.Errorf("unknown event name %q", env.Name)
	}

	if err := json.Unmarshal(env.Payload, event); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", env.Name, err)
	}
	return event, nil
}
