// Package kafka implements the event broker on Apache Kafka via
// segmentio/kafka-go. Envelopes are JSON; messages are keyed by the order the
// event belongs to, so per-order ordering survives partitioning.
package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/ports"
)

const (
	readMinBytes   = 10e3
	readMaxBytes   = 10e6
	readRetryDelay = 2 * time.Second
)

// Broker is the Kafka-backed implementation of ports.EventBroker.
// Writers are created lazily per topic; consuming starts when Run is called.
type Broker struct {
	brokers []string
	groupID string
	log     *slog.Logger

	mu       sync.Mutex
	writers  map[string]*kafkago.Writer
	handlers map[string][]ports.EnvelopeHandler
}

// NewBroker creates a broker from a comma-separated broker list.
func NewBroker(brokersCSV, groupID string, log *slog.Logger) *Broker {
	var brokers []string
	for _, b := range strings.Split(brokersCSV, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return &Broker{
		brokers:  brokers,
		groupID:  groupID,
		log:      log,
		writers:  make(map[string]*kafkago.Writer),
		handlers: make(map[string][]ports.EnvelopeHandler),
	}
}

func (b *Broker) writer(topic string) *kafkago.Writer {
	b.mu.Lock()
	defer b.mu.Unlock()

	if w, ok := b.writers[topic]; ok {
		return w
	}
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(b.brokers...),
		Topic:        topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireOne,
	}
	b.writers[topic] = w
	return w
}

// Publish wraps the event and writes it to the event's topic.
func (b *Broker) Publish(ctx context.Context, event events.DomainEvent) error {
	env, err := events.Wrap(event)
	if err != nil {
		return err
	}
	value, err := json.Marshal(env)
	if err != nil {
		return err
	}

	return b.writer(event.Topic()).WriteMessages(ctx, kafkago.Message{
		Key:   []byte(partitionKey(event)),
		Value: value,
		Time:  time.Now().UTC(),
	})
}

// Subscribe registers a handler for a topic. Must be called before Run.
func (b *Broker) Subscribe(topic string, handler ports.EnvelopeHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[topic] = append(b.handlers[topic], handler)
}

// Run starts one consumer loop per subscribed topic and blocks until the
// context is canceled.
func (b *Broker) Run(ctx context.Context) {
	b.mu.Lock()
	topics := make([]string, 0, len(b.handlers))
	for topic := range b.handlers {
		topics = append(topics, topic)
	}
	b.mu.Unlock()

	var wg sync.WaitGroup
	for _, topic := range topics {
		wg.Add(1)
		go func(topic string) {
			defer wg.Done()
			b.consume(ctx, topic)
		}(topic)
	}
	wg.Wait()
}

func (b *Broker) consume(ctx context.Context, topic string) {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  b.brokers,
		Topic:    topic,
		GroupID:  b.groupID,
		MinBytes: readMinBytes,
		MaxBytes: readMaxBytes,
	})
	defer func() {
		if err := reader.Close(); err != nil {
			b.log.Error("kafka reader close failed", "topic", topic, "error", err)
		}
	}()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.log.ErrorContext(ctx, "kafka read failed", "topic", topic, "error", err)
			time.Sleep(readRetryDelay)
			continue
		}

		var env events.Envelope
		if err := json.Unmarshal(msg.Value, &env); err != nil {
			b.log.ErrorContext(ctx, "envelope decode failed", "topic", topic, "error", err)
			continue
		}

		b.mu.Lock()
		handlers := append([]ports.EnvelopeHandler(nil), b.handlers[topic]...)
		b.mu.Unlock()

		// One failing handler must not starve the others; the message is
		// already committed, redelivery is the producer's concern.
		for _, handler := range handlers {
			if err := handler(ctx, env); err != nil {
				b.log.ErrorContext(ctx, "event handler failed",
					"topic", topic,
					"event", env.Name,
					"event_id", env.EventID.String(),
					"error", err)
			}
		}
	}
}

// Close shuts down the producers. Consumers stop with their Run context.
func (b *Broker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	for topic, w := range b.writers {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(b.writers, topic)
	}
	return firstErr
}

// partitionKey keys messages by order so every event of one order lands on the
// same partition. Events without an order fall back to their own ID.
func partitionKey(event events.DomainEvent) string {
	switch e := event.(type) {
	case events.OrderCreated:
		return strconv.FormatInt(e.OrderID, 10)
	case events.OrderPaid:
		return strconv.FormatInt(e.OrderID, 10)
	case events.OrderPaidForSeller:
		return strconv.FormatInt(e.OrderID, 10)
	case events.OrderPreparing:
		return strconv.FormatInt(e.OrderID, 10)
	case events.OrderCanceled:
		return strconv.FormatInt(e.OrderID, 10)
	case events.OrderCancelFailed:
		return strconv.FormatInt(e.OrderID, 10)
	case events.OrderRejected:
		return strconv.FormatInt(e.OrderID, 10)
	case events.OrderCompleted:
		return strconv.FormatInt(e.OrderID, 10)
	case events.PaymentCompleted:
		return strconv.FormatInt(e.OrderID, 10)
	case events.PaymentFailed:
		return strconv.FormatInt(e.OrderID, 10)
	case events.DeliveryStatusChanged:
		return strconv.FormatInt(e.OrderID, 10)
	case events.RiderDecision:
		return strconv.FormatInt(e.OrderID, 10)
	default:
		return event.EventID().String()
	}
}
