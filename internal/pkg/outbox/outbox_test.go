package outbox_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/pkg/outbox"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingPublisher struct {
	published []events.DomainEvent
	failNames map[string]error
}

func (p *capturingPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	if err, ok := p.failNames[event.EventName()]; ok {
		return err
	}
	p.published = append(p.published, event)
	return nil
}

func newPaidEvent() events.OrderPaid {
	return events.OrderPaid{Meta: events.NewMeta(time.Now()), OrderID: 1, CustomerID: 2}
}

func TestBuffer_FlushPublishesAllAndEmpties(t *testing.T) {
	buf := outbox.NewBuffer()
	buf.Enqueue(newPaidEvent())
	buf.Enqueue(newPaidEvent())
	require.Equal(t, 2, buf.Len())

	pub := &capturingPublisher{}
	buf.Flush(context.Background(), pub, slog.Default())

	assert.Len(t, pub.published, 2)
	assert.Zero(t, buf.Len())
}

func TestBuffer_DiscardDropsEverything(t *testing.T) {
	buf := outbox.NewBuffer()
	buf.Enqueue(newPaidEvent())

	buf.Discard()

	pub := &capturingPublisher{}
	buf.Flush(context.Background(), pub, slog.Default())
	assert.Empty(t, pub.published, "discarded events must never escape")
}

func TestBuffer_PublishFailureDoesNotStopFlush(t *testing.T) {
	buf := outbox.NewBuffer()
	buf.Enqueue(newPaidEvent())
	buf.Enqueue(events.OrderCreated{Meta: events.NewMeta(time.Now()), OrderID: 1})

	pub := &capturingPublisher{
		failNames: map[string]error{events.NameOrderPaid: errors.New("broker down")},
	}
	buf.Flush(context.Background(), pub, slog.Default())

	require.Len(t, pub.published, 1)
	assert.Equal(t, events.NameOrderCreated, pub.published[0].EventName())
	assert.Zero(t, buf.Len())
}
