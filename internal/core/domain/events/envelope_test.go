package events_test

import (
	"testing"
	"time"

	"marketplace/internal/core/domain/events"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAndDecode(t *testing.T) {
	now := time.Date(2025, 11, 3, 12, 0, 0, 0, time.UTC)

	event := events.OrderCompleted{
		Meta:          events.NewMeta(now),
		OrderID:       1,
		SellerID:      2,
		RiderID:       7,
		StorePrice:    decimal.NewFromInt(5000),
		DeliveryPrice: decimal.NewFromInt(3000),
	}

	env, err := events.Wrap(event)
	require.NoError(t, err)
	assert.Equal(t, events.NameOrderCompleted, env.Name)
	assert.Equal(t, event.EventID(), env.EventID)

	decoded, err := events.Decode(env)
	require.NoError(t, err)

	completed, ok := decoded.(*events.OrderCompleted)
	require.True(t, ok)
	assert.Equal(t, event.EventID(), completed.EventID())
	assert.Equal(t, int64(7), completed.RiderID)
	assert.True(t, event.StorePrice.Equal(completed.StorePrice))
}

func TestDecode_UnknownName(t *testing.T) {
	env := events.Envelope{Name: "order.exploded", Payload: []byte(`{}`)}
	_, err := events.Decode(env)
	require.Error(t, err)
}

func TestDecode_MalformedPayload(t *testing.T) {
	env := events.Envelope{Name: events.NameOrderPaid, Payload: []byte(`{"order_id":`)}
	_, err := events.Decode(env)
	require.Error(t, err)
}

func TestEventTopics(t *testing.T) {
	assert.Equal(t, events.TopicOrders, events.OrderPaid{}.Topic())
	assert.Equal(t, events.TopicDeliveries, events.DeliveryStatusChanged{}.Topic())
	assert.Equal(t, events.TopicPayments, events.PaymentFailed{}.Topic())
}
