package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

func TestAcceptOrderCommandHandler_CreatesPendingDelivery(t *testing.T) {
	f := newFakeUoWFactory()
	orderID := mustPlaceOrder(t, f)

	deliveryID := mustAcceptOrder(t, f, orderID)

	ord := f.store.orders[orderID]
	assert.Equal(t, order.StatusPreparing, ord.Status())
	require.NotNil(t, ord.DeliveryID())
	assert.Equal(t, deliveryID, *ord.DeliveryID())

	dlv := f.store.deliveries[deliveryID]
	require.NotNil(t, dlv)
	assert.Equal(t, delivery.StatusPending, dlv.Status())
	assert.Equal(t, orderID, dlv.OrderID())
	assert.Nil(t, dlv.RiderID())
	assert.True(t, dlv.Charge().IsEqual(kernel.NewMoneyFromInt(3000)))

	assert.Contains(t, f.store.publishedNames(), "order.preparing")
}

func TestAcceptOrderCommandHandler_SecondAcceptFails(t *testing.T) {
	f := newFakeUoWFactory()
	orderID := mustPlaceOrder(t, f)
	mustAcceptOrder(t, f, orderID)

	cmd, err := commands.NewAcceptOrderCommand(orderID)
	require.NoError(t, err)

	h := commands.NewAcceptOrderCommandHandler(dispatchFactory{f}, fakeStoreDirectory{})
	_, err = h.Handle(context.Background(), cmd)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	assert.Len(t, f.store.deliveries, 1)
}
