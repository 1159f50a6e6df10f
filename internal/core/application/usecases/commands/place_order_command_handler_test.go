package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"
)

func TestPlaceOrderCommandHandler_Success(t *testing.T) {
	f := newFakeUoWFactory()
	f.store.seedStock(10, 50)

	orderID := mustPlaceOrder(t, f)

	ord := f.store.orders[orderID]
	require.NotNil(t, ord)
	assert.Equal(t, order.StatusPending, ord.Status())
	assert.True(t, ord.StorePrice().IsEqual(kernel.NewMoneyFromInt(5000)))
	assert.True(t, ord.TotalPrice().IsEqual(kernel.NewMoneyFromInt(8000)))

	assert.Equal(t, 48, f.store.stocks[10].Quantity)
	assert.Equal(t, []string{
		"order.created",
		"payment.completed",
		"order.paid",
		"order.paid_for_seller",
	}, f.store.publishedNames())
}

func TestPlaceOrderCommandHandler_InsufficientStock(t *testing.T) {
	f := newFakeUoWFactory()
	f.store.seedStock(10, 1)

	cmd, err := commands.NewPlaceOrderCommand(
		7, 3, "24 Harbor Lane", "",
		kernel.NewMoneyFromInt(3000),
		[]commands.OrderLine{{ProductID: 10, UnitPrice: kernel.NewMoneyFromInt(2500), Quantity: 2}},
	)
	require.NoError(t, err)

	h := commands.NewPlaceOrderCommandHandler(placementFactory{f}, fakeStoreDirectory{})
	_, err = h.Handle(context.Background(), cmd)
	require.ErrorIs(t, err, errs.ErrInsufficientStock)

	// Nothing leaked out of the aborted placement.
	assert.Empty(t, f.store.orders)
	assert.Empty(t, f.store.published)
	assert.Equal(t, 1, f.store.stocks[10].Quantity)
}

func TestPlaceOrderCommandHandler_RetriesVersionConflicts(t *testing.T) {
	f := newFakeUoWFactory()
	f.store.seedStock(10, 50)
	f.store.forcedConflicts = 2

	orderID := mustPlaceOrder(t, f)

	assert.NotZero(t, orderID)
	assert.Equal(t, 48, f.store.stocks[10].Quantity)
}

func TestPlaceOrderCommandHandler_GivesUpAfterRetryBudget(t *testing.T) {
	f := newFakeUoWFactory()
	f.store.seedStock(10, 50)
	f.store.forcedConflicts = 3

	cmd, err := commands.NewPlaceOrderCommand(
		7, 3, "24 Harbor Lane", "",
		kernel.NewMoneyFromInt(3000),
		[]commands.OrderLine{{ProductID: 10, UnitPrice: kernel.NewMoneyFromInt(2500), Quantity: 2}},
	)
	require.NoError(t, err)

	h := commands.NewPlaceOrderCommandHandler(placementFactory{f}, fakeStoreDirectory{})
	_, err = h.Handle(context.Background(), cmd)
	require.ErrorIs(t, err, errs.ErrStockConflict)

	assert.Empty(t, f.store.orders)
	assert.Empty(t, f.store.published)
	assert.Equal(t, 50, f.store.stocks[10].Quantity)
}

func TestNewPlaceOrderCommand_Validation(t *testing.T) {
	line := commands.OrderLine{ProductID: 10, UnitPrice: kernel.NewMoneyFromInt(100), Quantity: 1}

	_, err := commands.NewPlaceOrderCommand(0, 3, "addr", "", kernel.ZeroMoney(), []commands.OrderLine{line})
	require.Error(t, err)

	_, err = commands.NewPlaceOrderCommand(7, 3, "", "", kernel.ZeroMoney(), []commands.OrderLine{line})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewPlaceOrderCommand(7, 3, "addr", "", kernel.ZeroMoney(), nil)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	line.Quantity = 0
	_, err = commands.NewPlaceOrderCommand(7, 3, "addr", "", kernel.ZeroMoney(), []commands.OrderLine{line})
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestPlaceOrderCommandHandler_RejectsUnconstructedCommand(t *testing.T) {
	h := commands.NewPlaceOrderCommandHandler(placementFactory{newFakeUoWFactory()}, fakeStoreDirectory{})
	_, err := h.Handle(context.Background(), commands.PlaceOrderCommand{})
	require.ErrorIs(t, err, commands.ErrPlaceOrderCommandIsNotConstructed)
}
