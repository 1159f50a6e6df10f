package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// PlaceOrderCommandHandler handles paid checkouts. In one transaction it
// reserves stock for every line, persists the new PENDING order and enqueues
// the paid-order events; nothing is published if the transaction rolls back.
//
// Stock reservation goes through StockReservationService, so a concurrent
// placement racing on the same product either wins a fresh version or fails
// the whole placement after the retry budget. Stock is never left negative
// and the order is never persisted without its reservation.
type PlaceOrderCommandHandler struct {
	uowFactory PlacementUoWFactory
	stores     ports.StoreDirectory
	stock      StockReservationService
}

// NewPlaceOrderCommandHandler creates a handler for order placement.
func NewPlaceOrderCommandHandler(
	uowFactory PlacementUoWFactory,
	stores ports.StoreDirectory,
) PlaceOrderCommandHandler {
	return PlaceOrderCommandHandler{
		uowFactory: uowFactory,
		stores:     stores,
		stock:      NewStockReservationService(),
	}
}

// Handle processes the placement and returns the new order's identifier.
func (h *PlaceOrderCommandHandler) Handle(
	ctx context.Context,
	cmd PlaceOrderCommand,
) (kernel.OrderID, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	sellerID, err := h.stores.SellerOf(ctx, cmd.StoreID())
	if err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	orderID, err := orderRepo.NextID(ctx)
	if err != nil {
		return 0, err
	}

	items := make([]order.Item, 0, len(cmd.Lines()))
	for _, line := range cmd.Lines() {
		item, itemErr := order.NewItem(line.ProductID, line.UnitPrice, line.Quantity)
		if itemErr != nil {
			return 0, itemErr
		}
		items = append(items, item)
	}

	newOrder, err := order.NewOrder(
		orderID,
		cmd.StoreID(),
		cmd.CustomerID(),
		cmd.Address(),
		cmd.Note(),
		cmd.DeliveryPrice(),
		items,
	)
	if err != nil {
		return 0, err
	}

	for _, line := range cmd.Lines() {
		if _, err = h.stock.Adjust(ctx, uow.StockRepository(), line.ProductID, -line.Quantity); err != nil {
			return 0, err
		}
	}

	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return 0, err
	}

	now := time.Now()
	uow.EnqueueEvent(events.OrderCreated{
		Meta:       events.NewMeta(now),
		OrderID:    int64(newOrder.ID()),
		StoreID:    int64(newOrder.StoreID()),
		CustomerID: int64(newOrder.CustomerID()),
		TotalPrice: newOrder.TotalPrice().Decimal(),
	})
	uow.EnqueueEvent(events.PaymentCompleted{
		Meta:       events.NewMeta(now),
		OrderID:    int64(newOrder.ID()),
		CustomerID: int64(newOrder.CustomerID()),
		Amount:     newOrder.TotalPrice().Decimal(),
	})
	uow.EnqueueEvent(events.OrderPaid{
		Meta:       events.NewMeta(now),
		OrderID:    int64(newOrder.ID()),
		CustomerID: int64(newOrder.CustomerID()),
		TotalPrice: newOrder.TotalPrice().Decimal(),
	})
	uow.EnqueueEvent(events.OrderPaidForSeller{
		Meta:       events.NewMeta(now),
		OrderID:    int64(newOrder.ID()),
		SellerID:   sellerID,
		Items:      itemLines(newOrder.Items()),
		Address:    newOrder.Address(),
		Note:       newOrder.Note(),
		TotalPrice: newOrder.TotalPrice().Decimal(),
	})

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return newOrder.ID(), nil
}

func itemLines(items []order.Item) []events.ItemLine {
	lines := make([]events.ItemLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, events.ItemLine{
			ProductID: int64(item.ProductID()),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Decimal(),
		})
	}
	return lines
}
