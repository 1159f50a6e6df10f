package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// CancelOrderCommandHandler handles customer cancellations. On success the
// order moves to CANCELLED, every reserved line is restocked in the same
// transaction and an OrderCanceled event is enqueued.
//
// When the order already left PENDING the transition is rejected by the state
// machine; the handler then emits OrderCancelFailed in its own committed unit
// of work and returns the transition error to the caller. The failed attempt
// changes no order or stock state.
type CancelOrderCommandHandler struct {
	uowFactory PlacementUoWFactory
	stores     ports.StoreDirectory
	stock      StockReservationService
}

// NewCancelOrderCommandHandler creates a handler for order cancellation.
func NewCancelOrderCommandHandler(
	uowFactory PlacementUoWFactory,
	stores ports.StoreDirectory,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		stores:     stores,
		stock:      NewStockReservationService(),
	}
}

// Handle processes the cancellation.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if err = ord.TransitTo(order.StatusCancelled); err != nil {
		_ = uow.Rollback(ctx)
		h.emitCancelFailed(ctx, ord, err)
		return err
	}

	for _, item := range ord.Items() {
		if _, err = h.stock.Adjust(ctx, uow.StockRepository(), item.ProductID(), item.Quantity()); err != nil {
			return err
		}
	}

	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	sellerID, err := h.stores.SellerOf(ctx, ord.StoreID())
	if err != nil {
		return err
	}

	uow.EnqueueEvent(events.OrderCanceled{
		Meta:       events.NewMeta(time.Now()),
		OrderID:    int64(ord.ID()),
		CustomerID: int64(ord.CustomerID()),
		SellerID:   sellerID,
		Reason:     cmd.Reason(),
	})

	return uow.Commit(ctx)
}

// emitCancelFailed publishes the rejection in its own committed unit of work,
// since the enclosing transaction is being rolled back. A failure here only
// loses the courtesy notification, not any state.
func (h *CancelOrderCommandHandler) emitCancelFailed(ctx context.Context, ord *order.Order, cause error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	uow.EnqueueEvent(events.OrderCancelFailed{
		Meta:       events.NewMeta(time.Now()),
		OrderID:    int64(ord.ID()),
		CustomerID: int64(ord.CustomerID()),
		Reason:     cause.Error(),
	})
	_ = uow.Commit(ctx)
}
