package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// RejectOrderCommandHandler handles the store declining an order. The REJECTED
// transition, the restock of every line and the OrderRejected event commit
// together; an order past PENDING cannot be rejected anymore.
type RejectOrderCommandHandler struct {
	uowFactory PlacementUoWFactory
	stores     ports.StoreDirectory
	stock      StockReservationService
}

// NewRejectOrderCommandHandler creates a handler for store rejection.
func NewRejectOrderCommandHandler(
	uowFactory PlacementUoWFactory,
	stores ports.StoreDirectory,
) RejectOrderCommandHandler {
	return RejectOrderCommandHandler{
		uowFactory: uowFactory,
		stores:     stores,
		stock:      NewStockReservationService(),
	}
}

// Handle processes the rejection.
func (h *RejectOrderCommandHandler) Handle(ctx context.Context, cmd RejectOrderCommand) error {
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

	// The store can only decline before acceptance. Matching failures reject
	// accepted orders through their own path.
	if ord.Status() != order.StatusPending {
		return errs.NewInvalidTransitionError("order", string(ord.Status()), string(order.StatusRejected))
	}
	if err = ord.TransitTo(order.StatusRejected); err != nil {
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

	uow.EnqueueEvent(events.OrderRejected{
		Meta:       events.NewMeta(time.Now()),
		OrderID:    int64(ord.ID()),
		CustomerID: int64(ord.CustomerID()),
		SellerID:   sellerID,
		Reason:     cmd.Reason(),
	})

	return uow.Commit(ctx)
}
