package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// AcceptOrderCommandHandler handles store acceptance. The order transition to
// PREPARING, the creation of the delivery and the delivery attachment commit
// atomically; the delivery enters the matching pool only if the order state
// change is durable.
type AcceptOrderCommandHandler struct {
	uowFactory DispatchUoWFactory
	stores     ports.StoreDirectory
}

// NewAcceptOrderCommandHandler creates a handler for store acceptance.
func NewAcceptOrderCommandHandler(
	uowFactory DispatchUoWFactory,
	stores ports.StoreDirectory,
) AcceptOrderCommandHandler {
	return AcceptOrderCommandHandler{
		uowFactory: uowFactory,
		stores:     stores,
	}
}

// Handle processes the acceptance and returns the new delivery's identifier.
func (h *AcceptOrderCommandHandler) Handle(
	ctx context.Context,
	cmd AcceptOrderCommand,
) (kernel.DeliveryID, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return 0, err
	}

	if err = ord.TransitTo(order.StatusPreparing); err != nil {
		return 0, err
	}

	deliveryRepo := uow.DeliveryRepository()
	deliveryID, err := deliveryRepo.NextID(ctx)
	if err != nil {
		return 0, err
	}

	dlv, err := delivery.NewDelivery(
		deliveryID,
		ord.ID(),
		ord.StoreID(),
		ord.CustomerID(),
		ord.DeliveryPrice(),
		time.Now(),
	)
	if err != nil {
		return 0, err
	}

	if err = ord.AttachDelivery(deliveryID); err != nil {
		return 0, err
	}

	if err = deliveryRepo.Add(ctx, dlv); err != nil {
		return 0, err
	}
	if err = orderRepo.Update(ctx, ord); err != nil {
		return 0, err
	}

	sellerID, err := h.stores.SellerOf(ctx, ord.StoreID())
	if err != nil {
		return 0, err
	}

	uow.EnqueueEvent(events.OrderPreparing{
		Meta:       events.NewMeta(time.Now()),
		OrderID:    int64(ord.ID()),
		CustomerID: int64(ord.CustomerID()),
		SellerID:   sellerID,
	})

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}
	return deliveryID, nil
}
