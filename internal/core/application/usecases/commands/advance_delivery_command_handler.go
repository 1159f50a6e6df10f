package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// AdvanceDeliveryCommandHandler applies a delivery progression and mirrors it
// onto the order where the lifecycles touch:
//
//	PICKED_UP   -> order moves to DELIVERING
//	IN_PROGRESS -> order unchanged
//	COMPLETED   -> order moves to COMPLETED and OrderCompleted fires,
//	               which triggers settlement downstream
//
// Delivery, order and events commit atomically; an illegal advance rolls the
// whole report back.
type AdvanceDeliveryCommandHandler struct {
	uowFactory DispatchUoWFactory
	stores     ports.StoreDirectory
}

// NewAdvanceDeliveryCommandHandler creates a handler for delivery advances.
func NewAdvanceDeliveryCommandHandler(
	uowFactory DispatchUoWFactory,
	stores ports.StoreDirectory,
) AdvanceDeliveryCommandHandler {
	return AdvanceDeliveryCommandHandler{
		uowFactory: uowFactory,
		stores:     stores,
	}
}

// Handle processes the advance.
func (h *AdvanceDeliveryCommandHandler) Handle(ctx context.Context, cmd AdvanceDeliveryCommand) error {
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

	deliveryRepo := uow.DeliveryRepository()
	dlv, err := deliveryRepo.Get(ctx, cmd.DeliveryID())
	if err != nil {
		return err
	}

	previous := dlv.Status()
	if err = dlv.Advance(cmd.Next()); err != nil {
		return err
	}
	if err = deliveryRepo.Update(ctx, dlv); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, dlv.OrderID())
	if err != nil {
		return err
	}

	sellerID, err := h.stores.SellerOf(ctx, dlv.StoreID())
	if err != nil {
		return err
	}

	now := time.Now()
	var riderID int64
	if dlv.RiderID() != nil {
		riderID = int64(*dlv.RiderID())
	}

	switch cmd.Next() {
	case delivery.StatusPickedUp:
		if err = ord.TransitTo(order.StatusDelivering); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, ord); err != nil {
			return err
		}

	case delivery.StatusCompleted:
		if err = ord.TransitTo(order.StatusCompleted); err != nil {
			return err
		}
		if err = orderRepo.Update(ctx, ord); err != nil {
			return err
		}
		uow.EnqueueEvent(events.OrderCompleted{
			Meta:          events.NewMeta(now),
			OrderID:       int64(ord.ID()),
			SellerID:      sellerID,
			RiderID:       riderID,
			StorePrice:    ord.StorePrice().Decimal(),
			DeliveryPrice: ord.DeliveryPrice().Decimal(),
		})
	}

	uow.EnqueueEvent(events.DeliveryStatusChanged{
		Meta:       events.NewMeta(now),
		DeliveryID: int64(dlv.ID()),
		OrderID:    int64(dlv.OrderID()),
		RiderID:    riderID,
		CustomerID: int64(dlv.CustomerID()),
		SellerID:   sellerID,
		Status:     string(previous),
		NextStatus: string(cmd.Next()),
	})

	return uow.Commit(ctx)
}
