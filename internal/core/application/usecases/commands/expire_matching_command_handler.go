package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
	"marketplace/internal/pkg/errs"
)

// ExpireMatchingCommandHandler rejects deliveries that stayed PENDING past
// the matching window. Each rejection moves the delivery and its order to
// REJECTED in one transaction and emits the order rejection event.
type ExpireMatchingCommandHandler struct {
	uowFactory DispatchUoWFactory
	stores     ports.StoreDirectory
	log        *slog.Logger
}

// NewExpireMatchingCommandHandler creates a handler for matching-window sweeps.
func NewExpireMatchingCommandHandler(
	uowFactory DispatchUoWFactory,
	stores ports.StoreDirectory,
	log *slog.Logger,
) ExpireMatchingCommandHandler {
	return ExpireMatchingCommandHandler{
		uowFactory: uowFactory,
		stores:     stores,
		log:        log.With("component", "expire_matching_handler"),
	}
}

// Handle rejects every pending delivery requested before now minus the window.
// A delivery that a rider accepts mid-sweep wins the race: the rejection
// transaction sees the conflict and steps aside.
func (h *ExpireMatchingCommandHandler) Handle(ctx context.Context, cmd ExpireMatchingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	pending, err := listPendingDeliveries(ctx, h.uowFactory)
	if err != nil {
		return err
	}

	cutoff := cmd.Now().Add(-cmd.Window())
	for _, dlv := range pending {
		if dlv.RequestedAt().After(cutoff) {
			continue
		}

		err := rejectPendingDelivery(ctx, h.uowFactory, h.stores, dlv.ID(),
			"no rider accepted within the matching window")
		switch {
		case err == nil:
		case errors.Is(err, errs.ErrVersionConflict),
			errors.Is(err, errs.ErrInvalidTransition):
			h.log.DebugContext(ctx, "delivery advanced concurrently, skipping expiry",
				"delivery_id", int64(dlv.ID()))
		default:
			h.log.ErrorContext(ctx, "expiring delivery failed",
				"delivery_id", int64(dlv.ID()), "error", err)
		}
	}
	return nil
}

// rejectPendingDelivery moves one still-pending delivery and its order to
// REJECTED. Re-reads inside the transaction so a concurrent acceptance turns
// the rejection into a no-op instead of clobbering an assigned rider.
func rejectPendingDelivery(
	ctx context.Context,
	uowFactory DispatchUoWFactory,
	stores ports.StoreDirectory,
	deliveryID kernel.DeliveryID,
	reason string,
) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	deliveryRepo := uow.DeliveryRepository()
	dlv, err := deliveryRepo.Get(ctx, deliveryID)
	if err != nil {
		return err
	}
	if dlv.Status() != delivery.StatusPending {
		return nil
	}

	if err = dlv.Advance(delivery.StatusRejected); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, dlv.OrderID())
	if err != nil {
		return err
	}
	if err = ord.TransitTo(order.StatusRejected); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, dlv); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	sellerID, err := stores.SellerOf(ctx, dlv.StoreID())
	if err != nil {
		return err
	}

	now := time.Now()
	uow.EnqueueEvent(events.OrderRejected{
		Meta:       events.NewMeta(now),
		OrderID:    int64(ord.ID()),
		CustomerID: int64(ord.CustomerID()),
		SellerID:   sellerID,
		Reason:     reason,
	})
	uow.EnqueueEvent(events.DeliveryStatusChanged{
		Meta:       events.NewMeta(now),
		DeliveryID: int64(dlv.ID()),
		OrderID:    int64(dlv.OrderID()),
		CustomerID: int64(dlv.CustomerID()),
		SellerID:   sellerID,
		Status:     string(delivery.StatusPending),
		NextStatus: string(delivery.StatusRejected),
	})

	return uow.Commit(ctx)
}
