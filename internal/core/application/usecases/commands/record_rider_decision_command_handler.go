package commands

import (
	"context"
	"time"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/delivery"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/ports"
)

// RecordRiderDecisionCommandHandler applies a rider's answer to an offer.
//
// An acceptance assigns the rider to the delivery and moves the order to
// RIDER_ASSIGNED in the same transaction. Two riders racing to accept the same
// delivery are serialized by the delivery row: the second AssignRider sees a
// non-pending delivery and fails without touching anything.
//
// A rejection only records the rider in the tried set; the delivery stays
// PENDING and the matching job moves on to the next candidate.
type RecordRiderDecisionCommandHandler struct {
	uowFactory DispatchUoWFactory
	stores     ports.StoreDirectory
}

// NewRecordRiderDecisionCommandHandler creates a handler for rider decisions.
func NewRecordRiderDecisionCommandHandler(
	uowFactory DispatchUoWFactory,
	stores ports.StoreDirectory,
) RecordRiderDecisionCommandHandler {
	return RecordRiderDecisionCommandHandler{
		uowFactory: uowFactory,
		stores:     stores,
	}
}

// Handle processes the decision.
func (h *RecordRiderDecisionCommandHandler) Handle(
	ctx context.Context,
	cmd RecordRiderDecisionCommand,
) error {
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
	dlv, err := deliveryRepo.GetByOrderID(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	now := time.Now()
	uow.EnqueueEvent(events.RiderDecision{
		Meta:       events.NewMeta(now),
		OrderID:    int64(cmd.OrderID()),
		RiderID:    int64(cmd.RiderID()),
		Decision:   cmd.Decision(),
		EtaMinutes: cmd.EtaMinutes(),
	})

	if cmd.Decision() == events.DecisionReject {
		dlv.MarkRiderTried(cmd.RiderID())
		if err = deliveryRepo.Update(ctx, dlv); err != nil {
			return err
		}
		return uow.Commit(ctx)
	}

	previous := dlv.Status()
	if err = dlv.AssignRider(cmd.RiderID(), cmd.EtaMinutes()); err != nil {
		return err
	}

	orderRepo := uow.OrderRepository()
	ord, err := orderRepo.Get(ctx, dlv.OrderID())
	if err != nil {
		return err
	}
	if err = ord.TransitTo(order.StatusRiderAssigned); err != nil {
		return err
	}

	if err = deliveryRepo.Update(ctx, dlv); err != nil {
		return err
	}
	if err = orderRepo.Update(ctx, ord); err != nil {
		return err
	}

	sellerID, err := h.stores.SellerOf(ctx, dlv.StoreID())
	if err != nil {
		return err
	}

	uow.EnqueueEvent(events.DeliveryStatusChanged{
		Meta:       events.NewMeta(now),
		DeliveryID: int64(dlv.ID()),
		OrderID:    int64(dlv.OrderID()),
		RiderID:    int64(cmd.RiderID()),
		CustomerID: int64(dlv.CustomerID()),
		SellerID:   sellerID,
		Status:     string(previous),
		NextStatus: string(delivery.StatusRiderAssigned),
	})

	return uow.Commit(ctx)
}
