package eventhandlers

import (
	"context"
	"log/slog"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/ports"
)

// SettlementEventHandler consumes OrderCompleted and records one settlement
// detail per target: the seller gets the store price, the rider gets the
// delivery charge. The (order, target) pair is unique in storage, so a
// redelivered event finds its rows already present and changes nothing.
type SettlementEventHandler struct {
	uowFactory SettlementUoWFactory
	log        *slog.Logger
}

// NewSettlementEventHandler creates the settlement consumer.
func NewSettlementEventHandler(uowFactory SettlementUoWFactory, log *slog.Logger) SettlementEventHandler {
	return SettlementEventHandler{uowFactory: uowFactory, log: log}
}

// Handle consumes one envelope, ignoring everything but OrderCompleted.
func (h SettlementEventHandler) Handle(ctx context.Context, env events.Envelope) error {
	if env.Name != events.NameOrderCompleted {
		return nil
	}

	event, err := events.Decode(env)
	if err != nil {
		return err
	}
	completed := event.(*events.OrderCompleted)

	storePrice, err := kernel.NewMoney(completed.StorePrice)
	if err != nil {
		return err
	}
	deliveryPrice, err := kernel.NewMoney(completed.DeliveryPrice)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.SettlementRepository()
	details := []ports.SettlementDetail{
		{
			OrderID:    kernel.OrderID(completed.OrderID),
			TargetType: ports.SettlementTargetSeller,
			TargetID:   completed.SellerID,
			Amount:     storePrice,
		},
		{
			OrderID:    kernel.OrderID(completed.OrderID),
			TargetType: ports.SettlementTargetRider,
			TargetID:   completed.RiderID,
			Amount:     deliveryPrice,
		},
	}

	for _, detail := range details {
		created, createErr := repo.CreateIfAbsent(ctx, detail)
		if createErr != nil {
			return createErr
		}
		if !created {
			h.log.InfoContext(ctx, "settlement detail already recorded, skipping",
				"order_id", detail.OrderID, "target_type", detail.TargetType, "event_id", env.EventID)
		}
	}

	return uow.Commit(ctx)
}
