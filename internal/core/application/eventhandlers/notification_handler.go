package eventhandlers

import (
	"context"
	"fmt"
	"log/slog"

	"marketplace/internal/core/domain/events"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/core/ports"
)

// recipientNote is one notification to fan out for a decoded event.
type recipientNote struct {
	recipientID int64
	kind        notification.Type
	message     string
}

// NotificationEventHandler turns pipeline events into per-recipient
// notifications: a durable record plus a push to the recipient's live
// connections. Events that don't address a person are skipped.
//
// Delivery is at-least-once; a redelivered event produces a duplicate record,
// which the client dedupes by event payload. Only settlement needs hard
// exactly-once semantics and that lives in SettlementEventHandler.
type NotificationEventHandler struct {
	uowFactory NotificationUoWFactory
	dispatcher ports.NotificationDispatcher
	log        *slog.Logger
}

// NewNotificationEventHandler creates the notification consumer.
func NewNotificationEventHandler(
	uowFactory NotificationUoWFactory,
	dispatcher ports.NotificationDispatcher,
	log *slog.Logger,
) NotificationEventHandler {
	return NotificationEventHandler{
		uowFactory: uowFactory,
		dispatcher: dispatcher,
		log:        log,
	}
}

// Handle consumes one envelope. An unknown recipient is a successful no-op on
// the push side; the durable record is still written so the recipient catches
// up via the unread feed.
func (h NotificationEventHandler) Handle(ctx context.Context, env events.Envelope) error {
	event, err := events.Decode(env)
	if err != nil {
		return err
	}

	notes := h.fanOut(event)
	if len(notes) == 0 {
		return nil
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()
	for _, note := range notes {
		id, idErr := repo.NextID(ctx)
		if idErr != nil {
			return idErr
		}
		n, noteErr := notification.NewNotification(id, note.recipientID, note.kind, note.message, env.Payload)
		if noteErr != nil {
			return noteErr
		}
		if err = repo.Add(ctx, n); err != nil {
			return err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	// Push after the records are durable; a dead connection only loses the
	// push, never the record.
	for _, note := range notes {
		h.dispatcher.Dispatch(note.recipientID, env.Name, env.Payload)
	}

	h.log.DebugContext(ctx, "notifications fanned out",
		"event", env.Name, "recipients", len(notes))
	return nil
}

// fanOut maps a decoded event to the recipients it addresses.
func (h NotificationEventHandler) fanOut(event events.DomainEvent) []recipientNote {
	switch e := event.(type) {
	case *events.OrderPaid:
		return []recipientNote{{
			e.CustomerID, notification.TypeOrderPaid,
			fmt.Sprintf("Your order #%d is paid and waiting for the store.", e.OrderID),
		}}
	case *events.OrderPaidForSeller:
		return []recipientNote{{
			e.SellerID, notification.TypeOrderPaid,
			fmt.Sprintf("New paid order #%d with %d items.", e.OrderID, len(e.Items)),
		}}
	case *events.OrderPreparing:
		return []recipientNote{{
			e.CustomerID, notification.TypeOrderPreparing,
			fmt.Sprintf("The store accepted order #%d and started preparing it.", e.OrderID),
		}}
	case *events.OrderCanceled:
		return []recipientNote{
			{e.CustomerID, notification.TypeOrderCanceled,
				fmt.Sprintf("Order #%d was canceled.", e.OrderID)},
			{e.SellerID, notification.TypeOrderCanceled,
				fmt.Sprintf("Order #%d was canceled by the customer.", e.OrderID)},
		}
	case *events.OrderCancelFailed:
		return []recipientNote{{
			e.CustomerID, notification.TypeOrderCanceled,
			fmt.Sprintf("Order #%d could not be canceled: %s", e.OrderID, e.Reason),
		}}
	case *events.OrderRejected:
		return []recipientNote{
			{e.CustomerID, notification.TypeOrderRejected,
				fmt.Sprintf("Order #%d was rejected: %s", e.OrderID, e.Reason)},
			{e.SellerID, notification.TypeOrderRejected,
				fmt.Sprintf("Order #%d was rejected: %s", e.OrderID, e.Reason)},
		}
	case *events.DeliveryStatusChanged:
		return []recipientNote{
			{e.CustomerID, notification.TypeDeliveryChanged,
				fmt.Sprintf("Delivery for order #%d is now %s.", e.OrderID, e.NextStatus)},
			{e.SellerID, notification.TypeDeliveryChanged,
				fmt.Sprintf("Delivery for order #%d is now %s.", e.OrderID, e.NextStatus)},
		}
	case *events.PaymentCompleted:
		return []recipientNote{{
			e.CustomerID, notification.TypePaymentResult,
			fmt.Sprintf("Payment of %s for order #%d completed.", e.Amount, e.OrderID),
		}}
	case *events.PaymentFailed:
		return []recipientNote{{
			e.CustomerID, notification.TypePaymentResult,
			fmt.Sprintf("Payment for order #%d failed: %s", e.OrderID, e.Reason),
		}}
	default:
		// OrderCreated, OrderCompleted and RiderDecision are machine-facing.
		return nil
	}
}
