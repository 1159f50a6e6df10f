package commands

import (
	"context"

	"marketplace/internal/pkg/errs"
)

// MarkNotificationReadCommandHandler flags a notification as read. The
// operation is idempotent; acknowledging twice is not an error.
type MarkNotificationReadCommandHandler struct {
	uowFactory NotificationUoWFactory
}

// NewMarkNotificationReadCommandHandler creates a handler for read receipts.
func NewMarkNotificationReadCommandHandler(
	uowFactory NotificationUoWFactory,
) MarkNotificationReadCommandHandler {
	return MarkNotificationReadCommandHandler{uowFactory: uowFactory}
}

// Handle processes the read receipt.
func (h *MarkNotificationReadCommandHandler) Handle(
	ctx context.Context,
	cmd MarkNotificationReadCommand,
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

	repo := uow.NotificationRepository()
	n, err := repo.Get(ctx, cmd.NotificationID())
	if err != nil {
		return err
	}

	// A notification belonging to someone else is indistinguishable from a
	// missing one to the caller.
	if n.RecipientID() != cmd.RecipientID() {
		return errs.NewObjectNotFoundError("notificationId", int64(cmd.NotificationID()))
	}

	n.MarkRead()
	if err = repo.Update(ctx, n); err != nil {
		return err
	}
	return uow.Commit(ctx)
}
