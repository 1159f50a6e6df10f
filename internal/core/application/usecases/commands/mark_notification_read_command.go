package commands

import (
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrMarkNotificationReadCommandIsNotConstructed = errors.New(
	"MarkNotificationReadCommand must be created via NewMarkNotificationReadCommand constructor",
)

// MarkNotificationReadCommand flags a recipient's notification as read.
type MarkNotificationReadCommand struct { //nolint:recvcheck //using for validation
	notificationID kernel.NotificationID
	recipientID    int64

	guard guard.ConstructorGuard
}

// NewMarkNotificationReadCommand creates the command. The recipient is
// required so a client can only acknowledge its own notifications.
func NewMarkNotificationReadCommand(
	notificationID kernel.NotificationID,
	recipientID int64,
) (MarkNotificationReadCommand, error) {
	cmd := MarkNotificationReadCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := notificationID.Validate(); err != nil {
		return MarkNotificationReadCommand{}, err
	}
	if recipientID <= 0 {
		return MarkNotificationReadCommand{}, errs.NewValueIsRequiredError("recipientId")
	}
	cmd.notificationID = notificationID
	cmd.recipientID = recipientID
	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c MarkNotificationReadCommand) Validate() error {
	return c.guard.Validate(ErrMarkNotificationReadCommandIsNotConstructed)
}

// NotificationID returns the notification to acknowledge.
func (c MarkNotificationReadCommand) NotificationID() kernel.NotificationID {
	return c.notificationID
}

// RecipientID returns the acknowledging recipient.
func (c MarkNotificationReadCommand) RecipientID() int64 { return c.recipientID }
