package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/pkg/errs"
)

func seedNotification(t *testing.T, f *fakeUoWFactory, recipientID int64) *notification.Notification {
	t.Helper()
	n, err := notification.NewNotification(1, recipientID, notification.TypeOrderPaid, "order paid", nil)
	require.NoError(t, err)
	f.store.notifications[n.ID()] = n
	return n
}

func TestMarkNotificationReadCommandHandler_MarksRead(t *testing.T) {
	f := newFakeUoWFactory()
	n := seedNotification(t, f, 7)

	cmd, err := commands.NewMarkNotificationReadCommand(n.ID(), 7)
	require.NoError(t, err)

	h := commands.NewMarkNotificationReadCommandHandler(notificationFactory{f})
	require.NoError(t, h.Handle(context.Background(), cmd))
	assert.True(t, f.store.notifications[n.ID()].IsRead())

	// Idempotent: acknowledging again succeeds.
	require.NoError(t, h.Handle(context.Background(), cmd))
}

func TestMarkNotificationReadCommandHandler_WrongRecipient(t *testing.T) {
	f := newFakeUoWFactory()
	n := seedNotification(t, f, 7)

	cmd, err := commands.NewMarkNotificationReadCommand(n.ID(), 8)
	require.NoError(t, err)

	h := commands.NewMarkNotificationReadCommandHandler(notificationFactory{f})
	err = h.Handle(context.Background(), cmd)
	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.False(t, f.store.notifications[n.ID()].IsRead())
}
