// Package notification contains the persisted Notification record created by
// the event consumers. A notification is written once and only ever mutated by
// MarkRead.
package notification

import (
	"encoding/json"
	"errors"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/errs"
)

// Type classifies a notification for the client UI.
type Type string

const (
	TypeOrderPaid       Type = "ORDER_PAID"
	TypeOrderPreparing  Type = "ORDER_PREPARING"
	TypeOrderCanceled   Type = "ORDER_CANCELED"
	TypeOrderRejected   Type = "ORDER_REJECTED"
	TypeRiderAssigned   Type = "RIDER_ASSIGNED"
	TypeDeliveryChanged Type = "DELIVERY_STATUS_CHANGED"
	TypePaymentResult   Type = "PAYMENT_RESULT"
)

// ErrNotificationIsNotConstructed is returned for zero-value instances.
var ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification or RestoreNotification")

// Notification is a per-recipient message with an opaque structured payload.
// RecipientID is an opaque profile identifier: customer, seller and rider
// profiles share the same ID space for notification routing.
type Notification struct {
	id          kernel.NotificationID
	recipientID int64
	kind        Type
	message     string
	payload     json.RawMessage
	read        bool

	isConstructed bool
}

// NewNotification creates an unread notification.
func NewNotification(
	id kernel.NotificationID,
	recipientID int64,
	kind Type,
	message string,
	payload json.RawMessage,
) (*Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	if recipientID <= 0 {
		return nil, errs.NewValueIsRequiredError("recipientId")
	}
	if message == "" {
		return nil, errs.NewValueIsRequiredError("message")
	}

	return &Notification{
		id:            id,
		recipientID:   recipientID,
		kind:          kind,
		message:       message,
		payload:       payload,
		isConstructed: true,
	}, nil
}

// RestoreNotification reconstructs a notification from persistence.
func RestoreNotification(
	id kernel.NotificationID,
	recipientID int64,
	kind Type,
	message string,
	payload json.RawMessage,
	read bool,
) (*Notification, error) {
	n, err := NewNotification(id, recipientID, kind, message, payload)
	if err != nil {
		return nil, err
	}
	n.read = read
	return n, nil
}

// Validate ensures the notification was built through a constructor.
func (n *Notification) Validate() error {
	if n == nil || !n.isConstructed {
		return ErrNotificationIsNotConstructed
	}
	return nil
}

// ID returns the notification identifier.
func (n *Notification) ID() kernel.NotificationID { return n.id }

// RecipientID returns the opaque recipient profile identifier.
func (n *Notification) RecipientID() int64 { return n.recipientID }

// Kind returns the notification type.
func (n *Notification) Kind() Type { return n.kind }

// Message returns the human-readable message.
func (n *Notification) Message() string { return n.message }

// Payload returns the opaque structured payload.
func (n *Notification) Payload() json.RawMessage { return n.payload }

// IsRead reports whether the recipient has read the notification.
func (n *Notification) IsRead() bool { return n.read }

// MarkRead flags the notification as read. Idempotent.
func (n *Notification) MarkRead() {
	n.read = true
}
