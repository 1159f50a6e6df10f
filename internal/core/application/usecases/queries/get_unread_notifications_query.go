package queries

import (
	"encoding/json"
	"errors"

	"marketplace/internal/pkg/errs"
	"marketplace/internal/pkg/guard"
)

var ErrGetUnreadNotificationsQueryIsNotConstructed = errors.New(
	"GetUnreadNotificationsQuery must be created via NewGetUnreadNotificationsQuery constructor",
)

// GetUnreadNotificationsQuery retrieves a recipient's unread notifications,
// newest first. Clients call it after reconnecting to catch up on pushes they
// missed while offline.
type GetUnreadNotificationsQuery struct {
	recipientID int64

	guard guard.ConstructorGuard
}

// NewGetUnreadNotificationsQuery creates a query for a recipient's unread feed.
func NewGetUnreadNotificationsQuery(recipientID int64) (GetUnreadNotificationsQuery, error) {
	if recipientID <= 0 {
		return GetUnreadNotificationsQuery{}, errs.NewValueIsRequiredError("recipientId")
	}
	return GetUnreadNotificationsQuery{
		recipientID: recipientID,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetUnreadNotificationsQuery) Validate() error {
	return q.guard.Validate(ErrGetUnreadNotificationsQueryIsNotConstructed)
}

// RecipientID returns the queried recipient.
func (q GetUnreadNotificationsQuery) RecipientID() int64 {
	return q.recipientID
}

// GetUnreadNotificationsQueryResponse is one unread notification.
type GetUnreadNotificationsQueryResponse struct {
	NotificationID int64
	Kind           string
	Message        string
	Payload        json.RawMessage
}
