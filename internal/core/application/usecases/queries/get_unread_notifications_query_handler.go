package queries

import (
	"context"

	"gorm.io/gorm"
)

// GetUnreadNotificationsQueryHandler reads a recipient's unread notifications
// directly from the database.
type GetUnreadNotificationsQueryHandler struct {
	db *gorm.DB
}

// NewGetUnreadNotificationsQueryHandler creates a handler for unread-feed reads.
func NewGetUnreadNotificationsQueryHandler(db *gorm.DB) GetUnreadNotificationsQueryHandler {
	return GetUnreadNotificationsQueryHandler{db: db}
}

// Handle executes the query, newest notification first.
func (h GetUnreadNotificationsQueryHandler) Handle(
	ctx context.Context,
	query GetUnreadNotificationsQuery,
) ([]GetUnreadNotificationsQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	notifications := make([]GetUnreadNotificationsQueryResponse, 0)

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			kind,
			message,
			payload
		FROM notifications
		WHERE recipient_id = ? AND is_read = FALSE
		ORDER BY id DESC
	`, query.RecipientID()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var resp GetUnreadNotificationsQueryResponse
		if err = rows.Scan(
			&resp.NotificationID,
			&resp.Kind,
			&resp.Message,
			&resp.Payload,
		); err != nil {
			return nil, err
		}
		notifications = append(notifications, resp)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}
	return notifications, nil
}
