// Package notificationrepo persists the per-recipient notification records
// written by the event consumers.
package notificationrepo

import (
	"encoding/json"
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
)

// NotificationDTO is the database row of a notification.
type NotificationDTO struct {
	ID          int64  `gorm:"primaryKey;autoIncrement"`
	RecipientID int64  `gorm:"index:idx_notifications_recipient_unread"`
	Kind        string `gorm:"type:varchar(40)"`
	Message     string `gorm:"type:varchar(500)"`
	Payload     []byte `gorm:"type:jsonb"`
	IsRead      bool   `gorm:"column:is_read;index:idx_notifications_recipient_unread"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName maps the DTO to the "notifications" table.
func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(aggregate *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          int64(aggregate.ID()),
		RecipientID: aggregate.RecipientID(),
		Kind:        string(aggregate.Kind()),
		Message:     aggregate.Message(),
		Payload:     aggregate.Payload(),
		IsRead:      aggregate.IsRead(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	return notification.RestoreNotification(
		kernel.NotificationID(dto.ID),
		dto.RecipientID,
		notification.Type(dto.Kind),
		dto.Message,
		json.RawMessage(dto.Payload),
		dto.IsRead,
	)
}
