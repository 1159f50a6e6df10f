package notificationrepo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/notification"
	"marketplace/internal/pkg/errs"
)

// GormNotificationRepository implements ports.NotificationRepository using GORM.
type GormNotificationRepository struct {
	db *gorm.DB
}

// NewGormNotificationRepository creates a repository bound to the given handle.
func NewGormNotificationRepository(db *gorm.DB) *GormNotificationRepository {
	return &GormNotificationRepository{db: db}
}

// NextID reserves a fresh notification identifier from the table's sequence.
func (r *GormNotificationRepository) NextID(ctx context.Context) (kernel.NotificationID, error) {
	var id int64
	err := r.db.WithContext(ctx).
		Raw("SELECT nextval(pg_get_serial_sequence('notifications', 'id'))").
		Scan(&id).Error
	if err != nil {
		return 0, err
	}
	return kernel.NotificationID(id), nil
}

// Add saves a new notification.
func (r *GormNotificationRepository) Add(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	return r.db.WithContext(ctx).Create(&dto).Error
}

// Update persists the read flag.
func (r *GormNotificationRepository) Update(ctx context.Context, aggregate *notification.Notification) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&NotificationDTO{}).
		Where("id = ?", int64(aggregate.ID())).
		Update("is_read", aggregate.IsRead())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("notificationId", int64(aggregate.ID()))
	}
	return nil
}

// Get retrieves a notification by ID.
func (r *GormNotificationRepository) Get(ctx context.Context, id kernel.NotificationID) (*notification.Notification, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto NotificationDTO
	err := r.db.WithContext(ctx).First(&dto, "id = ?", int64(id)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("notificationId", int64(id))
		}
		return nil, err
	}
	return toDomain(dto)
}

// GetUnreadByRecipient lists a recipient's unread notifications, newest first.
func (r *GormNotificationRepository) GetUnreadByRecipient(ctx context.Context, recipientID int64) ([]*notification.Notification, error) {
	var dtos []NotificationDTO
	err := r.db.WithContext(ctx).
		Order("id DESC").
		Find(&dtos, "recipient_id = ? AND is_read = FALSE", recipientID).Error
	if err != nil {
		return nil, err
	}

	notifications := make([]*notification.Notification, 0, len(dtos))
	for _, dto := range dtos {
		n, mapErr := toDomain(dto)
		if mapErr != nil {
			return nil, mapErr
		}
		notifications = append(notifications, n)
	}
	return notifications, nil
}
