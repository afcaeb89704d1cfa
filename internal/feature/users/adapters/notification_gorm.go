package adapters

import (
	"context"

	"gorm.io/gorm"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/platform/gormstore"
)

// NotificationGorm persists Notification entities and their recipient links.
type NotificationGorm struct {
	*gormstore.Store[entity.Notification]
}

func NewNotificationGorm(conn *gorm.DB) *NotificationGorm {
	return &NotificationGorm{Store: gormstore.New[entity.Notification](conn, "Users")}
}

// FindAllByUserID returns every notification delivered to the given user.
func (r *NotificationGorm) FindAllByUserID(ctx context.Context, userID uint) ([]*entity.Notification, error) {
	var out []*entity.Notification
	err := r.DB(ctx).
		Joins("JOIN notifications_users ON notifications_users.notification_id = notifications.id").
		Where("notifications_users.user_id = ?", userID).
		Find(&out).Error
	return out, err
}

// AppendUser links a recipient to the notification.
func (r *NotificationGorm) AppendUser(ctx context.Context, n *entity.Notification, u *entity.User) error {
	return r.DB(ctx).Model(n).Association("Users").Append(u)
}

// RemoveUser unlinks a recipient from the notification.
func (r *NotificationGorm) RemoveUser(ctx context.Context, n *entity.Notification, u *entity.User) error {
	return r.DB(ctx).Model(n).Association("Users").Delete(u)
}
