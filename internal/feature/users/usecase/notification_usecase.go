package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"memberflow_backend/internal/domain/entity"
	"memberflow_backend/internal/shared/apperrors"
	"memberflow_backend/internal/shared/crud"
)

// NotificationStore is the persistence surface the notification usecase
// needs.
type NotificationStore interface {
	crud.Store[*entity.Notification]
	FindAllByUserID(ctx context.Context, userID uint) ([]*entity.Notification, error)
	AppendUser(ctx context.Context, n *entity.Notification, u *entity.User) error
	RemoveUser(ctx context.Context, n *entity.Notification, u *entity.User) error
}

// UserFinder resolves users for notification delivery.
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*entity.User, error)
}

// NotificationUsecase manages notifications and the notification↔user
// relation. Linking and unlinking are idempotent.
type NotificationUsecase struct {
	svc   *crud.Service[*entity.Notification]
	store NotificationStore
	users UserFinder
}

func NewNotificationUsecase(store NotificationStore, users UserFinder) *NotificationUsecase {
	uc := &NotificationUsecase{store: store, users: users}
	uc.svc = crud.NewService[*entity.Notification](store,
		crud.WithValidator(func(n *entity.Notification) error {
			if strings.TrimSpace(n.Title) == "" {
				return fmt.Errorf("%w: notification title is required", apperrors.ErrInvalidData)
			}
			if strings.TrimSpace(n.Message) == "" {
				return fmt.Errorf("%w: notification message is required", apperrors.ErrInvalidData)
			}
			return nil
		}),
	)
	return uc
}

// Save stores a new notification. The shipping date defaults to now and the
// delivery status to NOT_SENT.
func (uc *NotificationUsecase) Save(ctx context.Context, n *entity.Notification) (*entity.Notification, error) {
	if n == nil {
		return nil, fmt.Errorf("%w: notification cannot be nil", apperrors.ErrInvalidArgument)
	}
	if n.ShippingDate.IsZero() {
		n.ShippingDate = time.Now()
	}
	if n.Status == "" {
		n.Status = entity.StatusNotSent
	}
	return uc.svc.Save(ctx, n)
}

func (uc *NotificationUsecase) Update(ctx context.Context, n *entity.Notification) (*entity.Notification, error) {
	return uc.svc.Update(ctx, n)
}

func (uc *NotificationUsecase) FindByID(ctx context.Context, id uint) (*entity.Notification, error) {
	return uc.svc.FindByID(ctx, id)
}

func (uc *NotificationUsecase) FindAll(ctx context.Context) ([]*entity.Notification, error) {
	return uc.svc.FindAll(ctx)
}

func (uc *NotificationUsecase) FindAllByUserID(ctx context.Context, userID uint) ([]*entity.Notification, error) {
	return uc.store.FindAllByUserID(ctx, userID)
}

// AddNotificationToUser delivers the notification to the user. Already
// delivered is not an error.
func (uc *NotificationUsecase) AddNotificationToUser(ctx context.Context, notificationID, userID uint) (*entity.Notification, error) {
	n, err := uc.svc.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if hasRecipient(n, userID) {
		slog.Warn("notification already delivered to user", "notification_id", notificationID, "user_id", userID)
		return n, nil
	}
	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := uc.store.AppendUser(ctx, n, u); err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, notificationID)
}

// RemoveNotificationFromUser withdraws the notification from the user. Not
// delivered is not an error.
func (uc *NotificationUsecase) RemoveNotificationFromUser(ctx context.Context, notificationID, userID uint) (*entity.Notification, error) {
	n, err := uc.svc.FindByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if !hasRecipient(n, userID) {
		slog.Warn("notification not delivered to user", "notification_id", notificationID, "user_id", userID)
		return n, nil
	}
	u, err := uc.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := uc.store.RemoveUser(ctx, n, u); err != nil {
		return nil, err
	}
	return uc.svc.FindByID(ctx, notificationID)
}

func (uc *NotificationUsecase) DeleteByID(ctx context.Context, id uint) error {
	n, err := uc.svc.FindByID(ctx, id)
	if err != nil {
		return err
	}
	// Unlink recipients first so no join rows are orphaned.
	for _, u := range n.Users {
		if err := uc.store.RemoveUser(ctx, n, u); err != nil {
			return err
		}
	}
	return uc.svc.DeleteByID(ctx, id)
}

func hasRecipient(n *entity.Notification, userID uint) bool {
	for _, u := range n.Users {
		if u.ID == userID {
			return true
		}
	}
	return false
}
