package usecase

import (
	"context"
	"time"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
)

const (
	defaultNotificationLimit = 50
	maxNotificationLimit     = 100
)

// NotificationUseCase serves the recipient side of notifications.
type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
	projector        *Projector
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository, projector *Projector) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
		projector:        projector,
	}
}

func (uc *NotificationUseCase) GetUserNotifications(ctx context.Context, userID string, limit int, onlyUnread bool) ([]*NotificationView, error) {
	if limit <= 0 {
		limit = defaultNotificationLimit
	}
	if limit > maxNotificationLimit {
		limit = maxNotificationLimit
	}

	notifications, err := uc.notificationRepo.ListByUser(ctx, userID, onlyUnread, limit)
	if err != nil {
		return nil, err
	}
	return uc.projector.ProjectNotifications(ctx, notifications), nil
}

func (uc *NotificationUseCase) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return uc.notificationRepo.CountUnread(ctx, userID)
}

func (uc *NotificationUseCase) MarkAsRead(ctx context.Context, userID, notificationID string) error {
	n, err := uc.ownedNotification(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	if n.IsRead {
		return nil
	}
	return uc.notificationRepo.MarkRead(ctx, n.ID, time.Now().UTC())
}

func (uc *NotificationUseCase) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	return uc.notificationRepo.MarkAllRead(ctx, userID, time.Now().UTC())
}

func (uc *NotificationUseCase) DeleteNotification(ctx context.Context, userID, notificationID string) error {
	n, err := uc.ownedNotification(ctx, userID, notificationID)
	if err != nil {
		return err
	}
	return uc.notificationRepo.Delete(ctx, n.ID)
}

func (uc *NotificationUseCase) ownedNotification(ctx context.Context, userID, notificationID string) (*entity.Notification, error) {
	n, err := uc.notificationRepo.GetByID(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if n.UserID != userID {
		return nil, errors.Forbidden("Unauthorized", nil)
	}
	return n, nil
}
