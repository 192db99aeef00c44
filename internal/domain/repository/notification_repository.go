package repository

import (
	"context"
	"time"

	"surplusmarket/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	GetByID(ctx context.Context, id string) (*entity.Notification, error)
	// ListByUser returns notifications newest first.
	ListByUser(ctx context.Context, userID string, onlyUnread bool, limit int) ([]*entity.Notification, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, id string, readAt time.Time) error
	MarkAllRead(ctx context.Context, userID string, readAt time.Time) (int, error)
	Delete(ctx context.Context, id string) error
}
