package repository

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
)

const notificationsCollection = "notifications"

type firestoreNotificationRepository struct {
	client *firestore.Client
}

func NewFirestoreNotificationRepository(client *firestore.Client) repository.NotificationRepository {
	return &firestoreNotificationRepository{
		client: client,
	}
}

func (r *firestoreNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now()
	}

	if _, err := r.client.Collection(notificationsCollection).Doc(n.ID).Set(ctx, n); err != nil {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	doc, err := r.client.Collection(notificationsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Notification", err)
		}
		return nil, errors.Internal("Failed to get notification", err)
	}

	var n entity.Notification
	if err := doc.DataTo(&n); err != nil {
		return nil, errors.Internal("Failed to parse notification data", err)
	}
	return &n, nil
}

func (r *firestoreNotificationRepository) ListByUser(ctx context.Context, userID string, onlyUnread bool, limit int) ([]*entity.Notification, error) {
	query := r.client.Collection(notificationsCollection).Where("userId", "==", userID)
	if onlyUnread {
		query = query.Where("isRead", "==", false)
	}
	iter := query.OrderBy("createdAt", firestore.Desc).Limit(limit).Documents(ctx)
	defer iter.Stop()

	var notifications []*entity.Notification
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating notifications for user %s: %v", userID, err)
			return nil, errors.Internal("Failed to list notifications", err)
		}

		var n entity.Notification
		if err := doc.DataTo(&n); err != nil {
			return nil, errors.Internal("Failed to parse notification data", err)
		}
		notifications = append(notifications, &n)
	}
	return notifications, nil
}

func (r *firestoreNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	docs, err := r.client.Collection(notificationsCollection).
		Where("userId", "==", userID).
		Where("isRead", "==", false).
		Documents(ctx).GetAll()
	if err != nil {
		return 0, errors.Internal("Failed to count notifications", err)
	}
	return len(docs), nil
}

func (r *firestoreNotificationRepository) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	_, err := r.client.Collection(notificationsCollection).Doc(id).Update(ctx, []firestore.Update{
		{Path: "isRead", Value: true},
		{Path: "readAt", Value: readAt},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Notification", err)
		}
		return errors.Internal("Failed to mark notification as read", err)
	}
	return nil
}

func (r *firestoreNotificationRepository) MarkAllRead(ctx context.Context, userID string, readAt time.Time) (int, error) {
	iter := r.client.Collection(notificationsCollection).
		Where("userId", "==", userID).
		Where("isRead", "==", false).
		Documents(ctx)
	defer iter.Stop()

	bw := r.client.BulkWriter(ctx)
	marked := 0
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			bw.End()
			return marked, errors.Internal("Failed to iterate notifications", err)
		}

		if _, err := bw.Update(doc.Ref, []firestore.Update{
			{Path: "isRead", Value: true},
			{Path: "readAt", Value: readAt},
		}); err != nil {
			log.Printf("MarkAllRead: failed to queue update for notification %s: %v", doc.Ref.ID, err)
			continue
		}
		marked++
	}
	bw.End()

	return marked, nil
}

func (r *firestoreNotificationRepository) Delete(ctx context.Context, id string) error {
	ref := r.client.Collection(notificationsCollection).Doc(id)
	if _, err := ref.Get(ctx); err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Notification", err)
		}
		return errors.Internal("Failed to get notification", err)
	}

	if _, err := ref.Delete(ctx); err != nil {
		return errors.Internal("Failed to delete notification", err)
	}
	return nil
}
