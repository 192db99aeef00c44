package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	stderrors "errors"
	"time"

	"github.com/google/uuid"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
)

type sqliteNotificationRepository struct {
	store *SQLiteStore
}

func NewSQLiteNotificationRepository(store *SQLiteStore) repository.NotificationRepository {
	return &sqliteNotificationRepository{store: store}
}

const notificationColumns = `id, user_id, type, title, message, category, related_id, related_type,
	metadata, action_url, is_read, read_at, priority, sender_id, created_at`

func (r *sqliteNotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = nowUTC()
	}

	var metadata string
	if len(n.Metadata) > 0 {
		raw, err := json.Marshal(n.Metadata)
		if err != nil {
			return errors.Internal("Failed to encode notification metadata", err)
		}
		metadata = string(raw)
	}

	_, err := r.store.db.ExecContext(ctx, `INSERT INTO notifications (`+notificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		n.ID, n.UserID, string(n.Type), n.Title, n.Message, string(n.Category), n.RelatedID,
		string(n.RelatedType), metadata, n.ActionURL, boolToInt(n.IsRead), toNullUnix(n.ReadAt),
		string(n.Priority), n.SenderID, toUnix(n.CreatedAt))
	if err != nil {
		return errors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *sqliteNotificationRepository) GetByID(ctx context.Context, id string) (*entity.Notification, error) {
	row := r.store.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id)
	return scanNotification(row)
}

func (r *sqliteNotificationRepository) ListByUser(ctx context.Context, userID string, onlyUnread bool, limit int) ([]*entity.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE user_id = ?`
	if onlyUnread {
		query += ` AND is_read = 0`
	}
	query += ` ORDER BY created_at DESC, seq DESC LIMIT ?`

	rows, err := r.store.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, errors.Internal("Failed to list notifications", err)
	}
	defer rows.Close()

	var notifications []*entity.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("Failed to iterate notifications", err)
	}
	return notifications, nil
}

func (r *sqliteNotificationRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.store.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID).Scan(&count)
	if err != nil {
		return 0, errors.Internal("Failed to count notifications", err)
	}
	return count, nil
}

func (r *sqliteNotificationRepository) MarkRead(ctx context.Context, id string, readAt time.Time) error {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1, read_at = ? WHERE id = ?`, toUnix(readAt), id)
	if err != nil {
		return errors.Internal("Failed to mark notification as read", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("Notification", nil)
	}
	return nil
}

func (r *sqliteNotificationRepository) MarkAllRead(ctx context.Context, userID string, readAt time.Time) (int, error) {
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1, read_at = ? WHERE user_id = ? AND is_read = 0`,
		toUnix(readAt), userID)
	if err != nil {
		return 0, errors.Internal("Failed to mark notifications as read", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Internal("Failed to mark notifications as read", err)
	}
	return int(n), nil
}

func (r *sqliteNotificationRepository) Delete(ctx context.Context, id string) error {
	res, err := r.store.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		return errors.Internal("Failed to delete notification", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("Notification", nil)
	}
	return nil
}

func scanNotification(row rowScanner) (*entity.Notification, error) {
	var (
		n                                      entity.Notification
		notifType, category, relatedType, prio string
		metadata                               string
		readAt                                 sql.NullInt64
		createdAt                              int64
	)
	err := row.Scan(&n.ID, &n.UserID, &notifType, &n.Title, &n.Message, &category, &n.RelatedID,
		&relatedType, &metadata, &n.ActionURL, &n.IsRead, &readAt, &prio, &n.SenderID, &createdAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Notification", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to read notification", err)
	}

	n.Type = entity.NotificationType(notifType)
	n.Category = entity.NotificationCategory(category)
	n.RelatedType = entity.RelatedType(relatedType)
	n.Priority = entity.NotificationPriority(prio)
	n.ReadAt = fromNullUnix(readAt)
	n.CreatedAt = fromUnix(createdAt)
	if metadata != "" {
		if err := json.Unmarshal([]byte(metadata), &n.Metadata); err != nil {
			return nil, errors.Internal("Failed to decode notification metadata", err)
		}
	}
	return &n, nil
}
