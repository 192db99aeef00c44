package repository

import (
	"context"
	"database/sql"
	stderrors "errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/pkg/errors"
)

type sqliteChatRepository struct {
	store *SQLiteStore
}

func NewSQLiteChatRepository(store *SQLiteStore) repository.ChatRepository {
	return &sqliteChatRepository{store: store}
}

const chatColumns = `id, listing_id, participant_0, participant_1, is_active, is_blocked, blocked_by,
	last_message_at, last_message_preview, unread_0, unread_1, created_at, updated_at`

const messageColumns = `id, chat_id, sender_id, body, message_type, image_url, is_read, read_at,
	is_deleted, system_message_type, created_at`

func (r *sqliteChatRepository) Create(ctx context.Context, chat *entity.Chat, opening *entity.Message) error {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	now := nowUTC()
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = now
	}
	chat.UpdatedAt = chat.CreatedAt
	if chat.LastMessageAt.IsZero() {
		chat.LastMessageAt = chat.CreatedAt
	}
	pair := []string{chat.ParticipantIDs[0], chat.ParticipantIDs[1]}
	sort.Strings(pair)

	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO chats (`+chatColumns+`, pair_low, pair_high)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			chat.ID, chat.ListingID, chat.ParticipantIDs[0], chat.ParticipantIDs[1],
			boolToInt(chat.IsActive), boolToInt(chat.IsBlocked), chat.BlockedBy,
			toUnix(chat.LastMessageAt), chat.LastMessagePreview,
			chat.UnreadCounts[0], chat.UnreadCounts[1],
			toUnix(chat.CreatedAt), toUnix(chat.UpdatedAt), pair[0], pair[1])
		if err != nil {
			if isUniqueViolation(err) {
				return repository.ErrActiveChatExists
			}
			return errors.Internal("Failed to create chat", err)
		}

		if opening == nil {
			return nil
		}
		opening.ChatID = chat.ID
		return insertMessage(ctx, tx, opening)
	})
}

func (r *sqliteChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	return scanChat(r.store.db.QueryRowContext(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = ?`, id))
}

func (r *sqliteChatRepository) FindActive(ctx context.Context, listingID, userA, userB string) (*entity.Chat, error) {
	pair := []string{userA, userB}
	sort.Strings(pair)

	chat, err := scanChat(r.store.db.QueryRowContext(ctx,
		`SELECT `+chatColumns+` FROM chats WHERE listing_id = ? AND pair_low = ? AND pair_high = ? AND is_active = 1`,
		listingID, pair[0], pair[1]))
	if errors.Is(err, "NOT_FOUND") {
		return nil, nil
	}
	return chat, err
}

func (r *sqliteChatRepository) ListActiveByParticipant(ctx context.Context, userID string) ([]*entity.Chat, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT `+chatColumns+` FROM chats
		WHERE (participant_0 = ? OR participant_1 = ?) AND is_active = 1
		ORDER BY created_at DESC, id DESC`, userID, userID)
	if err != nil {
		return nil, errors.Internal("Failed to list chats", err)
	}
	defer rows.Close()

	var chats []*entity.Chat
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("Failed to iterate chats", err)
	}
	return chats, nil
}

func (r *sqliteChatRepository) SetBlocked(ctx context.Context, chatID string, blocked bool, blockedBy string) error {
	if !blocked {
		blockedBy = ""
	}
	res, err := r.store.db.ExecContext(ctx,
		`UPDATE chats SET is_blocked = ?, blocked_by = ?, updated_at = ? WHERE id = ?`,
		boolToInt(blocked), blockedBy, toUnix(nowUTC()), chatID)
	if err != nil {
		return errors.Internal("Failed to update chat", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.NotFound("Chat", nil)
	}
	return nil
}

func (r *sqliteChatRepository) AppendMessage(ctx context.Context, msg *entity.Message, preview string) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = nowUTC()
	}

	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		chat, err := scanChat(tx.QueryRowContext(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = ?`, msg.ChatID))
		if err != nil {
			return err
		}
		if !chat.IsParticipant(msg.SenderID) {
			return errors.Forbidden("Sender is not a participant of this chat", nil)
		}

		chat.IncrementUnreadFor(chat.OtherParticipant(msg.SenderID))
		_, err = tx.ExecContext(ctx, `UPDATE chats SET last_message_at = ?, last_message_preview = ?,
			unread_0 = ?, unread_1 = ?, updated_at = ? WHERE id = ?`,
			toUnix(msg.CreatedAt), preview, chat.UnreadCounts[0], chat.UnreadCounts[1],
			toUnix(msg.CreatedAt), chat.ID)
		if err != nil {
			return errors.Internal("Failed to update chat", err)
		}

		return insertMessage(ctx, tx, msg)
	})
}

func (r *sqliteChatRepository) ResetUnread(ctx context.Context, chatID, userID string) error {
	return r.store.withTx(ctx, func(tx *sql.Tx) error {
		chat, err := scanChat(tx.QueryRowContext(ctx, `SELECT `+chatColumns+` FROM chats WHERE id = ?`, chatID))
		if err != nil {
			return err
		}

		chat.ResetUnreadFor(userID)
		_, err = tx.ExecContext(ctx, `UPDATE chats SET unread_0 = ?, unread_1 = ? WHERE id = ?`,
			chat.UnreadCounts[0], chat.UnreadCounts[1], chat.ID)
		if err != nil {
			return errors.Internal("Failed to reset unread count", err)
		}
		return nil
	})
}

func (r *sqliteChatRepository) MarkMessagesRead(ctx context.Context, chatID, readerID string, readAt time.Time) (int, error) {
	res, err := r.store.db.ExecContext(ctx, `UPDATE messages SET is_read = 1, read_at = ?
		WHERE chat_id = ? AND sender_id <> ? AND is_read = 0`,
		toUnix(readAt), chatID, readerID)
	if err != nil {
		return 0, errors.Internal("Failed to mark messages as read", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Internal("Failed to mark messages as read", err)
	}
	return int(n), nil
}

func (r *sqliteChatRepository) ListRecentMessages(ctx context.Context, chatID string, limit int) ([]*entity.Message, error) {
	rows, err := r.store.db.QueryContext(ctx, `SELECT `+messageColumns+` FROM messages
		WHERE chat_id = ? AND is_deleted = 0
		ORDER BY created_at DESC, seq DESC LIMIT ?`, chatID, limit)
	if err != nil {
		return nil, errors.Internal("Failed to list messages", err)
	}
	defer rows.Close()

	var messages []*entity.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Internal("Failed to iterate messages", err)
	}
	return messages, nil
}

func insertMessage(ctx context.Context, tx *sql.Tx, msg *entity.Message) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = nowUTC()
	}

	_, err := tx.ExecContext(ctx, `INSERT INTO messages (`+messageColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		msg.ID, msg.ChatID, msg.SenderID, msg.Body, string(msg.MessageType), msg.ImageURL,
		boolToInt(msg.IsRead), toNullUnix(msg.ReadAt), boolToInt(msg.IsDeleted),
		string(msg.SystemMessageType), toUnix(msg.CreatedAt))
	if err != nil {
		return errors.Internal(fmt.Sprintf("Failed to create message in chat %s", msg.ChatID), err)
	}
	return nil
}

func scanChat(row rowScanner) (*entity.Chat, error) {
	var (
		chat                                entity.Chat
		lastMessageAt, createdAt, updatedAt int64
	)
	err := row.Scan(&chat.ID, &chat.ListingID, &chat.ParticipantIDs[0], &chat.ParticipantIDs[1],
		&chat.IsActive, &chat.IsBlocked, &chat.BlockedBy, &lastMessageAt, &chat.LastMessagePreview,
		&chat.UnreadCounts[0], &chat.UnreadCounts[1], &createdAt, &updatedAt)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NotFound("Chat", err)
	}
	if err != nil {
		return nil, errors.Internal("Failed to read chat", err)
	}

	chat.LastMessageAt = fromUnix(lastMessageAt)
	chat.CreatedAt = fromUnix(createdAt)
	chat.UpdatedAt = fromUnix(updatedAt)
	return &chat, nil
}

func scanMessage(row rowScanner) (*entity.Message, error) {
	var (
		msg                     entity.Message
		messageType, systemType string
		readAt                  sql.NullInt64
		createdAt               int64
	)
	err := row.Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &msg.Body, &messageType, &msg.ImageURL,
		&msg.IsRead, &readAt, &msg.IsDeleted, &systemType, &createdAt)
	if err != nil {
		return nil, errors.Internal("Failed to read message", err)
	}

	msg.MessageType = entity.MessageType(messageType)
	msg.SystemMessageType = entity.SystemMessageType(systemType)
	msg.ReadAt = fromNullUnix(readAt)
	msg.CreatedAt = fromUnix(createdAt)
	return &msg, nil
}
