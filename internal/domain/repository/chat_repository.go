package repository

import (
	"context"
	"time"

	"surplusmarket/internal/domain/entity"
)

type ChatRepository interface {
	// Create stores a chat together with its opening message. It returns
	// ErrActiveChatExists when an active chat for the same key exists.
	Create(ctx context.Context, chat *entity.Chat, opening *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Chat, error)
	// FindActive returns nil, nil when there is no active chat.
	FindActive(ctx context.Context, listingID, userA, userB string) (*entity.Chat, error)
	// ListActiveByParticipant returns chats newest first.
	ListActiveByParticipant(ctx context.Context, userID string) ([]*entity.Chat, error)
	SetBlocked(ctx context.Context, chatID string, blocked bool, blockedBy string) error

	// AppendMessage inserts msg and, in the same transaction, updates the
	// chat preview and increments the recipient's unread count.
	AppendMessage(ctx context.Context, msg *entity.Message, preview string) error
	ResetUnread(ctx context.Context, chatID, userID string) error
	// MarkMessagesRead marks every unread message not sent by readerID and
	// returns how many were changed.
	MarkMessagesRead(ctx context.Context, chatID, readerID string, readAt time.Time) (int, error)
	// ListRecentMessages returns up to limit non-deleted messages, newest first.
	ListRecentMessages(ctx context.Context, chatID string, limit int) ([]*entity.Message, error)
}
