package repository

import (
	"context"
	stderrors "errors"
	"log"
	"sort"
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

const (
	chatsCollection    = "chats"
	messagesCollection = "messages"
	// chat_keys/{listingId}_{low}_{high} points at the active chat for that pair.
	chatKeysCollection = "chat_keys"
)

type firestoreChatRepository struct {
	client *firestore.Client
}

func NewFirestoreChatRepository(client *firestore.Client) repository.ChatRepository {
	return &firestoreChatRepository{
		client: client,
	}
}

func (r *firestoreChatRepository) messagesOf(chatID string) *firestore.CollectionRef {
	return r.client.Collection(chatsCollection).Doc(chatID).Collection(messagesCollection)
}

func (r *firestoreChatRepository) Create(ctx context.Context, chat *entity.Chat, opening *entity.Message) error {
	if chat.ID == "" {
		chat.ID = uuid.New().String()
	}
	if chat.CreatedAt.IsZero() {
		chat.CreatedAt = time.Now()
	}
	chat.UpdatedAt = chat.CreatedAt
	if chat.LastMessageAt.IsZero() {
		chat.LastMessageAt = chat.CreatedAt
	}
	if opening != nil {
		opening.ChatID = chat.ID
		if opening.ID == "" {
			opening.ID = uuid.New().String()
		}
		if opening.CreatedAt.IsZero() {
			opening.CreatedAt = chat.CreatedAt
		}
	}

	chatRef := r.client.Collection(chatsCollection).Doc(chat.ID)
	keyRef := r.client.Collection(chatKeysCollection).Doc(chat.Key())

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		_, err := tx.Get(keyRef)
		if err == nil {
			return repository.ErrActiveChatExists
		}
		if status.Code(err) != codes.NotFound {
			return err
		}

		if err := tx.Create(keyRef, map[string]interface{}{
			"chatId":    chat.ID,
			"createdAt": chat.CreatedAt,
		}); err != nil {
			return err
		}
		if err := tx.Create(chatRef, chat); err != nil {
			return err
		}
		if opening != nil {
			return tx.Create(r.messagesOf(chat.ID).Doc(opening.ID), opening)
		}
		return nil
	})
	if err != nil {
		if stderrors.Is(err, repository.ErrActiveChatExists) || status.Code(err) == codes.AlreadyExists {
			return repository.ErrActiveChatExists
		}
		return errors.Internal("Failed to create chat", err)
	}
	return nil
}

func (r *firestoreChatRepository) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	doc, err := r.client.Collection(chatsCollection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, errors.NotFound("Chat", err)
		}
		return nil, errors.Internal("Failed to get chat", err)
	}

	var chat entity.Chat
	if err := doc.DataTo(&chat); err != nil {
		return nil, errors.Internal("Failed to parse chat data", err)
	}
	return &chat, nil
}

func (r *firestoreChatRepository) FindActive(ctx context.Context, listingID, userA, userB string) (*entity.Chat, error) {
	doc, err := r.client.Collection(chatKeysCollection).Doc(entity.ChatKey(listingID, userA, userB)).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errors.Internal("Failed to look up chat", err)
	}

	chatID, _ := doc.Data()["chatId"].(string)
	chat, err := r.GetByID(ctx, chatID)
	if errors.Is(err, "NOT_FOUND") {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !chat.IsActive {
		return nil, nil
	}
	return chat, nil
}

func (r *firestoreChatRepository) ListActiveByParticipant(ctx context.Context, userID string) ([]*entity.Chat, error) {
	iter := r.client.Collection(chatsCollection).
		Where("participantIds", "array-contains", userID).
		Where("isActive", "==", true).
		Documents(ctx)
	defer iter.Stop()

	var chats []*entity.Chat
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating chats for user %s: %v", userID, err)
			return nil, errors.Internal("Failed to list chats", err)
		}

		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			return nil, errors.Internal("Failed to parse chat data", err)
		}
		chats = append(chats, &chat)
	}

	// Sorted here to avoid a composite index on array-contains + createdAt.
	sort.SliceStable(chats, func(i, j int) bool {
		if !chats[i].CreatedAt.Equal(chats[j].CreatedAt) {
			return chats[i].CreatedAt.After(chats[j].CreatedAt)
		}
		return chats[i].ID > chats[j].ID
	})
	return chats, nil
}

func (r *firestoreChatRepository) SetBlocked(ctx context.Context, chatID string, blocked bool, blockedBy string) error {
	if !blocked {
		blockedBy = ""
	}
	_, err := r.client.Collection(chatsCollection).Doc(chatID).Update(ctx, []firestore.Update{
		{Path: "isBlocked", Value: blocked},
		{Path: "blockedBy", Value: blockedBy},
		{Path: "updatedAt", Value: time.Now()},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return errors.NotFound("Chat", err)
		}
		return errors.Internal("Failed to update chat", err)
	}
	return nil
}

func (r *firestoreChatRepository) AppendMessage(ctx context.Context, msg *entity.Message, preview string) error {
	if msg.ID == "" {
		msg.ID = uuid.New().String()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	chatRef := r.client.Collection(chatsCollection).Doc(msg.ChatID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(chatRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Chat", err)
			}
			return err
		}

		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			return errors.Internal("Failed to parse chat data", err)
		}
		if !chat.IsParticipant(msg.SenderID) {
			return errors.Forbidden("Sender is not a participant of this chat", nil)
		}

		chat.IncrementUnreadFor(chat.OtherParticipant(msg.SenderID))
		chat.LastMessageAt = msg.CreatedAt
		chat.LastMessagePreview = preview
		chat.UpdatedAt = msg.CreatedAt

		if err := tx.Set(chatRef, &chat); err != nil {
			return err
		}
		return tx.Create(r.messagesOf(msg.ChatID).Doc(msg.ID), msg)
	})
	if err != nil {
		return asAppError(err, "Failed to send message")
	}
	return nil
}

func (r *firestoreChatRepository) ResetUnread(ctx context.Context, chatID, userID string) error {
	chatRef := r.client.Collection(chatsCollection).Doc(chatID)
	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		doc, err := tx.Get(chatRef)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return errors.NotFound("Chat", err)
			}
			return err
		}

		var chat entity.Chat
		if err := doc.DataTo(&chat); err != nil {
			return errors.Internal("Failed to parse chat data", err)
		}

		chat.ResetUnreadFor(userID)
		return tx.Update(chatRef, []firestore.Update{
			{Path: "unreadCounts", Value: chat.UnreadCounts},
		})
	})
	if err != nil {
		return asAppError(err, "Failed to reset unread count")
	}
	return nil
}

func (r *firestoreChatRepository) MarkMessagesRead(ctx context.Context, chatID, readerID string, readAt time.Time) (int, error) {
	iter := r.messagesOf(chatID).Where("isRead", "==", false).Documents(ctx)
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
			return marked, errors.Internal("Failed to iterate messages", err)
		}

		if senderID, _ := doc.Data()["senderId"].(string); senderID == readerID {
			continue
		}
		if _, err := bw.Update(doc.Ref, []firestore.Update{
			{Path: "isRead", Value: true},
			{Path: "readAt", Value: readAt},
		}); err != nil {
			log.Printf("MarkMessagesRead: failed to queue update for message %s in chat %s: %v", doc.Ref.ID, chatID, err)
			continue
		}
		marked++
	}
	bw.End()

	return marked, nil
}

func (r *firestoreChatRepository) ListRecentMessages(ctx context.Context, chatID string, limit int) ([]*entity.Message, error) {
	iter := r.messagesOf(chatID).
		Where("isDeleted", "==", false).
		OrderBy("createdAt", firestore.Desc).
		Limit(limit).
		Documents(ctx)
	defer iter.Stop()

	var messages []*entity.Message
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			log.Printf("Firestore error while iterating messages for chat %s: %v", chatID, err)
			return nil, errors.Internal("Failed to iterate messages", err)
		}

		var message entity.Message
		if err := doc.DataTo(&message); err != nil {
			return nil, errors.Internal("Failed to parse message data", err)
		}
		messages = append(messages, &message)
	}
	return messages, nil
}
