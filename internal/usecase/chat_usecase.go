package usecase

import (
	"context"
	stderrors "errors"
	"fmt"
	"log"
	"time"

	"surplusmarket/internal/domain/entity"
	"surplusmarket/internal/domain/repository"
	"surplusmarket/internal/infrastructure/ratelimit"
	"surplusmarket/pkg/errors"
)

const recentMessagesLimit = 50

type ChatUseCase struct {
	chatRepo       repository.ChatRepository
	userRepo       repository.UserRepository
	listingRepo    repository.ListingRepository
	masterItemRepo repository.MasterItemRepository
	notifier       NotificationSender
	locker         KeyedLocker
	limiter        ActionLimiter
	projector      *Projector
}

func NewChatUseCase(
	chatRepo repository.ChatRepository,
	userRepo repository.UserRepository,
	listingRepo repository.ListingRepository,
	masterItemRepo repository.MasterItemRepository,
	notifier NotificationSender,
	locker KeyedLocker,
	limiter ActionLimiter,
	projector *Projector,
) *ChatUseCase {
	return &ChatUseCase{
		chatRepo:       chatRepo,
		userRepo:       userRepo,
		listingRepo:    listingRepo,
		masterItemRepo: masterItemRepo,
		notifier:       notifier,
		locker:         locker,
		limiter:        limiter,
		projector:      projector,
	}
}

type SendMessageInput struct {
	ChatID      string
	SenderID    string
	Body        string
	MessageType entity.MessageType
	ImageURL    string
}

// CreateOrGetChat returns the active chat between buyer and seller about the
// listing, creating it with an opening system message when none exists.
func (uc *ChatUseCase) CreateOrGetChat(ctx context.Context, listingID, buyerID, sellerID string) (string, error) {
	key := entity.ChatKey(listingID, buyerID, sellerID)

	release, err := uc.locker.Acquire(ctx, "chat:"+key)
	if err != nil {
		log.Printf("CreateOrGetChat Error: failed to acquire lock: %v", err)
		return "", errors.Internal("Failed to create chat", err)
	}
	defer release()

	existing, err := uc.chatRepo.FindActive(ctx, listingID, buyerID, sellerID)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}

	now := time.Now().UTC()
	chat := &entity.Chat{
		ListingID:          listingID,
		ParticipantIDs:     [2]string{buyerID, sellerID},
		IsActive:           true,
		LastMessageAt:      now,
		LastMessagePreview: "Chat started",
		CreatedAt:          now,
	}
	opening := &entity.Message{
		SenderID:          buyerID,
		Body:              "Chat started for this listing",
		MessageType:       entity.MessageTypeSystem,
		SystemMessageType: entity.SystemMessageChatStarted,
		CreatedAt:         now,
	}

	if err := uc.chatRepo.Create(ctx, chat, opening); err != nil {
		if !stderrors.Is(err, repository.ErrActiveChatExists) {
			log.Printf("CreateOrGetChat Error: %v", err)
			return "", err
		}
		// Another instance won the race.
		existing, findErr := uc.chatRepo.FindActive(ctx, listingID, buyerID, sellerID)
		if findErr != nil {
			return "", findErr
		}
		if existing == nil {
			return "", errors.Internal("Failed to create chat", err)
		}
		return existing.ID, nil
	}

	return chat.ID, nil
}

// ContactSeller opens (or reopens) the chat between the caller and the
// listing's seller.
func (uc *ChatUseCase) ContactSeller(ctx context.Context, callerID, listingID string) (string, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return "", err
	}
	if listing.SellerID == callerID {
		return "", errors.BadRequest("You cannot contact yourself about your own listing", nil)
	}

	if uc.limiter != nil {
		if ok, wait := uc.limiter.Allow(callerID, ratelimit.ActionCreateChat); !ok {
			return "", errors.TooManyRequests("Too many new chats. Please wait before contacting another seller", wait)
		}
	}

	return uc.CreateOrGetChat(ctx, listing.ID, callerID, listing.SellerID)
}

// ContactBuyer lets a listing's seller open (or reopen) the chat with a buyer.
func (uc *ChatUseCase) ContactBuyer(ctx context.Context, callerID, listingID, buyerID string) (string, error) {
	listing, err := uc.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return "", err
	}
	if listing.SellerID != callerID {
		return "", errors.Forbidden("Only the seller can contact a buyer about this listing", nil)
	}
	if buyerID == callerID {
		return "", errors.BadRequest("You cannot contact yourself about your own listing", nil)
	}

	buyer, err := uc.userRepo.GetByID(ctx, buyerID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return "", errors.NotFound("Buyer", err)
		}
		return "", err
	}

	if uc.limiter != nil {
		if ok, wait := uc.limiter.Allow(callerID, ratelimit.ActionCreateChat); !ok {
			return "", errors.TooManyRequests("Too many new chats. Please wait before contacting another buyer", wait)
		}
	}

	return uc.CreateOrGetChat(ctx, listing.ID, buyer.ID, listing.SellerID)
}

func (uc *ChatUseCase) SendMessage(ctx context.Context, input SendMessageInput) (string, error) {
	if input.MessageType == "" {
		input.MessageType = entity.MessageTypeText
	}
	if !input.MessageType.UserSendable() {
		return "", errors.BadRequest("Invalid message type", nil)
	}

	chat, err := uc.chatRepo.GetByID(ctx, input.ChatID)
	if err != nil && !errors.Is(err, "NOT_FOUND") {
		return "", err
	}
	if chat == nil || !chat.IsParticipant(input.SenderID) {
		return "", errors.Forbidden("Unauthorized to send message in this chat", nil)
	}
	if !chat.IsActive {
		return "", errors.BadRequest("Cannot send message to inactive chat", nil)
	}
	if chat.IsBlocked {
		return "", errors.BadRequest("Cannot send message to blocked chat", nil)
	}

	if uc.limiter != nil {
		if ok, wait := uc.limiter.Allow(input.SenderID, ratelimit.ActionSendMessage); !ok {
			return "", errors.TooManyRequests("Rate limit exceeded. Please wait before sending another message", wait)
		}
	}

	msg := &entity.Message{
		ChatID:      chat.ID,
		SenderID:    input.SenderID,
		Body:        input.Body,
		MessageType: input.MessageType,
		ImageURL:    input.ImageURL,
		CreatedAt:   time.Now().UTC(),
	}

	preview := fmt.Sprintf("Sent %s", msg.MessageType)
	if msg.MessageType == entity.MessageTypeText {
		preview = entity.MessagePreview(msg.Body)
	}

	if err := uc.chatRepo.AppendMessage(ctx, msg, preview); err != nil {
		log.Printf("SendMessage Error: %v", err)
		return "", err
	}

	uc.notifyMessage(ctx, chat, msg)
	return msg.ID, nil
}

func (uc *ChatUseCase) notifyMessage(ctx context.Context, chat *entity.Chat, msg *entity.Message) {
	var senderName, itemName string

	if sender, err := uc.userRepo.GetByID(ctx, msg.SenderID); err == nil {
		senderName = sender.Name
	}
	if listing, err := uc.listingRepo.GetByID(ctx, chat.ListingID); err == nil {
		if item, err := uc.masterItemRepo.GetByID(ctx, listing.MasterItemID); err == nil {
			itemName = item.Name
		}
	}

	n := messageReceivedNotification(chat, msg, senderName, itemName)
	if err := uc.notifier.Dispatch(ctx, n); err != nil {
		log.Printf("Message notification Error: %v", err)
	}
}

// GetChatMessages returns the newest messages in chronological order.
func (uc *ChatUseCase) GetChatMessages(ctx context.Context, chatID, userID string) ([]*MessageView, error) {
	if _, err := uc.participantChat(ctx, chatID, userID, "Unauthorized to view this chat"); err != nil {
		return nil, err
	}

	messages, err := uc.chatRepo.ListRecentMessages(ctx, chatID, recentMessagesLimit)
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return uc.projector.ProjectMessages(ctx, messages), nil
}

func (uc *ChatUseCase) GetUserChats(ctx context.Context, userID string) ([]*ChatView, error) {
	chats, err := uc.chatRepo.ListActiveByParticipant(ctx, userID)
	if err != nil {
		return nil, err
	}
	return uc.projector.ProjectChats(ctx, userID, chats), nil
}

// GetChatByID returns nil when the chat is missing, its listing is gone, or
// the caller is not a participant.
func (uc *ChatUseCase) GetChatByID(ctx context.Context, chatID, userID string) (*ChatView, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, nil
		}
		return nil, err
	}
	if !chat.IsParticipant(userID) {
		return nil, nil
	}

	return uc.projector.ProjectChatDetail(ctx, userID, chat), nil
}

// MarkMessagesAsRead clears the caller's unread counter and marks the
// counterpart's messages read. It returns how many messages changed.
func (uc *ChatUseCase) MarkMessagesAsRead(ctx context.Context, chatID, userID string) (int, error) {
	chat, err := uc.participantChat(ctx, chatID, userID, "Unauthorized to mark messages as read")
	if err != nil {
		return 0, err
	}

	if err := uc.chatRepo.ResetUnread(ctx, chat.ID, userID); err != nil {
		return 0, err
	}
	return uc.chatRepo.MarkMessagesRead(ctx, chat.ID, userID, time.Now().UTC())
}

func (uc *ChatUseCase) ToggleChatBlock(ctx context.Context, chatID, userID string, isBlocked bool) error {
	chat, err := uc.participantChat(ctx, chatID, userID, "Unauthorized to modify this chat")
	if err != nil {
		return err
	}

	blockedBy := ""
	if isBlocked {
		blockedBy = userID
	}
	return uc.chatRepo.SetBlocked(ctx, chat.ID, isBlocked, blockedBy)
}

// participantChat loads the chat and rejects callers who are not in it. A
// missing chat is reported with the same message so existence is not leaked.
func (uc *ChatUseCase) participantChat(ctx context.Context, chatID, userID, deniedMsg string) (*entity.Chat, error) {
	chat, err := uc.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Forbidden(deniedMsg, nil)
		}
		return nil, err
	}
	if !chat.IsParticipant(userID) {
		return nil, errors.Forbidden(deniedMsg, nil)
	}
	return chat, nil
}
