package entity

import "time"

type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeLocation MessageType = "location"
	MessageTypeSystem   MessageType = "system"
)

// UserSendable reports whether a user may author a message of this type.
func (t MessageType) UserSendable() bool {
	switch t {
	case MessageTypeText, MessageTypeImage, MessageTypeLocation:
		return true
	}
	return false
}

type SystemMessageType string

const (
	SystemMessageChatStarted    SystemMessageType = "chat_started"
	SystemMessageListingSold    SystemMessageType = "listing_sold"
	SystemMessageListingExpired SystemMessageType = "listing_expired"
)

type Message struct {
	ID                string            `json:"id" firestore:"id"`
	ChatID            string            `json:"chat_id" firestore:"chatId"`
	SenderID          string            `json:"sender_id" firestore:"senderId"`
	Body              string            `json:"body" firestore:"body"`
	MessageType       MessageType       `json:"message_type" firestore:"messageType"`
	ImageURL          string            `json:"image_url,omitempty" firestore:"imageUrl,omitempty"`
	IsRead            bool              `json:"is_read" firestore:"isRead"`
	ReadAt            *time.Time        `json:"read_at,omitempty" firestore:"readAt,omitempty"`
	IsDeleted         bool              `json:"is_deleted" firestore:"isDeleted"`
	SystemMessageType SystemMessageType `json:"system_message_type,omitempty" firestore:"systemMessageType,omitempty"`
	CreatedAt         time.Time         `json:"created_at" firestore:"createdAt"`
}
