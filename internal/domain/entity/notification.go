package entity

import "time"

type NotificationType string

const (
	NotificationListingCreated  NotificationType = "listing_created"
	NotificationListingSold     NotificationType = "listing_sold"
	NotificationListingExpired  NotificationType = "listing_expired"
	NotificationOrderPlaced     NotificationType = "order_placed"
	NotificationOrderAccepted   NotificationType = "order_accepted"
	NotificationOrderRejected   NotificationType = "order_rejected"
	NotificationOrderCompleted  NotificationType = "order_completed"
	NotificationContactRequest  NotificationType = "contact_request"
	NotificationMessageReceived NotificationType = "message_received"
	NotificationReviewReceived  NotificationType = "review_received"
	NotificationProfileUpdated  NotificationType = "profile_updated"
	NotificationSystem          NotificationType = "system"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationListingCreated, NotificationListingSold, NotificationListingExpired,
		NotificationOrderPlaced, NotificationOrderAccepted, NotificationOrderRejected,
		NotificationOrderCompleted, NotificationContactRequest, NotificationMessageReceived,
		NotificationReviewReceived, NotificationProfileUpdated, NotificationSystem:
		return true
	}
	return false
}

type NotificationCategory string

const (
	CategoryOrders   NotificationCategory = "orders"
	CategoryListings NotificationCategory = "listings"
	CategoryMessages NotificationCategory = "messages"
	CategoryReviews  NotificationCategory = "reviews"
	CategorySystem   NotificationCategory = "system"
)

// Valid accepts the empty category, which is optional.
func (c NotificationCategory) Valid() bool {
	switch c {
	case "", CategoryOrders, CategoryListings, CategoryMessages, CategoryReviews, CategorySystem:
		return true
	}
	return false
}

type NotificationPriority string

const (
	PriorityLow    NotificationPriority = "low"
	PriorityMedium NotificationPriority = "medium"
	PriorityHigh   NotificationPriority = "high"
	PriorityUrgent NotificationPriority = "urgent"
)

func (p NotificationPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type RelatedType string

const (
	RelatedListing RelatedType = "listing"
	RelatedOrder   RelatedType = "order"
	RelatedChat    RelatedType = "chat"
	RelatedReview  RelatedType = "review"
	RelatedUser    RelatedType = "user"
)

// Valid accepts the empty related type, which is optional.
func (r RelatedType) Valid() bool {
	switch r {
	case "", RelatedListing, RelatedOrder, RelatedChat, RelatedReview, RelatedUser:
		return true
	}
	return false
}

// Notification is an in-app message to one user. Only the recipient may
// mark it read or delete it.
type Notification struct {
	ID          string                 `json:"id" firestore:"id"`
	UserID      string                 `json:"user_id" firestore:"userId"`
	Type        NotificationType       `json:"type" firestore:"type"`
	Title       string                 `json:"title" firestore:"title"`
	Message     string                 `json:"message" firestore:"message"`
	Category    NotificationCategory   `json:"category,omitempty" firestore:"category,omitempty"`
	RelatedID   string                 `json:"related_id,omitempty" firestore:"relatedId,omitempty"`
	RelatedType RelatedType            `json:"related_type,omitempty" firestore:"relatedType,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" firestore:"metadata,omitempty"`
	ActionURL   string                 `json:"action_url,omitempty" firestore:"actionUrl,omitempty"`
	IsRead      bool                   `json:"is_read" firestore:"isRead"`
	ReadAt      *time.Time             `json:"read_at,omitempty" firestore:"readAt,omitempty"`
	Priority    NotificationPriority   `json:"priority" firestore:"priority"`
	SenderID    string                 `json:"sender_id,omitempty" firestore:"senderId,omitempty"`
	CreatedAt   time.Time              `json:"created_at" firestore:"createdAt"`
}
