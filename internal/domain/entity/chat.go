package entity

import (
	"sort"
	"strings"
	"time"
)

// Chat is a conversation between exactly two users about one listing.
// ParticipantIDs is [buyer, seller]; UnreadCounts is aligned with it.
type Chat struct {
	ID                 string    `json:"id" firestore:"id"`
	ListingID          string    `json:"listing_id" firestore:"listingId"`
	ParticipantIDs     [2]string `json:"participant_ids" firestore:"participantIds"`
	IsActive           bool      `json:"is_active" firestore:"isActive"`
	IsBlocked          bool      `json:"is_blocked" firestore:"isBlocked"`
	BlockedBy          string    `json:"blocked_by,omitempty" firestore:"blockedBy,omitempty"`
	LastMessageAt      time.Time `json:"last_message_at" firestore:"lastMessageAt"`
	LastMessagePreview string    `json:"last_message_preview,omitempty" firestore:"lastMessagePreview,omitempty"`
	UnreadCounts       [2]int    `json:"unread_counts" firestore:"unreadCounts"`
	CreatedAt          time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt          time.Time `json:"updated_at" firestore:"updatedAt"`
}

// Slot returns the participant index of userID, or -1.
func (c *Chat) Slot(userID string) int {
	if userID == "" {
		return -1
	}
	for i, id := range c.ParticipantIDs {
		if id == userID {
			return i
		}
	}
	return -1
}

func (c *Chat) IsParticipant(userID string) bool {
	return c.Slot(userID) >= 0
}

func (c *Chat) OtherParticipant(userID string) string {
	switch c.Slot(userID) {
	case 0:
		return c.ParticipantIDs[1]
	case 1:
		return c.ParticipantIDs[0]
	}
	return ""
}

func (c *Chat) UnreadFor(userID string) int {
	if slot := c.Slot(userID); slot >= 0 {
		return c.UnreadCounts[slot]
	}
	return 0
}

// IncrementUnreadFor bumps the counter of userID. Unknown users are ignored.
func (c *Chat) IncrementUnreadFor(userID string) {
	if slot := c.Slot(userID); slot >= 0 {
		c.UnreadCounts[slot]++
	}
}

func (c *Chat) ResetUnreadFor(userID string) {
	if slot := c.Slot(userID); slot >= 0 {
		c.UnreadCounts[slot] = 0
	}
}

// Key identifies the conversation regardless of participant order.
func (c *Chat) Key() string {
	return ChatKey(c.ListingID, c.ParticipantIDs[0], c.ParticipantIDs[1])
}

// ChatKey builds the uniqueness key for an active chat over a listing.
func ChatKey(listingID, userA, userB string) string {
	pair := []string{userA, userB}
	sort.Strings(pair)
	return strings.Join([]string{listingID, pair[0], pair[1]}, "_")
}

// MessagePreview truncates a message body to the preview length shown in chat lists.
func MessagePreview(body string) string {
	return truncateRunes(body, 100)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
