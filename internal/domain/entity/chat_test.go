package entity

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChatUnreadSlots(t *testing.T) {
	c := &Chat{ParticipantIDs: [2]string{"buyer", "seller"}}

	c.IncrementUnreadFor("seller")
	c.IncrementUnreadFor("seller")
	c.IncrementUnreadFor("stranger")

	assert.Equal(t, 2, c.UnreadFor("seller"))
	assert.Equal(t, 0, c.UnreadFor("buyer"))
	assert.Equal(t, 0, c.UnreadFor("stranger"))

	c.ResetUnreadFor("seller")
	assert.Equal(t, 0, c.UnreadFor("seller"))
}

func TestChatOtherParticipant(t *testing.T) {
	c := &Chat{ParticipantIDs: [2]string{"buyer", "seller"}}

	assert.Equal(t, "seller", c.OtherParticipant("buyer"))
	assert.Equal(t, "buyer", c.OtherParticipant("seller"))
	assert.Equal(t, "", c.OtherParticipant("stranger"))
	assert.False(t, c.IsParticipant(""))
}

func TestChatKeyIgnoresParticipantOrder(t *testing.T) {
	assert.Equal(t, ChatKey("l1", "a", "b"), ChatKey("l1", "b", "a"))
	assert.NotEqual(t, ChatKey("l1", "a", "b"), ChatKey("l2", "a", "b"))

	c := &Chat{ListingID: "l1", ParticipantIDs: [2]string{"b", "a"}}
	assert.Equal(t, ChatKey("l1", "a", "b"), c.Key())
}

func TestMessagePreviewTruncatesByRune(t *testing.T) {
	long := strings.Repeat("é", 150)

	assert.Equal(t, 100, len([]rune(MessagePreview(long))))
	assert.Equal(t, "short", MessagePreview("short"))
}
