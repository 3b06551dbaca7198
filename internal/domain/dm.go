package domain

import (
	"time"

	"github.com/google/uuid"
)

// DMConversation is a two-participant thread independent of any server.
// User1ID < User2ID (canonical order).
type DMConversation struct {
	ID        uuid.UUID `json:"id"`
	User1ID   uuid.UUID `json:"user1_id"`
	User2ID   uuid.UUID `json:"user2_id"`
	CreatedAt time.Time `json:"created_at"`
	// Joined fields for the conversation list
	OtherUserID          uuid.UUID `json:"other_user_id,omitempty"`
	OtherUserUsername    string    `json:"other_username,omitempty"`
	OtherUserDisplayName string    `json:"other_display_name,omitempty"`
}

// HasParticipant reports whether userID is one of the two participants.
func (c *DMConversation) HasParticipant(userID uuid.UUID) bool {
	return c.User1ID == userID || c.User2ID == userID
}
