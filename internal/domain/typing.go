package domain

import (
	"time"

	"github.com/google/uuid"
)

// TypingIndicator signals a user is composing a message in a conversation.
// At most one live indicator exists per (user, conversation); refreshes move
// ExpireAt forward instead of inserting a second row.
type TypingIndicator struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Conversation ConversationRef `json:"conversation"`
	ExpireAt     time.Time       `json:"expire_at"`
}
