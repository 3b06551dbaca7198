package domain

import (
	"time"

	"github.com/google/uuid"
)

// Message lives in a channel or a direct-message thread.
//
// Two distinct deletion paths exist and stay distinguishable in persisted
// state: the sender hard-deletes the row, moderation soft-deletes by setting
// Deleted and DeletedReason while keeping the row.
type Message struct {
	ID           uuid.UUID       `json:"id"`
	Conversation ConversationRef `json:"conversation"`
	// SenderID is nil once the sender account is gone; the message itself
	// survives sender deletion.
	SenderID      *uuid.UUID `json:"sender_id,omitempty"`
	Content       string     `json:"content"`
	AttachmentID  *string    `json:"attachment_id,omitempty"` // opaque blob storage ref
	Deleted       bool       `json:"deleted"`
	DeletedReason *string    `json:"deleted_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	// Joined fields
	SenderUsername    *string `json:"sender_username,omitempty"`
	SenderDisplayName *string `json:"sender_display_name,omitempty"`
}
