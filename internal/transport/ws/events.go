package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
)

// Event types - Client → Server
const (
	EventTypeTypingStart = "typing.start"
	EventTypeSubscribe   = "conversation.subscribe"
	EventTypeUnsubscribe = "conversation.unsubscribe"
	EventTypePing        = "ping"
)

// Event types - Server → Client
const (
	EventTypeMessageNew     = "message.new"
	EventTypeMessageDeleted = "message.deleted"
	EventTypeTyping         = "typing"
	EventTypePong           = "pong"
	EventTypeError          = "error"
)

// Event is the base envelope for all WebSocket messages.
type Event struct {
	Type         string                  `json:"type"`
	Conversation *domain.ConversationRef `json:"conversation,omitempty"`
	Payload      json.RawMessage         `json:"payload,omitempty"`
	Timestamp    int64                   `json:"ts,omitempty"`
}

// --- Server → Client payloads ---

type MessagePayload struct {
	domain.Message
}

// MessageDeletedPayload covers both deletion paths: Reason is set for
// moderation removals and nil for author deletes.
type MessageDeletedPayload struct {
	ID     uuid.UUID `json:"id"`
	Reason *string   `json:"reason,omitempty"`
}

type TypingPayload struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewEvent creates a server→client event with the current timestamp.
func NewEvent(eventType string, conv *domain.ConversationRef, payload any) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		Type:         eventType,
		Conversation: conv,
		Payload:      data,
		Timestamp:    time.Now().Unix(),
	}, nil
}
