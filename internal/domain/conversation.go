package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// ConversationKind tags which id space a conversation id belongs to.
type ConversationKind string

const (
	ConversationChannel ConversationKind = "channel"
	ConversationDM      ConversationKind = "dm"
)

// ConversationRef identifies a channel or a direct-message thread.
// Callers branch on Kind instead of sniffing id spaces.
type ConversationRef struct {
	Kind ConversationKind `json:"kind"`
	ID   uuid.UUID        `json:"id"`
}

func ChannelConversation(id uuid.UUID) ConversationRef {
	return ConversationRef{Kind: ConversationChannel, ID: id}
}

func DMConversationRef(id uuid.UUID) ConversationRef {
	return ConversationRef{Kind: ConversationDM, ID: id}
}

func ParseConversationKind(s string) (ConversationKind, error) {
	switch ConversationKind(s) {
	case ConversationChannel:
		return ConversationChannel, nil
	case ConversationDM:
		return ConversationDM, nil
	}
	return "", fmt.Errorf("unknown conversation kind %q", s)
}

func (r ConversationRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}
