package ws

import (
	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
	"go.uber.org/zap"
)

// HubNotifier implements service.Notifier using the WebSocket Hub. The
// moderation worker uses its NotifyDeletedMessage subset.
type HubNotifier struct {
	hub *Hub
	log *zap.SugaredLogger
}

func NewHubNotifier(hub *Hub, log *zap.SugaredLogger) *HubNotifier {
	return &HubNotifier{hub: hub, log: log}
}

func (n *HubNotifier) NotifyNewMessage(msg *domain.Message) {
	evt, err := NewEvent(EventTypeMessageNew, &msg.Conversation, MessagePayload{Message: *msg})
	if err != nil {
		n.log.Warnw("ws notifier: marshal error", "error", err)
		return
	}
	n.hub.BroadcastToConversation(msg.Conversation, evt, nil)
}

func (n *HubNotifier) NotifyDeletedMessage(conv domain.ConversationRef, messageID uuid.UUID, reason *string) {
	evt, err := NewEvent(EventTypeMessageDeleted, &conv, MessageDeletedPayload{ID: messageID, Reason: reason})
	if err != nil {
		n.log.Warnw("ws notifier: marshal error", "error", err)
		return
	}
	n.hub.BroadcastToConversation(conv, evt, nil)
}

func (n *HubNotifier) NotifyTyping(conv domain.ConversationRef, userID uuid.UUID, displayName string) {
	evt, err := NewEvent(EventTypeTyping, &conv, TypingPayload{UserID: userID, DisplayName: displayName})
	if err != nil {
		n.log.Warnw("ws notifier: marshal error", "error", err)
		return
	}
	// The typist already knows they are typing.
	n.hub.BroadcastToConversation(conv, evt, &userID)
}
