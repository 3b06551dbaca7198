package ws

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
	"go.uber.org/zap"
)

// Presence is the slice of the typing service the hub feeds keystroke
// activity into.
type Presence interface {
	Upsert(ctx context.Context, actorID uuid.UUID, conv domain.ConversationRef) (uuid.UUID, error)
}

// MembershipChecker gates conversation subscriptions; the service guard
// satisfies it.
type MembershipChecker interface {
	RequireConversationMember(ctx context.Context, actorID uuid.UUID, conv domain.ConversationRef) error
}

// Hub manages all active WebSocket clients and routes events.
type Hub struct {
	// clients maps userID → client.
	clients map[uuid.UUID]*Client

	register   chan *Client
	unregister chan *Client
	broadcast  chan *broadcastMsg

	presence    Presence
	memberships MembershipChecker
	log         *zap.SugaredLogger
}

type broadcastMsg struct {
	conv      domain.ConversationRef
	data      []byte
	excludeID *uuid.UUID // optional: skip this user (e.g. the typist)
}

func NewHub(presence Presence, memberships MembershipChecker, log *zap.SugaredLogger) *Hub {
	return &Hub{
		clients:     make(map[uuid.UUID]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *broadcastMsg, 256),
		presence:    presence,
		memberships: memberships,
		log:         log,
	}
}

// Run is the Hub's main event loop; it returns when ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			for _, client := range h.clients {
				h.drop(client)
			}
			return ctx.Err()

		case client := <-h.register:
			h.clients[client.userID] = client
			h.log.Debugw("ws: user connected", "user_id", client.userID, "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client.userID]; ok {
				h.drop(client)
				h.log.Debugw("ws: user disconnected", "user_id", client.userID, "total", len(h.clients))
			}

		case msg := <-h.broadcast:
			for _, client := range h.clients {
				if msg.excludeID != nil && client.userID == *msg.excludeID {
					continue
				}
				if !client.IsSubscribed(msg.conv) {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Client buffer full - disconnect
					h.drop(client)
				}
			}
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client.userID)
	close(client.send)
	close(client.done)
}

// BroadcastToConversation sends an event to all subscribers of a conversation.
func (h *Hub) BroadcastToConversation(conv domain.ConversationRef, event *Event, excludeUserID *uuid.UUID) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Warnw("ws: marshal error", "error", err)
		return
	}
	h.broadcast <- &broadcastMsg{
		conv:      conv,
		data:      data,
		excludeID: excludeUserID,
	}
}

// canSubscribe reports whether the user may receive events for the
// conversation. Subscriptions leak message traffic, so they get the same
// membership gate as reads.
func (h *Hub) canSubscribe(ctx context.Context, userID uuid.UUID, conv domain.ConversationRef) bool {
	if h.memberships == nil {
		return true
	}
	return h.memberships.RequireConversationMember(ctx, userID, conv) == nil
}

// handleTyping records keystroke activity with the presence tracker. The
// tracker re-checks conversation membership and broadcasts via the notifier,
// so nothing is rebroadcast here.
func (h *Hub) handleTyping(ctx context.Context, sender *Client, event *Event) {
	if h.presence == nil || event.Conversation == nil {
		return
	}
	if _, err := h.presence.Upsert(ctx, sender.userID, *event.Conversation); err != nil {
		h.log.Debugw("ws: typing upsert rejected", "user_id", sender.userID, "error", err)
	}
}
