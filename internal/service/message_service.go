package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/repository"
	"golang.org/x/time/rate"
)

var (
	ErrMessageNotFound  = errors.New("message not found")
	ErrNotMessageSender = errors.New("only the message sender can perform this action")
	ErrRateLimited      = errors.New("sending messages too fast")
)

// Notifier broadcasts real-time events to connected clients.
type Notifier interface {
	NotifyNewMessage(msg *domain.Message)
	NotifyDeletedMessage(conv domain.ConversationRef, messageID uuid.UUID, reason *string)
	NotifyTyping(conv domain.ConversationRef, userID uuid.UUID, displayName string)
}

// ModerationQueue hands a freshly created message over to the asynchronous
// moderation pass. Enqueue must never block the send path.
type ModerationQueue interface {
	Enqueue(messageID uuid.UUID)
}

// Send rate per sender: a small burst, then one message per second.
const (
	sendRate  = rate.Limit(1)
	sendBurst = 5
)

type MessageService struct {
	messageRepo repository.MessageRepository
	guard       *Guard
	moderation  ModerationQueue
	notifier    Notifier

	mu       sync.Mutex
	limiters map[uuid.UUID]*rate.Limiter
}

func NewMessageService(messageRepo repository.MessageRepository, guard *Guard) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		guard:       guard,
		limiters:    make(map[uuid.UUID]*rate.Limiter),
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *MessageService) SetNotifier(n Notifier) {
	s.notifier = n
}

// SetModerationQueue sets the moderation hand-off (optional dependency;
// without it messages are never classified).
func (s *MessageService) SetModerationQueue(q ModerationQueue) {
	s.moderation = q
}

type SendMessageInput struct {
	Content      string  `json:"content" validate:"required,max=4000"`
	AttachmentID *string `json:"attachment_id,omitempty"`
}

// Send inserts the message and hands its id to the moderation queue without
// waiting on the verdict: the message may appear and then transition to
// removed shortly after.
func (s *MessageService) Send(ctx context.Context, actorID uuid.UUID, conv domain.ConversationRef, input SendMessageInput) (*domain.Message, error) {
	if err := s.guard.RequireConversationMember(ctx, actorID, conv); err != nil {
		return nil, err
	}
	if !s.limiter(actorID).Allow() {
		return nil, ErrRateLimited
	}

	senderID := actorID
	msg := &domain.Message{
		ID:           uuid.New(),
		Conversation: conv,
		SenderID:     &senderID,
		Content:      input.Content,
		AttachmentID: input.AttachmentID,
		CreatedAt:    time.Now(),
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("creating message: %w", err)
	}

	full, err := s.messageRepo.GetByID(ctx, msg.ID)
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(full)
	}
	if s.moderation != nil {
		s.moderation.Enqueue(msg.ID)
	}
	return full, nil
}

// List returns the conversation's messages in creation order, oldest first
// and newest last, each joined with the sender profile (nil once the sender
// account is gone).
func (s *MessageService) List(ctx context.Context, actorID uuid.UUID, conv domain.ConversationRef) ([]domain.Message, error) {
	if err := s.guard.RequireConversationMember(ctx, actorID, conv); err != nil {
		return nil, err
	}
	messages, err := s.messageRepo.ListByConversation(ctx, conv)
	if err != nil {
		return nil, err
	}
	if messages == nil {
		messages = []domain.Message{}
	}
	return messages, nil
}

// Remove is the author-initiated hard delete, the only deletion path besides
// moderation's soft delete.
func (s *MessageService) Remove(ctx context.Context, actorID, messageID uuid.UUID) error {
	msg, err := s.messageRepo.GetByID(ctx, messageID)
	if err != nil {
		return err
	}
	if msg == nil {
		return ErrMessageNotFound
	}
	if msg.SenderID == nil || *msg.SenderID != actorID {
		return ErrNotMessageSender
	}

	if err := s.messageRepo.Delete(ctx, messageID); err != nil {
		return err
	}
	if s.notifier != nil {
		s.notifier.NotifyDeletedMessage(msg.Conversation, messageID, nil)
	}
	return nil
}

func (s *MessageService) limiter(userID uuid.UUID) *rate.Limiter {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.limiters[userID]
	if !ok {
		l = rate.NewLimiter(sendRate, sendBurst)
		s.limiters[userID] = l
	}
	return l
}
