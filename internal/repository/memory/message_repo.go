package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
)

type MessageRepo struct {
	mu       sync.RWMutex
	messages map[uuid.UUID]domain.Message
	seq      map[uuid.UUID]int // insertion order, ties on CreatedAt resolve by arrival
	nextSeq  int
	users    *UserRepo
}

// NewMessageRepo joins sender profiles from users on read, mirroring the
// LEFT JOIN in the postgres repo. users may be nil; senders then stay
// unresolved.
func NewMessageRepo(users *UserRepo) *MessageRepo {
	return &MessageRepo{
		messages: make(map[uuid.UUID]domain.Message),
		seq:      make(map[uuid.UUID]int),
		users:    users,
	}
}

func (r *MessageRepo) Create(_ context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages[msg.ID] = *msg
	r.seq[msg.ID] = r.nextSeq
	r.nextSeq++
	return nil
}

func (r *MessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	r.mu.RLock()
	msg, ok := r.messages[id]
	r.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	r.joinSender(ctx, &msg)
	return &msg, nil
}

func (r *MessageRepo) ListByConversation(ctx context.Context, conv domain.ConversationRef) ([]domain.Message, error) {
	r.mu.RLock()
	var messages []domain.Message
	for _, msg := range r.messages {
		if msg.Conversation == conv {
			messages = append(messages, msg)
		}
	}
	sort.Slice(messages, func(i, j int) bool {
		return r.seq[messages[i].ID] < r.seq[messages[j].ID]
	})
	r.mu.RUnlock()

	for i := range messages {
		r.joinSender(ctx, &messages[i])
	}
	return messages, nil
}

func (r *MessageRepo) MarkDeleted(_ context.Context, id uuid.UUID, reason *string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	msg, ok := r.messages[id]
	if !ok {
		return nil
	}
	msg.Deleted = true
	msg.DeletedReason = reason
	r.messages[id] = msg
	return nil
}

func (r *MessageRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.messages, id)
	delete(r.seq, id)
	return nil
}

func (r *MessageRepo) joinSender(ctx context.Context, msg *domain.Message) {
	if r.users == nil || msg.SenderID == nil {
		return
	}
	u, _ := r.users.GetByID(ctx, *msg.SenderID)
	if u == nil {
		return
	}
	msg.SenderUsername = &u.Username
	msg.SenderDisplayName = &u.DisplayName
}
