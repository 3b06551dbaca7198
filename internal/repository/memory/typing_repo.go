package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/vedran77/haven/internal/domain"
)

type TypingRepo struct {
	mu         sync.RWMutex
	indicators map[uuid.UUID]domain.TypingIndicator
}

func NewTypingRepo() *TypingRepo {
	return &TypingRepo{indicators: make(map[uuid.UUID]domain.TypingIndicator)}
}

// Upsert inserts or refreshes under one lock so concurrent calls for the
// same (user, conversation) key collapse onto a single row.
func (r *TypingRepo) Upsert(_ context.Context, ind *domain.TypingIndicator) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.indicators {
		if existing.UserID == ind.UserID && existing.Conversation == ind.Conversation {
			existing.ExpireAt = ind.ExpireAt
			r.indicators[id] = existing
			ind.ID = id
			return true, nil
		}
	}
	r.indicators[ind.ID] = *ind
	return false, nil
}

func (r *TypingRepo) GetByUserAndConversation(_ context.Context, userID uuid.UUID, conv domain.ConversationRef) (*domain.TypingIndicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, ind := range r.indicators {
		if ind.UserID == userID && ind.Conversation == conv {
			out := ind
			return &out, nil
		}
	}
	return nil, nil
}

func (r *TypingRepo) ListByConversation(_ context.Context, conv domain.ConversationRef) ([]domain.TypingIndicator, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	indicators := lo.Filter(lo.Values(r.indicators), func(ind domain.TypingIndicator, _ int) bool {
		return ind.Conversation == conv
	})
	return indicators, nil
}

func (r *TypingRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.indicators, id)
	return nil
}
