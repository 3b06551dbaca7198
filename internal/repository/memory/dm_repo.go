package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
)

type DMRepo struct {
	mu    sync.RWMutex
	convs map[uuid.UUID]domain.DMConversation
	users *UserRepo
}

func NewDMRepo(users *UserRepo) *DMRepo {
	return &DMRepo{convs: make(map[uuid.UUID]domain.DMConversation), users: users}
}

func (r *DMRepo) CreateConversation(_ context.Context, conv *domain.DMConversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.convs[conv.ID] = *conv
	return nil
}

func (r *DMRepo) GetConversationByID(_ context.Context, id uuid.UUID) (*domain.DMConversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if conv, ok := r.convs[id]; ok {
		return &conv, nil
	}
	return nil, nil
}

func (r *DMRepo) GetConversationByUsers(_ context.Context, user1ID, user2ID uuid.UUID) (*domain.DMConversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, conv := range r.convs {
		if conv.User1ID == user1ID && conv.User2ID == user2ID {
			out := conv
			return &out, nil
		}
	}
	return nil, nil
}

func (r *DMRepo) ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]domain.DMConversation, error) {
	r.mu.RLock()
	var convs []domain.DMConversation
	for _, conv := range r.convs {
		if conv.HasParticipant(userID) {
			convs = append(convs, conv)
		}
	}
	r.mu.RUnlock()

	for i := range convs {
		otherID := convs[i].User1ID
		if otherID == userID {
			otherID = convs[i].User2ID
		}
		convs[i].OtherUserID = otherID
		if r.users != nil {
			if u, _ := r.users.GetByID(ctx, otherID); u != nil {
				convs[i].OtherUserUsername = u.Username
				convs[i].OtherUserDisplayName = u.DisplayName
			}
		}
	}
	return convs, nil
}
