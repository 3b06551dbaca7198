package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/repository"
)

var (
	ErrCannotDMSelf = errors.New("cannot start a conversation with yourself")
	ErrUserNotFound = errors.New("user not found")
)

type DMService struct {
	dmRepo   repository.DMRepository
	userRepo repository.UserRepository
}

func NewDMService(dmRepo repository.DMRepository, userRepo repository.UserRepository) *DMService {
	return &DMService{
		dmRepo:   dmRepo,
		userRepo: userRepo,
	}
}

// GetOrCreateConversation finds or creates the DM thread between two users.
func (s *DMService) GetOrCreateConversation(ctx context.Context, userID, otherUserID uuid.UUID) (*domain.DMConversation, error) {
	if userID == otherUserID {
		return nil, ErrCannotDMSelf
	}

	other, err := s.userRepo.GetByID(ctx, otherUserID)
	if err != nil {
		return nil, err
	}
	if other == nil {
		return nil, ErrUserNotFound
	}

	// Canonical participant order so (u1, u2) and (u2, u1) resolve to the
	// same thread.
	u1, u2 := userID, otherUserID
	if u1.String() > u2.String() {
		u1, u2 = u2, u1
	}

	conv, err := s.dmRepo.GetConversationByUsers(ctx, u1, u2)
	if err != nil {
		return nil, err
	}
	if conv == nil {
		conv = &domain.DMConversation{
			ID:        uuid.New(),
			User1ID:   u1,
			User2ID:   u2,
			CreatedAt: time.Now(),
		}
		if err := s.dmRepo.CreateConversation(ctx, conv); err != nil {
			return nil, fmt.Errorf("creating dm conversation: %w", err)
		}
	}

	conv.OtherUserID = otherUserID
	conv.OtherUserUsername = other.Username
	conv.OtherUserDisplayName = other.DisplayName
	return conv, nil
}

func (s *DMService) ListConversations(ctx context.Context, userID uuid.UUID) ([]domain.DMConversation, error) {
	convs, err := s.dmRepo.ListConversationsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if convs == nil {
		convs = []domain.DMConversation{}
	}
	return convs, nil
}
