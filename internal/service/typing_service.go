package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/repository"
)

// typingTTL is how long an indicator stays alive without a refresh.
const typingTTL = 5 * time.Second

// Scheduler runs fn once at or after t. There is no cancellation: stale
// callbacks are neutralized by the compare-before-delete check in Expire.
type Scheduler interface {
	RunAt(t time.Time, fn func(ctx context.Context))
}

type TypingService struct {
	typingRepo repository.TypingRepository
	userRepo   repository.UserRepository
	guard      *Guard
	sched      Scheduler
	notifier   Notifier

	now func() time.Time
}

func NewTypingService(
	typingRepo repository.TypingRepository,
	userRepo repository.UserRepository,
	guard *Guard,
	sched Scheduler,
) *TypingService {
	return &TypingService{
		typingRepo: typingRepo,
		userRepo:   userRepo,
		guard:      guard,
		sched:      sched,
		now:        time.Now,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *TypingService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Upsert records keystroke activity. A live indicator gets its expiry pushed
// forward, a fresh one is inserted; the repository does both under one
// atomic operation keyed on (user, conversation), so concurrent upserts
// collapse onto a single row. Either way a new expiry callback is scheduled
// for this upsert's own deadline. Earlier callbacks are never cancelled,
// they fire and fail the compare-before-delete check in Expire.
func (s *TypingService) Upsert(ctx context.Context, actorID uuid.UUID, conv domain.ConversationRef) (uuid.UUID, error) {
	if err := s.guard.RequireConversationMember(ctx, actorID, conv); err != nil {
		return uuid.Nil, err
	}

	expireAt := s.now().Add(typingTTL)
	indicator := &domain.TypingIndicator{
		ID:           uuid.New(),
		UserID:       actorID,
		Conversation: conv,
		ExpireAt:     expireAt,
	}
	existed, err := s.typingRepo.Upsert(ctx, indicator)
	if err != nil {
		return uuid.Nil, err
	}

	s.sched.RunAt(expireAt, func(ctx context.Context) {
		s.Expire(ctx, conv, actorID, expireAt)
	})

	if !existed && s.notifier != nil {
		if u, err := s.userRepo.GetByID(ctx, actorID); err == nil && u != nil {
			s.notifier.NotifyTyping(conv, actorID, u.DisplayName)
		}
	}
	return indicator.ID, nil
}

// Expire is the scheduled cleanup callback. It deletes the indicator only
// when it still exists and still carries the expiry this callback was
// scheduled for; a newer upsert moves the expiry and turns stale callbacks
// into no-ops. Races here are expected, not errors.
func (s *TypingService) Expire(ctx context.Context, conv domain.ConversationRef, userID uuid.UUID, expireAt time.Time) {
	existing, err := s.typingRepo.GetByUserAndConversation(ctx, userID, conv)
	if err != nil || existing == nil {
		return
	}
	if !existing.ExpireAt.Equal(expireAt) {
		return
	}
	_ = s.typingRepo.Delete(ctx, existing.ID)
}

// List returns the display names of the other users currently typing in the
// conversation. Indicators whose expiry callback has not fired yet are still
// reported; readers accept a staleness window bounded by the TTL instead of
// re-checking the clock.
func (s *TypingService) List(ctx context.Context, actorID uuid.UUID, conv domain.ConversationRef) ([]string, error) {
	if err := s.guard.RequireConversationMember(ctx, actorID, conv); err != nil {
		return nil, err
	}

	indicators, err := s.typingRepo.ListByConversation(ctx, conv)
	if err != nil {
		return nil, err
	}

	names := []string{}
	for _, ind := range indicators {
		if ind.UserID == actorID {
			continue
		}
		u, err := s.userRepo.GetByID(ctx, ind.UserID)
		if err != nil {
			return nil, err
		}
		if u == nil {
			// Dangling indicator of a deleted account.
			continue
		}
		names = append(names, u.DisplayName)
	}
	return names, nil
}
