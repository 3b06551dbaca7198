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
	ErrInviteNotFound  = errors.New("invite not found")
	ErrInviteExpired   = errors.New("invite has expired")
	ErrInviteExhausted = errors.New("invite has no uses left")
)

type InviteService struct {
	inviteRepo repository.InviteRepository
	serverRepo repository.ServerRepository
	guard      *Guard
}

func NewInviteService(
	inviteRepo repository.InviteRepository,
	serverRepo repository.ServerRepository,
	guard *Guard,
) *InviteService {
	return &InviteService{
		inviteRepo: inviteRepo,
		serverRepo: serverRepo,
		guard:      guard,
	}
}

type CreateInviteInput struct {
	MaxUses   int        `json:"max_uses" validate:"min=0"` // 0 = unlimited
	ExpiresAt *time.Time `json:"expires_at"`                // nil = never
}

// Create mints a new invite for the server. Multiple concurrent invites per
// server are allowed.
func (s *InviteService) Create(ctx context.Context, actorID, serverID uuid.UUID, input CreateInviteInput) (*domain.Invite, error) {
	if err := s.guard.RequireServerOwner(ctx, actorID, serverID); err != nil {
		return nil, err
	}

	invite := &domain.Invite{
		ID:        uuid.New(),
		ServerID:  serverID,
		CreatedBy: actorID,
		MaxUses:   input.MaxUses,
		Uses:      0,
		ExpiresAt: input.ExpiresAt,
		CreatedAt: time.Now(),
	}
	if err := s.inviteRepo.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("creating invite: %w", err)
	}
	return invite, nil
}

func (s *InviteService) List(ctx context.Context, actorID, serverID uuid.UUID) ([]domain.Invite, error) {
	if err := s.guard.RequireServerOwner(ctx, actorID, serverID); err != nil {
		return nil, err
	}
	invites, err := s.inviteRepo.ListByServer(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if invites == nil {
		invites = []domain.Invite{}
	}
	return invites, nil
}

// Redeem grants the actor membership on the invite's server and returns the
// server id. The exhaustion check and the use-counter increment happen
// atomically in the store, so concurrent redemptions never push the counter
// past the limit. Redeeming while already a member only burns a use.
func (s *InviteService) Redeem(ctx context.Context, actorID, inviteID uuid.UUID) (uuid.UUID, error) {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		return uuid.Nil, err
	}
	if invite == nil {
		return uuid.Nil, ErrInviteNotFound
	}
	if invite.ExpiresAt != nil && !time.Now().Before(*invite.ExpiresAt) {
		return uuid.Nil, ErrInviteExpired
	}

	consumed, err := s.inviteRepo.ConsumeUse(ctx, inviteID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("consuming invite use: %w", err)
	}
	if !consumed {
		return uuid.Nil, ErrInviteExhausted
	}

	member := &domain.ServerMember{
		ServerID: invite.ServerID,
		UserID:   actorID,
		JoinedAt: time.Now(),
	}
	if err := s.serverRepo.AddMember(ctx, member); err != nil {
		return uuid.Nil, fmt.Errorf("granting membership: %w", err)
	}
	return invite.ServerID, nil
}
