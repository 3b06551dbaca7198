package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/repository"
)

const defaultChannelName = "general"

type ServerService struct {
	serverRepo  repository.ServerRepository
	channelRepo repository.ChannelRepository
	guard       *Guard
}

func NewServerService(
	serverRepo repository.ServerRepository,
	channelRepo repository.ChannelRepository,
	guard *Guard,
) *ServerService {
	return &ServerService{
		serverRepo:  serverRepo,
		channelRepo: channelRepo,
		guard:       guard,
	}
}

type CreateServerInput struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

// Create provisions the server together with its default channel and the
// owner's membership. A server is never observable without a default channel.
func (s *ServerService) Create(ctx context.Context, ownerID uuid.UUID, input CreateServerInput) (*domain.Server, error) {
	now := time.Now()
	server := &domain.Server{
		ID:        uuid.New(),
		Name:      input.Name,
		OwnerID:   ownerID,
		CreatedAt: now,
	}

	channel := &domain.Channel{
		ID:        uuid.New(),
		ServerID:  server.ID,
		Name:      defaultChannelName,
		CreatedAt: now,
	}
	server.DefaultChannelID = channel.ID

	if err := s.serverRepo.Create(ctx, server); err != nil {
		return nil, fmt.Errorf("creating server: %w", err)
	}
	if err := s.channelRepo.Create(ctx, channel); err != nil {
		return nil, fmt.Errorf("creating default channel: %w", err)
	}

	member := &domain.ServerMember{
		ServerID: server.ID,
		UserID:   ownerID,
		JoinedAt: now,
	}
	if err := s.serverRepo.AddMember(ctx, member); err != nil {
		return nil, fmt.Errorf("adding owner as member: %w", err)
	}

	return server, nil
}

func (s *ServerService) Get(ctx context.Context, actorID, serverID uuid.UUID) (*domain.Server, error) {
	if err := s.guard.RequireServerMember(ctx, actorID, serverID); err != nil {
		return nil, err
	}
	server, err := s.serverRepo.GetByID(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if server == nil {
		return nil, ErrServerNotFound
	}
	return server, nil
}

func (s *ServerService) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Server, error) {
	servers, err := s.serverRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if servers == nil {
		servers = []domain.Server{}
	}
	return servers, nil
}

func (s *ServerService) ListMembers(ctx context.Context, actorID, serverID uuid.UUID) ([]domain.ServerMember, error) {
	if err := s.guard.RequireServerMember(ctx, actorID, serverID); err != nil {
		return nil, err
	}
	return s.serverRepo.ListMembers(ctx, serverID)
}
