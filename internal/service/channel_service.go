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
	ErrChannelNameTaken = errors.New("channel name already exists in this server")
	ErrDefaultChannel   = errors.New("cannot remove the default channel")
)

type ChannelService struct {
	channelRepo repository.ChannelRepository
	serverRepo  repository.ServerRepository
	guard       *Guard
}

func NewChannelService(
	channelRepo repository.ChannelRepository,
	serverRepo repository.ServerRepository,
	guard *Guard,
) *ChannelService {
	return &ChannelService{
		channelRepo: channelRepo,
		serverRepo:  serverRepo,
		guard:       guard,
	}
}

type CreateChannelInput struct {
	Name string `json:"name" validate:"required,min=2,max=100"`
}

func (s *ChannelService) List(ctx context.Context, actorID, serverID uuid.UUID) ([]domain.Channel, error) {
	if err := s.guard.RequireServerMember(ctx, actorID, serverID); err != nil {
		return nil, err
	}
	channels, err := s.channelRepo.ListByServer(ctx, serverID)
	if err != nil {
		return nil, err
	}
	if channels == nil {
		channels = []domain.Channel{}
	}
	return channels, nil
}

func (s *ChannelService) Get(ctx context.Context, actorID, channelID uuid.UUID) (*domain.Channel, error) {
	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return nil, err
	}
	if channel == nil {
		return nil, ErrChannelNotFound
	}
	if err := s.guard.RequireServerMember(ctx, actorID, channel.ServerID); err != nil {
		return nil, err
	}
	return channel, nil
}

// Create inserts a channel; (serverID, name) is unique, case-sensitive.
func (s *ChannelService) Create(ctx context.Context, actorID, serverID uuid.UUID, input CreateChannelInput) (*domain.Channel, error) {
	if err := s.guard.RequireServerOwner(ctx, actorID, serverID); err != nil {
		return nil, err
	}

	existing, err := s.channelRepo.GetByServerAndName(ctx, serverID, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrChannelNameTaken
	}

	channel := &domain.Channel{
		ID:        uuid.New(),
		ServerID:  serverID,
		Name:      input.Name,
		CreatedAt: time.Now(),
	}
	if err := s.channelRepo.Create(ctx, channel); err != nil {
		// A concurrent create can win the name between the check above and
		// the insert; the store-level unique key catches it.
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrChannelNameTaken
		}
		return nil, fmt.Errorf("creating channel: %w", err)
	}
	return channel, nil
}

// Remove deletes a channel. Ownership is re-derived from the channel's own
// server id, a caller-supplied server id is never trusted. The server's
// current default channel cannot be removed.
func (s *ChannelService) Remove(ctx context.Context, actorID, channelID uuid.UUID) error {
	channel, err := s.channelRepo.GetByID(ctx, channelID)
	if err != nil {
		return err
	}
	if channel == nil {
		return ErrChannelNotFound
	}

	server, err := s.serverRepo.GetByID(ctx, channel.ServerID)
	if err != nil {
		return err
	}
	if server == nil {
		return ErrServerNotFound
	}
	if server.OwnerID != actorID {
		return ErrNotServerOwner
	}
	if channel.ID == server.DefaultChannelID {
		return ErrDefaultChannel
	}

	// No cascade: messages and typing indicators of the channel stay behind
	// as tolerated orphans.
	return s.channelRepo.Delete(ctx, channelID)
}
