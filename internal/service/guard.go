package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/repository"
)

var (
	ErrServerNotFound        = errors.New("server not found")
	ErrChannelNotFound       = errors.New("channel not found")
	ErrConversationNotFound  = errors.New("conversation not found")
	ErrNotServerMember       = errors.New("user is not a member of this server")
	ErrNotServerOwner        = errors.New("only the server owner can perform this action")
	ErrNotConversationMember = errors.New("user is not a member of this conversation")
)

// Guard resolves the caller's membership and ownership relative to servers,
// channels and direct-message threads. Every other service routes its
// authorization checks through here; all checks are read-only and report
// not-found before forbidden.
type Guard struct {
	serverRepo  repository.ServerRepository
	channelRepo repository.ChannelRepository
	dmRepo      repository.DMRepository
}

func NewGuard(
	serverRepo repository.ServerRepository,
	channelRepo repository.ChannelRepository,
	dmRepo repository.DMRepository,
) *Guard {
	return &Guard{
		serverRepo:  serverRepo,
		channelRepo: channelRepo,
		dmRepo:      dmRepo,
	}
}

// RequireServerMember passes for the owner or any user holding a membership.
func (g *Guard) RequireServerMember(ctx context.Context, actorID, serverID uuid.UUID) error {
	server, err := g.serverRepo.GetByID(ctx, serverID)
	if err != nil {
		return err
	}
	if server == nil {
		return ErrServerNotFound
	}
	if server.OwnerID == actorID {
		return nil
	}

	member, err := g.serverRepo.GetMember(ctx, serverID, actorID)
	if err != nil {
		return err
	}
	if member == nil {
		return ErrNotServerMember
	}
	return nil
}

// RequireServerOwner passes only for the server's owner.
func (g *Guard) RequireServerOwner(ctx context.Context, actorID, serverID uuid.UUID) error {
	server, err := g.serverRepo.GetByID(ctx, serverID)
	if err != nil {
		return err
	}
	if server == nil {
		return ErrServerNotFound
	}
	if server.OwnerID != actorID {
		return ErrNotServerOwner
	}
	return nil
}

// RequireConversationMember branches on the conversation tag: channel ids
// delegate to server membership, dm ids require the actor to be one of the
// two participants.
func (g *Guard) RequireConversationMember(ctx context.Context, actorID uuid.UUID, conv domain.ConversationRef) error {
	switch conv.Kind {
	case domain.ConversationChannel:
		channel, err := g.channelRepo.GetByID(ctx, conv.ID)
		if err != nil {
			return err
		}
		if channel == nil {
			return ErrChannelNotFound
		}
		if err := g.RequireServerMember(ctx, actorID, channel.ServerID); err != nil {
			if errors.Is(err, ErrNotServerMember) {
				return ErrNotConversationMember
			}
			return err
		}
		return nil

	case domain.ConversationDM:
		dm, err := g.dmRepo.GetConversationByID(ctx, conv.ID)
		if err != nil {
			return err
		}
		if dm == nil {
			return ErrConversationNotFound
		}
		if !dm.HasParticipant(actorID) {
			return ErrNotConversationMember
		}
		return nil
	}
	return ErrConversationNotFound
}
