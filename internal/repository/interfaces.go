package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
)

// Lookup methods return (nil, nil) when the entity does not exist; callers
// translate that into their own not-found errors.

// ErrConflict reports a unique-key violation. Both stores return it so
// services can map races on uniqueness checks to their own errors.
var ErrConflict = errors.New("unique constraint violation")

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type ServerRepository interface {
	Create(ctx context.Context, server *domain.Server) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Server, error)
	SetDefaultChannel(ctx context.Context, serverID, channelID uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Server, error)
	// AddMember is idempotent: adding an existing member is a no-op.
	AddMember(ctx context.Context, member *domain.ServerMember) error
	GetMember(ctx context.Context, serverID, userID uuid.UUID) (*domain.ServerMember, error)
	ListMembers(ctx context.Context, serverID uuid.UUID) ([]domain.ServerMember, error)
}

type ChannelRepository interface {
	// Create enforces the (server, name) unique key and returns ErrConflict
	// when another channel already holds it.
	Create(ctx context.Context, channel *domain.Channel) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Channel, error)
	GetByServerAndName(ctx context.Context, serverID uuid.UUID, name string) (*domain.Channel, error)
	ListByServer(ctx context.Context, serverID uuid.UUID) ([]domain.Channel, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type InviteRepository interface {
	Create(ctx context.Context, invite *domain.Invite) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Invite, error)
	ListByServer(ctx context.Context, serverID uuid.UUID) ([]domain.Invite, error)
	// ConsumeUse atomically increments the use counter, guarded against the
	// use limit. It reports false when the invite was already exhausted;
	// concurrent callers never push Uses past MaxUses.
	ConsumeUse(ctx context.Context, id uuid.UUID) (bool, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	// ListByConversation returns messages in ascending creation order.
	ListByConversation(ctx context.Context, conv domain.ConversationRef) ([]domain.Message, error)
	// MarkDeleted is the moderation soft delete: the row survives with
	// deleted = true and the given reason.
	MarkDeleted(ctx context.Context, id uuid.UUID, reason *string) error
	// Delete is the author-initiated hard delete.
	Delete(ctx context.Context, id uuid.UUID) error
}

type DMRepository interface {
	CreateConversation(ctx context.Context, conv *domain.DMConversation) error
	GetConversationByID(ctx context.Context, id uuid.UUID) (*domain.DMConversation, error)
	GetConversationByUsers(ctx context.Context, user1ID, user2ID uuid.UUID) (*domain.DMConversation, error)
	ListConversationsByUser(ctx context.Context, userID uuid.UUID) ([]domain.DMConversation, error)
}

type TypingRepository interface {
	// Upsert atomically inserts the indicator or, when a row for the same
	// (user, conversation) key already exists, patches its expiry forward.
	// It reports whether a row existed. The indicator's ID is rewritten to
	// the surviving row's ID so at most one live row exists per key even
	// under concurrent upserts.
	Upsert(ctx context.Context, indicator *domain.TypingIndicator) (bool, error)
	GetByUserAndConversation(ctx context.Context, userID uuid.UUID, conv domain.ConversationRef) (*domain.TypingIndicator, error)
	ListByConversation(ctx context.Context, conv domain.ConversationRef) ([]domain.TypingIndicator, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
