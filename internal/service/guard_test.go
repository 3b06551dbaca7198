package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/haven/internal/domain"
)

func TestGuardServerMembership(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	member := e.addUser(t, "member")
	stranger := e.addUser(t, "stranger")

	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	_, err = e.inviteSvc.Create(e.ctx, owner.ID, server.ID, CreateInviteInput{})
	req.NoError(err)
	invites, err := e.inviteSvc.List(e.ctx, owner.ID, server.ID)
	req.NoError(err)
	_, err = e.inviteSvc.Redeem(e.ctx, member.ID, invites[0].ID)
	req.NoError(err)

	req.NoError(e.guard.RequireServerMember(e.ctx, owner.ID, server.ID))
	req.NoError(e.guard.RequireServerMember(e.ctx, member.ID, server.ID))
	req.ErrorIs(e.guard.RequireServerMember(e.ctx, stranger.ID, server.ID), ErrNotServerMember)
	req.ErrorIs(e.guard.RequireServerMember(e.ctx, owner.ID, uuid.New()), ErrServerNotFound)
}

func TestGuardServerOwner(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	member := e.addUser(t, "member")

	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	req.NoError(e.guard.RequireServerOwner(e.ctx, owner.ID, server.ID))
	req.ErrorIs(e.guard.RequireServerOwner(e.ctx, member.ID, server.ID), ErrNotServerOwner)
	req.ErrorIs(e.guard.RequireServerOwner(e.ctx, owner.ID, uuid.New()), ErrServerNotFound)
}

func TestGuardChannelConversation(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	stranger := e.addUser(t, "stranger")

	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	conv := domain.ChannelConversation(server.DefaultChannelID)
	req.NoError(e.guard.RequireConversationMember(e.ctx, owner.ID, conv))

	// Non-members of the channel's server are reported as conversation
	// outsiders, not server outsiders.
	err = e.guard.RequireConversationMember(e.ctx, stranger.ID, conv)
	req.ErrorIs(err, ErrNotConversationMember)

	missing := domain.ChannelConversation(uuid.New())
	req.ErrorIs(e.guard.RequireConversationMember(e.ctx, owner.ID, missing), ErrChannelNotFound)
}

func TestGuardDMConversation(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	alice := e.addUser(t, "alice")
	bob := e.addUser(t, "bob")
	eve := e.addUser(t, "eve")

	conv, err := e.dmSvc.GetOrCreateConversation(e.ctx, alice.ID, bob.ID)
	req.NoError(err)

	ref := domain.DMConversationRef(conv.ID)
	req.NoError(e.guard.RequireConversationMember(e.ctx, alice.ID, ref))
	req.NoError(e.guard.RequireConversationMember(e.ctx, bob.ID, ref))
	req.ErrorIs(e.guard.RequireConversationMember(e.ctx, eve.ID, ref), ErrNotConversationMember)

	missing := domain.DMConversationRef(uuid.New())
	req.ErrorIs(e.guard.RequireConversationMember(e.ctx, alice.ID, missing), ErrConversationNotFound)
}
