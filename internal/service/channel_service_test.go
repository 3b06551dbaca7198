package service

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChannelCreateAndList(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	channel, err := e.channelSvc.Create(e.ctx, owner.ID, server.ID, CreateChannelInput{Name: "random"})
	req.NoError(err)
	req.Equal(server.ID, channel.ServerID)

	channels, err := e.channelSvc.List(e.ctx, owner.ID, server.ID)
	req.NoError(err)
	req.Len(channels, 2) // general + random
}

func TestChannelCreateDuplicateName(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	_, err = e.channelSvc.Create(e.ctx, owner.ID, server.ID, CreateChannelInput{Name: "random"})
	req.NoError(err)
	_, err = e.channelSvc.Create(e.ctx, owner.ID, server.ID, CreateChannelInput{Name: "random"})
	req.ErrorIs(err, ErrChannelNameTaken)

	// The default channel name is taken too.
	_, err = e.channelSvc.Create(e.ctx, owner.ID, server.ID, CreateChannelInput{Name: "general"})
	req.ErrorIs(err, ErrChannelNameTaken)

	// The failed creates left nothing behind.
	channels, err := e.channelSvc.List(e.ctx, owner.ID, server.ID)
	req.NoError(err)
	req.Len(channels, 2)
}

func TestChannelConcurrentCreateSameName(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	// Racing creates for the same name must agree: exactly one wins, the
	// rest see the name as taken.
	var wg sync.WaitGroup
	var created atomic.Int32
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.channelSvc.Create(e.ctx, owner.ID, server.ID, CreateChannelInput{Name: "random"})
			switch {
			case err == nil:
				created.Add(1)
			default:
				req.ErrorIs(err, ErrChannelNameTaken)
			}
		}()
	}
	wg.Wait()

	req.Equal(int32(1), created.Load())
	channels, err := e.channelSvc.List(e.ctx, owner.ID, server.ID)
	req.NoError(err)
	req.Len(channels, 2) // general + random
}

func TestChannelCreateRequiresOwner(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	member := e.addUser(t, "member")

	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	invite, err := e.inviteSvc.Create(e.ctx, owner.ID, server.ID, CreateInviteInput{})
	req.NoError(err)
	_, err = e.inviteSvc.Redeem(e.ctx, member.ID, invite.ID)
	req.NoError(err)

	// Members can read but not create.
	_, err = e.channelSvc.List(e.ctx, member.ID, server.ID)
	req.NoError(err)
	_, err = e.channelSvc.Create(e.ctx, member.ID, server.ID, CreateChannelInput{Name: "random"})
	req.ErrorIs(err, ErrNotServerOwner)
}

func TestChannelRemoveDefaultRefused(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	err = e.channelSvc.Remove(e.ctx, owner.ID, server.DefaultChannelID)
	req.ErrorIs(err, ErrDefaultChannel)

	// The channel is still there.
	channels, err := e.channelSvc.List(e.ctx, owner.ID, server.ID)
	req.NoError(err)
	req.Len(channels, 1)
}

func TestChannelRemove(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	member := e.addUser(t, "member")

	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	invite, err := e.inviteSvc.Create(e.ctx, owner.ID, server.ID, CreateInviteInput{})
	req.NoError(err)
	_, err = e.inviteSvc.Redeem(e.ctx, member.ID, invite.ID)
	req.NoError(err)

	channel, err := e.channelSvc.Create(e.ctx, owner.ID, server.ID, CreateChannelInput{Name: "random"})
	req.NoError(err)

	req.ErrorIs(e.channelSvc.Remove(e.ctx, member.ID, channel.ID), ErrNotServerOwner)
	req.NoError(e.channelSvc.Remove(e.ctx, owner.ID, channel.ID))

	_, err = e.channelSvc.Get(e.ctx, owner.ID, channel.ID)
	req.ErrorIs(err, ErrChannelNotFound)
}
