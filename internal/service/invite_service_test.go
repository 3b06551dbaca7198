package service

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/vedran77/haven/internal/domain"
)

func TestInviteRedeemGrantsMembership(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	joiner := e.addUser(t, "joiner")

	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	invite, err := e.inviteSvc.Create(e.ctx, owner.ID, server.ID, CreateInviteInput{MaxUses: 1})
	req.NoError(err)

	serverID, err := e.inviteSvc.Redeem(e.ctx, joiner.ID, invite.ID)
	req.NoError(err)
	req.Equal(server.ID, serverID)
	req.NoError(e.guard.RequireServerMember(e.ctx, joiner.ID, server.ID))
}

func TestInviteCreateRequiresOwner(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	other := e.addUser(t, "other")

	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	_, err = e.inviteSvc.Create(e.ctx, other.ID, server.ID, CreateInviteInput{})
	req.ErrorIs(err, ErrNotServerOwner)

	_, err = e.inviteSvc.List(e.ctx, other.ID, server.ID)
	req.ErrorIs(err, ErrNotServerOwner)
}

func TestInviteExhaustion(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	first := e.addUser(t, "first")
	second := e.addUser(t, "second")

	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	invite, err := e.inviteSvc.Create(e.ctx, owner.ID, server.ID, CreateInviteInput{MaxUses: 1})
	req.NoError(err)

	_, err = e.inviteSvc.Redeem(e.ctx, first.ID, invite.ID)
	req.NoError(err)

	_, err = e.inviteSvc.Redeem(e.ctx, second.ID, invite.ID)
	req.ErrorIs(err, ErrInviteExhausted)
	req.ErrorIs(e.guard.RequireServerMember(e.ctx, second.ID, server.ID), ErrNotServerMember)
}

func TestInviteUnlimitedUses(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	invite, err := e.inviteSvc.Create(e.ctx, owner.ID, server.ID, CreateInviteInput{MaxUses: 0})
	req.NoError(err)

	for i := 0; i < 10; i++ {
		joiner := e.addUser(t, "joiner"+string(rune('a'+i)))
		_, err := e.inviteSvc.Redeem(e.ctx, joiner.ID, invite.ID)
		req.NoError(err)
	}
}

func TestInviteExpiry(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	joiner := e.addUser(t, "joiner")

	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	// Plenty of uses left, but already past its deadline.
	past := time.Now().Add(-time.Minute)
	invite, err := e.inviteSvc.Create(e.ctx, owner.ID, server.ID, CreateInviteInput{MaxUses: 100, ExpiresAt: &past})
	req.NoError(err)

	_, err = e.inviteSvc.Redeem(e.ctx, joiner.ID, invite.ID)
	req.ErrorIs(err, ErrInviteExpired)
}

func TestInviteRedeemUnknown(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	joiner := e.addUser(t, "joiner")
	_, err := e.inviteSvc.Redeem(e.ctx, joiner.ID, uuid.New())
	req.ErrorIs(err, ErrInviteNotFound)
}

func TestInviteRedeemWhileMemberBurnsUse(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	joiner := e.addUser(t, "joiner")

	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	invite, err := e.inviteSvc.Create(e.ctx, owner.ID, server.ID, CreateInviteInput{MaxUses: 2})
	req.NoError(err)

	_, err = e.inviteSvc.Redeem(e.ctx, joiner.ID, invite.ID)
	req.NoError(err)
	// Redeeming again succeeds but consumes the remaining use.
	_, err = e.inviteSvc.Redeem(e.ctx, joiner.ID, invite.ID)
	req.NoError(err)

	stored, err := e.invites.GetByID(e.ctx, invite.ID)
	req.NoError(err)
	req.Equal(2, stored.Uses)

	members, err := e.serverSvc.ListMembers(e.ctx, owner.ID, server.ID)
	req.NoError(err)
	req.Len(members, 2) // owner + joiner, no duplicate row
}

func TestInviteConcurrentRedemption(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	owner := e.addUser(t, "owner")
	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)

	const maxUses = 3
	invite, err := e.inviteSvc.Create(e.ctx, owner.ID, server.ID, CreateInviteInput{MaxUses: maxUses})
	req.NoError(err)

	users := make([]*domain.User, 10)
	for i := range users {
		users[i] = e.addUser(t, "racer"+string(rune('a'+i)))
	}

	var wg sync.WaitGroup
	results := make([]error, len(users))
	for i, u := range users {
		wg.Add(1)
		go func(i int, id uuid.UUID) {
			defer wg.Done()
			_, results[i] = e.inviteSvc.Redeem(e.ctx, id, invite.ID)
		}(i, u.ID)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			req.ErrorIs(err, ErrInviteExhausted)
		}
	}
	req.Equal(maxUses, succeeded)

	stored, err := e.invites.GetByID(e.ctx, invite.ID)
	req.NoError(err)
	req.Equal(maxUses, stored.Uses)
}
