package service

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vedran77/haven/internal/domain"
)

// typingEnv pins the service clock so expiry instants are deterministic.
func typingEnv(t *testing.T) (*env, *time.Time) {
	e := newEnv(t)
	now := time.Now()
	e.typingSvc.now = func() time.Time { return now }
	return e, &now
}

func TestTypingUpsertSchedulesExpiry(t *testing.T) {
	req := require.New(t)
	e, _ := typingEnv(t)

	owner := e.addUser(t, "owner")
	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)
	conv := domain.ChannelConversation(server.DefaultChannelID)

	_, err = e.typingSvc.Upsert(e.ctx, owner.ID, conv)
	req.NoError(err)
	req.Len(e.sched.jobs, 1)

	// Firing the callback at its deadline removes the indicator.
	e.sched.fireAll(e.ctx)
	ind, err := e.typing.GetByUserAndConversation(e.ctx, owner.ID, conv)
	req.NoError(err)
	req.Nil(ind)
}

func TestTypingRefreshSupersedesEarlierCallback(t *testing.T) {
	req := require.New(t)
	e, now := typingEnv(t)

	owner := e.addUser(t, "owner")
	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)
	conv := domain.ChannelConversation(server.DefaultChannelID)

	id1, err := e.typingSvc.Upsert(e.ctx, owner.ID, conv)
	req.NoError(err)

	// A keystroke two seconds later refreshes the same indicator and
	// schedules a second callback for its own deadline.
	*now = now.Add(2 * time.Second)
	id2, err := e.typingSvc.Upsert(e.ctx, owner.ID, conv)
	req.NoError(err)
	req.Equal(id1, id2)
	req.Len(e.sched.jobs, 2)

	// The first callback fires at its old deadline and finds a newer
	// expiry: it must leave the indicator alone.
	e.sched.jobs[0].fn(e.ctx)
	ind, err := e.typing.GetByUserAndConversation(e.ctx, owner.ID, conv)
	req.NoError(err)
	req.NotNil(ind, "stale callback deleted a refreshed indicator")

	// The second callback matches the stored expiry and removes it.
	e.sched.jobs[1].fn(e.ctx)
	ind, err = e.typing.GetByUserAndConversation(e.ctx, owner.ID, conv)
	req.NoError(err)
	req.Nil(ind)
}

func TestTypingConcurrentUpsertsKeepOneIndicator(t *testing.T) {
	req := require.New(t)
	e, _ := typingEnv(t)

	owner := e.addUser(t, "owner")
	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)
	conv := domain.ChannelConversation(server.DefaultChannelID)

	// A burst of keystroke events for the same user and conversation must
	// collapse onto a single row, never duplicate it.
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.typingSvc.Upsert(e.ctx, owner.ID, conv)
			req.NoError(err)
		}()
	}
	wg.Wait()

	indicators, err := e.typing.ListByConversation(e.ctx, conv)
	req.NoError(err)
	req.Len(indicators, 1)

	// Every upsert scheduled its own expiry callback; after all of them
	// fire, the indicator is gone.
	e.sched.fireAll(e.ctx)
	ind, err := e.typing.GetByUserAndConversation(e.ctx, owner.ID, conv)
	req.NoError(err)
	req.Nil(ind)
}

func TestTypingExpireOnlyMatchingDeadline(t *testing.T) {
	req := require.New(t)
	e, now := typingEnv(t)

	owner := e.addUser(t, "owner")
	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)
	conv := domain.ChannelConversation(server.DefaultChannelID)

	_, err = e.typingSvc.Upsert(e.ctx, owner.ID, conv)
	req.NoError(err)
	firstDeadline := now.Add(5 * time.Second)

	*now = now.Add(2 * time.Second)
	_, err = e.typingSvc.Upsert(e.ctx, owner.ID, conv)
	req.NoError(err)

	// Stale deadline: no-op.
	e.typingSvc.Expire(e.ctx, conv, owner.ID, firstDeadline)
	ind, err := e.typing.GetByUserAndConversation(e.ctx, owner.ID, conv)
	req.NoError(err)
	req.NotNil(ind)

	// Current deadline: removed.
	deadline := ind.ExpireAt
	e.typingSvc.Expire(e.ctx, conv, owner.ID, deadline)
	ind, err = e.typing.GetByUserAndConversation(e.ctx, owner.ID, conv)
	req.NoError(err)
	req.Nil(ind)

	// Firing again for the now-gone indicator is a silent no-op.
	e.typingSvc.Expire(e.ctx, conv, owner.ID, deadline)
}

func TestTypingListExcludesCaller(t *testing.T) {
	req := require.New(t)
	e, _ := typingEnv(t)

	owner := e.addUser(t, "owner")
	member := e.addUser(t, "member")

	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)
	invite, err := e.inviteSvc.Create(e.ctx, owner.ID, server.ID, CreateInviteInput{})
	req.NoError(err)
	_, err = e.inviteSvc.Redeem(e.ctx, member.ID, invite.ID)
	req.NoError(err)

	conv := domain.ChannelConversation(server.DefaultChannelID)
	_, err = e.typingSvc.Upsert(e.ctx, owner.ID, conv)
	req.NoError(err)
	_, err = e.typingSvc.Upsert(e.ctx, member.ID, conv)
	req.NoError(err)

	names, err := e.typingSvc.List(e.ctx, owner.ID, conv)
	req.NoError(err)
	req.Equal([]string{"member"}, names)

	names, err = e.typingSvc.List(e.ctx, member.ID, conv)
	req.NoError(err)
	req.Equal([]string{"owner"}, names)
}

func TestTypingRequiresConversationMembership(t *testing.T) {
	req := require.New(t)
	e, _ := typingEnv(t)

	owner := e.addUser(t, "owner")
	stranger := e.addUser(t, "stranger")

	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)
	conv := domain.ChannelConversation(server.DefaultChannelID)

	_, err = e.typingSvc.Upsert(e.ctx, stranger.ID, conv)
	req.ErrorIs(err, ErrNotConversationMember)

	_, err = e.typingSvc.List(e.ctx, stranger.ID, conv)
	req.ErrorIs(err, ErrNotConversationMember)
}

func TestTypingNotifiesOthers(t *testing.T) {
	req := require.New(t)
	e, _ := typingEnv(t)

	owner := e.addUser(t, "owner")
	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)
	conv := domain.ChannelConversation(server.DefaultChannelID)

	_, err = e.typingSvc.Upsert(e.ctx, owner.ID, conv)
	req.NoError(err)
	req.Len(e.notifier.typing, 1)
	req.Equal(owner.ID, e.notifier.typing[0].userID)
	req.Equal("owner", e.notifier.typing[0].displayName)

	// Refreshes stay silent; clients already show the indicator.
	_, err = e.typingSvc.Upsert(e.ctx, owner.ID, conv)
	req.NoError(err)
	req.Len(e.notifier.typing, 1)
}
