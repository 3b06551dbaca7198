package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestDMGetOrCreateIsSymmetric(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	alice := e.addUser(t, "alice")
	bob := e.addUser(t, "bob")

	conv1, err := e.dmSvc.GetOrCreateConversation(e.ctx, alice.ID, bob.ID)
	req.NoError(err)
	conv2, err := e.dmSvc.GetOrCreateConversation(e.ctx, bob.ID, alice.ID)
	req.NoError(err)
	req.Equal(conv1.ID, conv2.ID, "both directions must resolve to the same thread")

	// The other-user fields are relative to the caller.
	req.Equal(bob.ID, conv1.OtherUserID)
	req.Equal(alice.ID, conv2.OtherUserID)
}

func TestDMSelfRefused(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	alice := e.addUser(t, "alice")
	_, err := e.dmSvc.GetOrCreateConversation(e.ctx, alice.ID, alice.ID)
	req.ErrorIs(err, ErrCannotDMSelf)
}

func TestDMUnknownUser(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	alice := e.addUser(t, "alice")
	_, err := e.dmSvc.GetOrCreateConversation(e.ctx, alice.ID, uuid.New())
	req.ErrorIs(err, ErrUserNotFound)
}
