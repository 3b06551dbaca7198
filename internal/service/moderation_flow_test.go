package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/moderation"
	"go.uber.org/zap"
)

type scriptedClassifier struct {
	verdicts map[string]string
}

func (c *scriptedClassifier) Classify(_ context.Context, content string) (string, error) {
	if v, ok := c.verdicts[content]; ok {
		return v, nil
	}
	return "safe", nil
}

// TestModerationFlow sends messages through the real worker: the flagged one
// transitions to removed with its mapped reason, the safe one stays intact,
// and the removal is broadcast after the fact.
func TestModerationFlow(t *testing.T) {
	req := require.New(t)
	e := newEnv(t)

	classifier := &scriptedClassifier{verdicts: map[string]string{
		"something hateful": "unsafe\nS10",
	}}
	worker := moderation.NewWorker(e.messages, classifier, 16, zap.NewNop().Sugar())
	worker.SetNotifier(e.notifier)
	e.messageSvc.SetModerationQueue(worker)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go worker.Run(ctx)

	owner := e.addUser(t, "owner")
	server, err := e.serverSvc.Create(e.ctx, owner.ID, CreateServerInput{Name: "our place"})
	req.NoError(err)
	conv := domain.ChannelConversation(server.DefaultChannelID)

	flagged, err := e.messageSvc.Send(e.ctx, owner.ID, conv, SendMessageInput{Content: "something hateful"})
	req.NoError(err)
	// Send returns before the verdict lands.
	req.False(flagged.Deleted)

	safe, err := e.messageSvc.Send(e.ctx, owner.ID, conv, SendMessageInput{Content: "hello friends"})
	req.NoError(err)

	req.Eventually(func() bool {
		stored, err := e.messages.GetByID(e.ctx, flagged.ID)
		return err == nil && stored != nil && stored.Deleted
	}, time.Second, 10*time.Millisecond)

	stored, err := e.messages.GetByID(e.ctx, flagged.ID)
	req.NoError(err)
	req.NotNil(stored.DeletedReason)
	req.Equal("Hate Speech", *stored.DeletedReason)

	storedSafe, err := e.messages.GetByID(e.ctx, safe.ID)
	req.NoError(err)
	req.False(storedSafe.Deleted)

	req.Eventually(func() bool { return e.notifier.deletedCount() == 1 }, time.Second, 10*time.Millisecond)
	req.Equal(flagged.ID, e.notifier.deleted[0].messageID)
	req.Equal("Hate Speech", *e.notifier.deleted[0].reason)
}
