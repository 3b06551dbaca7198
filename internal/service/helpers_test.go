package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/vedran77/haven/internal/domain"
	"github.com/vedran77/haven/internal/repository/memory"
)

// env wires every service against the in-memory store with a capturing
// scheduler and notifier, so tests control time and observe broadcasts.
type env struct {
	ctx context.Context

	users    *memory.UserRepo
	servers  *memory.ServerRepo
	channels *memory.ChannelRepo
	invites  *memory.InviteRepo
	messages *memory.MessageRepo
	dms      *memory.DMRepo
	typing   *memory.TypingRepo

	guard      *Guard
	serverSvc  *ServerService
	channelSvc *ChannelService
	inviteSvc  *InviteService
	messageSvc *MessageService
	dmSvc      *DMService
	typingSvc  *TypingService

	sched    *fakeScheduler
	notifier *fakeNotifier
}

func newEnv(t *testing.T) *env {
	t.Helper()

	e := &env{
		ctx:      context.Background(),
		users:    memory.NewUserRepo(),
		servers:  memory.NewServerRepo(),
		channels: memory.NewChannelRepo(),
		invites:  memory.NewInviteRepo(),
		dms:      memory.NewDMRepo(nil),
		typing:   memory.NewTypingRepo(),
		sched:    &fakeScheduler{},
		notifier: &fakeNotifier{},
	}
	e.messages = memory.NewMessageRepo(e.users)

	e.guard = NewGuard(e.servers, e.channels, e.dms)
	e.serverSvc = NewServerService(e.servers, e.channels, e.guard)
	e.channelSvc = NewChannelService(e.channels, e.servers, e.guard)
	e.inviteSvc = NewInviteService(e.invites, e.servers, e.guard)
	e.dmSvc = NewDMService(e.dms, e.users)

	e.messageSvc = NewMessageService(e.messages, e.guard)
	e.messageSvc.SetNotifier(e.notifier)

	e.typingSvc = NewTypingService(e.typing, e.users, e.guard, e.sched)
	e.typingSvc.SetNotifier(e.notifier)

	return e
}

func (e *env) addUser(t *testing.T, username string) *domain.User {
	t.Helper()
	u := &domain.User{
		ID:          uuid.New(),
		Email:       username + "@example.com",
		Username:    username,
		DisplayName: username,
		CreatedAt:   time.Now(),
	}
	if err := e.users.Create(e.ctx, u); err != nil {
		t.Fatalf("creating user: %v", err)
	}
	return u
}

type scheduledJob struct {
	at time.Time
	fn func(ctx context.Context)
}

// fakeScheduler records jobs instead of running them; tests fire them by
// hand. Concurrency tests upsert from several goroutines, so access is
// locked.
type fakeScheduler struct {
	mu   sync.Mutex
	jobs []scheduledJob
}

func (s *fakeScheduler) RunAt(t time.Time, fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs = append(s.jobs, scheduledJob{at: t, fn: fn})
}

func (s *fakeScheduler) fireAll(ctx context.Context) {
	s.mu.Lock()
	jobs := s.jobs
	s.jobs = nil
	s.mu.Unlock()
	for _, j := range jobs {
		j.fn(ctx)
	}
}

type deletedNotification struct {
	conv      domain.ConversationRef
	messageID uuid.UUID
	reason    *string
}

type typingNotification struct {
	conv        domain.ConversationRef
	userID      uuid.UUID
	displayName string
}

// fakeNotifier records every broadcast. The moderation worker notifies from
// its own goroutine, so access is locked.
type fakeNotifier struct {
	mu          sync.Mutex
	newMessages []*domain.Message
	deleted     []deletedNotification
	typing      []typingNotification
}

func (n *fakeNotifier) NotifyNewMessage(msg *domain.Message) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.newMessages = append(n.newMessages, msg)
}

func (n *fakeNotifier) NotifyDeletedMessage(conv domain.ConversationRef, messageID uuid.UUID, reason *string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.deleted = append(n.deleted, deletedNotification{conv: conv, messageID: messageID, reason: reason})
}

func (n *fakeNotifier) NotifyTyping(conv domain.ConversationRef, userID uuid.UUID, displayName string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.typing = append(n.typing, typingNotification{conv: conv, userID: userID, displayName: displayName})
}

func (n *fakeNotifier) deletedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.deleted)
}
