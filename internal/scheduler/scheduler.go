// Package scheduler provides the fire-once, at-or-after timing primitive the
// presence tracker schedules its expiry callbacks on. There is no
// cancellation API; callers make redundant firings harmless themselves.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

type Scheduler struct {
	ctx    context.Context
	cancel context.CancelFunc
	log    *zap.SugaredLogger

	mu     sync.Mutex
	wg     sync.WaitGroup
	timers map[*time.Timer]struct{}
	closed bool
}

func New(log *zap.SugaredLogger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		ctx:    ctx,
		cancel: cancel,
		log:    log,
		timers: make(map[*time.Timer]struct{}),
	}
}

// RunAt runs fn once at or after t. Jobs scheduled for a past instant run
// immediately. After Shutdown, RunAt is a no-op.
func (s *Scheduler) RunAt(t time.Time, fn func(ctx context.Context)) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)

	var timer *time.Timer
	timer = time.AfterFunc(time.Until(t), func() {
		defer s.wg.Done()
		s.mu.Lock()
		delete(s.timers, timer)
		closed := s.closed
		s.mu.Unlock()
		if closed {
			return
		}
		fn(s.ctx)
	})
	s.timers[timer] = struct{}{}
	s.mu.Unlock()
}

// Shutdown stops pending timers and waits for callbacks already running.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	for timer := range s.timers {
		if timer.Stop() {
			// The callback will never run for a stopped timer.
			s.wg.Done()
		}
		delete(s.timers, timer)
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
	s.log.Debug("scheduler stopped")
}
