// Package scheduler coalesces bursts of edits into single remote writes.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"channel_sync/internal/domain"
)

// Writer pushes the current in-memory document to the remote store.
// It is called with no scheduler locks held and must read the latest state.
type Writer interface {
	WriteSnapshot(ctx context.Context) error
}

type Event int

const (
	EventMutation Event = iota
	EventTimerFired
	EventWriteDone
)

// Transition is the write state machine. A mutation while Writing leaves
// the state unchanged; the loop replays it once the write finishes.
func Transition(state domain.SyncState, ev Event) domain.SyncState {
	switch {
	case ev == EventMutation && state == domain.SyncIdle:
		return domain.SyncPendingWrite
	case ev == EventMutation && state == domain.SyncPendingWrite:
		return domain.SyncPendingWrite
	case ev == EventTimerFired && state == domain.SyncPendingWrite:
		return domain.SyncWriting
	case ev == EventWriteDone && state == domain.SyncWriting:
		return domain.SyncIdle
	}
	return state
}

type Scheduler struct {
	writer       Writer
	quietPeriod  time.Duration
	writeTimeout time.Duration
	logger       *slog.Logger

	notify chan struct{}

	mu    sync.RWMutex
	state domain.SyncState
}

func NewScheduler(writer Writer, quietPeriod, writeTimeout time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		writer:       writer,
		quietPeriod:  quietPeriod,
		writeTimeout: writeTimeout,
		logger:       logger.With("component", "scheduler"),
		notify:       make(chan struct{}, 1),
		state:        domain.SyncIdle,
	}
}

// Notify records that the document changed. It never blocks.
func (s *Scheduler) Notify() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

func (s *Scheduler) State() domain.SyncState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Scheduler) apply(ev Event) domain.SyncState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = Transition(s.state, ev)
	return s.state
}

// Start runs the debounce loop until ctx is done. A write that is in
// flight or pending at shutdown is completed before Start returns.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "quiet_period", s.quietPeriod)

	timer := time.NewTimer(s.quietPeriod)
	timer.Stop()
	defer timer.Stop()

	var timerC <-chan time.Time
	writeDone := make(chan struct{}, 1)
	dirty := false

	for {
		select {
		case <-ctx.Done():
			s.shutdown(ctx, writeDone, dirty)
			s.logger.Info("scheduler stopped")
			return ctx.Err()

		case <-s.notify:
			if s.apply(EventMutation) == domain.SyncWriting {
				dirty = true
				continue
			}
			timer.Reset(s.quietPeriod)
			timerC = timer.C

		case <-timerC:
			timerC = nil
			s.apply(EventTimerFired)
			go func() {
				s.runWrite(ctx)
				writeDone <- struct{}{}
			}()

		case <-writeDone:
			s.apply(EventWriteDone)
			if dirty {
				dirty = false
				s.apply(EventMutation)
				timer.Reset(s.quietPeriod)
				timerC = timer.C
			}
		}
	}
}

func (s *Scheduler) shutdown(ctx context.Context, writeDone <-chan struct{}, dirty bool) {
	switch s.State() {
	case domain.SyncWriting:
		<-writeDone
		s.apply(EventWriteDone)
		if !dirty {
			return
		}
		s.apply(EventMutation)
	case domain.SyncIdle:
		return
	}

	s.logger.Info("flushing pending write")
	s.apply(EventTimerFired)
	s.runWrite(ctx)
	s.apply(EventWriteDone)
}

func (s *Scheduler) runWrite(ctx context.Context) {
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.writeTimeout)
	defer cancel()

	start := time.Now()
	if err := s.writer.WriteSnapshot(writeCtx); err != nil {
		s.logger.Error("sync failed", "error", err, "duration", time.Since(start))
		return
	}
	s.logger.Info("sync completed", "duration", time.Since(start))
}
