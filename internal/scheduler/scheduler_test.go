package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"channel_sync/internal/domain"
)

type recordingWriter struct {
	mu       sync.Mutex
	current  int
	written  []int
	delay    time.Duration
	err      error
	inFlight atomic.Bool
}

func (w *recordingWriter) set(v int) {
	w.mu.Lock()
	w.current = v
	w.mu.Unlock()
}

func (w *recordingWriter) WriteSnapshot(ctx context.Context) error {
	w.inFlight.Store(true)
	defer w.inFlight.Store(false)

	w.mu.Lock()
	snapshot := w.current
	w.mu.Unlock()

	if w.delay > 0 {
		time.Sleep(w.delay)
	}

	w.mu.Lock()
	w.written = append(w.written, snapshot)
	w.mu.Unlock()
	return w.err
}

func (w *recordingWriter) writes() []int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]int(nil), w.written...)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startScheduler(t *testing.T, w Writer, quiet time.Duration) (*Scheduler, context.CancelFunc, <-chan error) {
	t.Helper()
	s := NewScheduler(w, quiet, time.Second, testLogger())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()
	return s, cancel, done
}

func TestTransition(t *testing.T) {
	tests := []struct {
		from domain.SyncState
		ev   Event
		want domain.SyncState
	}{
		{domain.SyncIdle, EventMutation, domain.SyncPendingWrite},
		{domain.SyncPendingWrite, EventMutation, domain.SyncPendingWrite},
		{domain.SyncPendingWrite, EventTimerFired, domain.SyncWriting},
		{domain.SyncWriting, EventMutation, domain.SyncWriting},
		{domain.SyncWriting, EventWriteDone, domain.SyncIdle},
		{domain.SyncIdle, EventTimerFired, domain.SyncIdle},
		{domain.SyncIdle, EventWriteDone, domain.SyncIdle},
		{domain.SyncPendingWrite, EventWriteDone, domain.SyncPendingWrite},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Transition(tt.from, tt.ev), "%s + %d", tt.from, tt.ev)
	}
}

func TestScheduler_CoalescesBurst(t *testing.T) {
	w := &recordingWriter{}
	s, cancel, done := startScheduler(t, w, 50*time.Millisecond)
	defer func() { cancel(); <-done }()

	for i := 1; i <= 5; i++ {
		w.set(i)
		s.Notify()
		time.Sleep(5 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return len(w.writes()) == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, []int{5}, w.writes(), "one write carrying the last state")
	assert.Eventually(t, func() bool { return s.State() == domain.SyncIdle }, time.Second, time.Millisecond)
}

func TestScheduler_QuietPeriodRestartsOnMutation(t *testing.T) {
	w := &recordingWriter{}
	s, cancel, done := startScheduler(t, w, 80*time.Millisecond)
	defer func() { cancel(); <-done }()

	s.Notify()
	time.Sleep(50 * time.Millisecond)
	s.Notify()
	time.Sleep(50 * time.Millisecond)

	assert.Empty(t, w.writes(), "timer was restarted by the second mutation")
	assert.Eventually(t, func() bool { return len(w.writes()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_MutationDuringWriteIsCarried(t *testing.T) {
	w := &recordingWriter{delay: 100 * time.Millisecond}
	s, cancel, done := startScheduler(t, w, 20*time.Millisecond)
	defer func() { cancel(); <-done }()

	w.set(1)
	s.Notify()
	require.Eventually(t, func() bool { return w.inFlight.Load() }, time.Second, time.Millisecond)
	assert.Equal(t, domain.SyncWriting, s.State())

	w.set(2)
	s.Notify()

	assert.Eventually(t, func() bool { return len(w.writes()) == 2 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, []int{1, 2}, w.writes())
}

func TestScheduler_FailureReturnsToIdle(t *testing.T) {
	w := &recordingWriter{err: errors.New("boom")}
	s, cancel, done := startScheduler(t, w, 10*time.Millisecond)
	defer func() { cancel(); <-done }()

	s.Notify()

	assert.Eventually(t, func() bool { return len(w.writes()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Eventually(t, func() bool { return s.State() == domain.SyncIdle }, time.Second, time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	assert.Len(t, w.writes(), 1, "failed writes are not retried")
}

func TestScheduler_FlushesPendingWriteOnStop(t *testing.T) {
	w := &recordingWriter{}
	s, cancel, done := startScheduler(t, w, time.Hour)

	w.set(3)
	s.Notify()
	require.Eventually(t, func() bool { return s.State() == domain.SyncPendingWrite }, time.Second, time.Millisecond)

	cancel()
	err := <-done

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []int{3}, w.writes())
	assert.Equal(t, domain.SyncIdle, s.State())
}
