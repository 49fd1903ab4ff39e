package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"

	"github.com/turismo/turismo-api/internal/api/metrics"
	"github.com/turismo/turismo-api/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AuthEvent
	fail   bool
	done   chan struct{}
	want   int
}

func (r *recordingRepo) InsertAuthEvent(_ context.Context, e *domain.AuthEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	if len(r.events) == r.want {
		close(r.done)
	}
	if r.fail {
		return errors.New("write failed")
	}
	return nil
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for audit events")
	}
}

func TestDispatcher_WritesEventsInOrderPerEmail(t *testing.T) {
	repo := &recordingRepo{done: make(chan struct{}), want: 3}
	d := NewDispatcher(4, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)

	kinds := []domain.AuthEventKind{domain.AuthEventRegister, domain.AuthEventLoginFailure, domain.AuthEventLoginSuccess}
	for _, k := range kinds {
		d.Enqueue(domain.AuthEvent{Kind: k, Email: "ana@example.com", At: time.Now()})
	}
	waitFor(t, repo.done)
	cancel()
	d.Wait()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	for i, k := range kinds {
		if repo.events[i].Kind != k {
			t.Fatalf("event %d: expected %s, got %s", i, k, repo.events[i].Kind)
		}
	}
}

func TestDispatcher_WriteFailureDoesNotStopWorker(t *testing.T) {
	repo := &recordingRepo{done: make(chan struct{}), want: 2, fail: true}
	d := NewDispatcher(1, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	d.Start(ctx)

	d.Enqueue(domain.AuthEvent{Kind: domain.AuthEventLoginFailure, Email: "a@example.com"})
	d.Enqueue(domain.AuthEvent{Kind: domain.AuthEventLoginFailure, Email: "b@example.com"})
	waitFor(t, repo.done)
}

func TestDispatcher_EnqueueNeverBlocks(t *testing.T) {
	repo := &recordingRepo{done: make(chan struct{}), want: -1}
	d := NewDispatcher(1, repo, zerolog.Nop())

	// Workers are not started, so the buffer fills and the rest are dropped.
	finished := make(chan struct{})
	go func() {
		for i := 0; i < channelBuffer+10; i++ {
			d.Enqueue(domain.AuthEvent{Email: "a@example.com"})
		}
		close(finished)
	}()
	waitFor(t, finished)

	if got := len(d.workers[0]); got != channelBuffer {
		t.Fatalf("expected full buffer of %d, got %d", channelBuffer, got)
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingRepo{}, zerolog.Nop())

	first := d.shardIndex("ana@example.com")
	for i := 0; i < 10; i++ {
		if got := d.shardIndex("ana@example.com"); got != first {
			t.Fatalf("shard changed from %d to %d", first, got)
		}
	}
	if first < 0 || first >= 8 {
		t.Fatalf("shard %d out of range", first)
	}
}

func TestDispatcher_FlushesBufferOnShutdown(t *testing.T) {
	repo := &recordingRepo{done: make(chan struct{}), want: 5}
	d := NewDispatcher(1, repo, zerolog.Nop())

	for i := 0; i < 5; i++ {
		d.Enqueue(domain.AuthEvent{Kind: domain.AuthEventLoginSuccess, Email: "ana@example.com"})
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	repo.mu.Lock()
	defer repo.mu.Unlock()
	if len(repo.events) != 5 {
		t.Fatalf("expected 5 flushed events, got %d", len(repo.events))
	}
}

type slowRepo struct {
	mu      sync.Mutex
	written int
	delay   time.Duration
}

func (r *slowRepo) InsertAuthEvent(context.Context, *domain.AuthEvent) error {
	time.Sleep(r.delay)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.written++
	return nil
}

func TestDispatcher_DrainDeadlineCountsLeftovers(t *testing.T) {
	repo := &slowRepo{delay: 50 * time.Millisecond}
	d := NewDispatcher(1, repo, zerolog.Nop())
	d.drainTimeout = 10 * time.Millisecond

	dropped := metrics.AuditEventsTotal.WithLabelValues("dropped")
	before := testutil.ToFloat64(dropped)

	for i := 0; i < 3; i++ {
		d.Enqueue(domain.AuthEvent{Email: "ana@example.com"})
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Start(ctx)
	d.Wait()

	droppedNow := int(testutil.ToFloat64(dropped) - before)
	repo.mu.Lock()
	defer repo.mu.Unlock()
	if droppedNow < 1 {
		t.Fatalf("expected leftovers past the deadline to be counted as dropped")
	}
	if repo.written+droppedNow != 3 {
		t.Fatalf("every buffered event must be written or counted: written=%d dropped=%d", repo.written, droppedNow)
	}
	if len(d.workers[0]) != 0 {
		t.Fatalf("expected empty buffer after drain, got %d", len(d.workers[0]))
	}
}
