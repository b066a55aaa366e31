package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/whatever-x/couple-backend/internal/apperr"
	"github.com/whatever-x/couple-backend/internal/events"
	"github.com/whatever-x/couple-backend/internal/logger"
)

type scriptedWorker struct {
	mu      sync.Mutex
	name    string
	rows    int64
	script  []error // error returned per attempt; past the end means success
	calls   []uuid.UUID
	attempt int
}

func (w *scriptedWorker) DomainName() string { return w.name }

func (w *scriptedWorker) CleanupEntity(_ context.Context, userID uuid.UUID) (int64, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.calls = append(w.calls, userID)
	idx := w.attempt
	w.attempt++
	if idx < len(w.script) && w.script[idx] != nil {
		return 0, w.script[idx]
	}
	return w.rows, nil
}

func transientErr() error {
	return apperr.MarkTransient(errors.New("connection reset"))
}

func newSequentialCleanup(workers ...CleanupWorker) (*CleanupService, *[]time.Duration) {
	svc := NewCleanupService(logger.NewNop(), false, workers...)
	sleeps := &[]time.Duration{}
	svc.sleep = func(d time.Duration) { *sleeps = append(*sleeps, d) }
	return svc, sleeps
}

func TestCleanupInvokesEveryWorkerOnce(t *testing.T) {
	userID := uuid.New()
	workers := []*scriptedWorker{
		{name: "calendar_event", rows: 2},
		{name: "memo", rows: 5},
		{name: "tag_content_map", rows: 1},
		{name: "balance_choice", rows: 0},
	}
	svc, _ := newSequentialCleanup(workers[0], workers[1], workers[2], workers[3])

	if err := svc.CleanupOwnedRecords(context.Background(), userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range workers {
		if len(w.calls) != 1 {
			t.Errorf("worker %s called %d times, want 1", w.name, len(w.calls))
			continue
		}
		if w.calls[0] != userID {
			t.Errorf("worker %s called with %s, want %s", w.name, w.calls[0], userID)
		}
	}
}

func TestCleanupRunsOnlyAfterCommit(t *testing.T) {
	bus := events.NewBus(logger.NewNop())
	worker := &scriptedWorker{name: "memo", rows: 1}
	svc, _ := newSequentialCleanup(worker)
	svc.Register(bus)

	runner := &stubRunner{bus: bus}
	userID := uuid.New()

	// Rolled-back transaction: the queued event dies with it.
	boom := errors.New("boom")
	err := runner.InTx(context.Background(), func(_ *gorm.DB, q *events.Queue) error {
		q.Enqueue(events.CoupleMemberLeave{CoupleID: uuid.New(), UserID: userID})
		return boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, want boom", err)
	}
	if len(worker.calls) != 0 {
		t.Fatalf("worker invoked despite rollback")
	}

	// Committed transaction: cleanup fires exactly once.
	err = runner.InTx(context.Background(), func(_ *gorm.DB, q *events.Queue) error {
		q.Enqueue(events.CoupleMemberLeave{CoupleID: uuid.New(), UserID: userID})
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(worker.calls) != 1 || worker.calls[0] != userID {
		t.Fatalf("worker calls = %v, want exactly one for %s", worker.calls, userID)
	}
}

func TestCleanupRetriesTransientThenSucceeds(t *testing.T) {
	worker := &scriptedWorker{name: "memo", rows: 7, script: []error{transientErr(), transientErr()}}
	svc, sleeps := newSequentialCleanup(worker)

	hookCalled := false
	svc.SetRecoveryHook(func(context.Context, uuid.UUID, string, error) { hookCalled = true })

	rows, err := svc.runWithRetry(context.Background(), worker, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rows != 7 {
		t.Fatalf("rows = %d, want 7", rows)
	}
	if len(worker.calls) != 3 {
		t.Fatalf("attempts = %d, want 3", len(worker.calls))
	}
	if hookCalled {
		t.Fatal("recovery hook fired on eventual success")
	}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(*sleeps) != len(want) || (*sleeps)[0] != want[0] || (*sleeps)[1] != want[1] {
		t.Fatalf("backoffs = %v, want %v", *sleeps, want)
	}
}

func TestCleanupExhaustionInvokesHookAndReraises(t *testing.T) {
	last := transientErr()
	worker := &scriptedWorker{name: "memo", script: []error{transientErr(), transientErr(), last}}
	svc, _ := newSequentialCleanup(worker)

	var hookErr error
	var hookDomain string
	svc.SetRecoveryHook(func(_ context.Context, _ uuid.UUID, domain string, err error) {
		hookDomain = domain
		hookErr = err
	})

	_, err := svc.runWithRetry(context.Background(), worker, uuid.New())
	if !errors.Is(err, last) {
		t.Fatalf("error = %v, want the last transient failure re-raised", err)
	}
	if len(worker.calls) != 3 {
		t.Fatalf("attempts = %d, want 3", len(worker.calls))
	}
	if hookDomain != "memo" || !errors.Is(hookErr, last) {
		t.Fatalf("hook got (%q, %v), want (memo, last error)", hookDomain, hookErr)
	}
}

func TestCleanupNonTransientFailsImmediately(t *testing.T) {
	fatal := errors.New("constraint violated")
	worker := &scriptedWorker{name: "memo", script: []error{fatal}}
	svc, sleeps := newSequentialCleanup(worker)

	hookCalled := false
	svc.SetRecoveryHook(func(context.Context, uuid.UUID, string, error) { hookCalled = true })

	_, err := svc.runWithRetry(context.Background(), worker, uuid.New())
	if !errors.Is(err, fatal) {
		t.Fatalf("error = %v, want the non-transient failure", err)
	}
	if len(worker.calls) != 1 {
		t.Fatalf("attempts = %d, want 1 (no retry)", len(worker.calls))
	}
	if hookCalled {
		t.Fatal("recovery hook fired for a non-transient failure")
	}
	if len(*sleeps) != 0 {
		t.Fatalf("slept %v before a non-retryable failure", *sleeps)
	}
}

func TestCleanupIsolatesWorkerFailures(t *testing.T) {
	failing := &scriptedWorker{name: "tag_content_map", script: []error{errors.New("broken")}}
	healthy := &scriptedWorker{name: "balance_choice", rows: 3}
	svc, _ := newSequentialCleanup(failing, healthy)

	err := svc.CleanupOwnedRecords(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected the failing worker's error to surface")
	}
	if len(healthy.calls) != 1 {
		t.Fatalf("healthy worker called %d times, want 1 despite earlier failure", len(healthy.calls))
	}
}

// gatedWorker blocks until its gate closes, then records what the context
// looked like at that point.
type gatedWorker struct {
	name   string
	gate   chan struct{}
	rows   int64
	called bool
	ctxErr error
}

func (w *gatedWorker) DomainName() string { return w.name }

func (w *gatedWorker) CleanupEntity(ctx context.Context, _ uuid.UUID) (int64, error) {
	<-w.gate
	w.called = true
	w.ctxErr = ctx.Err()
	return w.rows, nil
}

func TestCleanupParallelIsolatesExhaustedWorker(t *testing.T) {
	gate := make(chan struct{})
	failing := &scriptedWorker{name: "memo", script: []error{transientErr(), transientErr(), transientErr()}}
	healthy := &gatedWorker{name: "balance_choice", gate: gate, rows: 2}

	svc := NewCleanupService(logger.NewNop(), true, failing, healthy)
	svc.sleep = func(time.Duration) {}
	// Hold the healthy worker back until the failing one has given up, so
	// any cancellation triggered by the failure would be visible to it.
	svc.SetRecoveryHook(func(context.Context, uuid.UUID, string, error) { close(gate) })

	err := svc.CleanupOwnedRecords(context.Background(), uuid.New())
	if err == nil {
		t.Fatal("expected the exhausted worker's error to surface")
	}
	if !healthy.called {
		t.Fatal("healthy worker never ran")
	}
	if healthy.ctxErr != nil {
		t.Fatalf("healthy worker saw ctx error: %v", healthy.ctxErr)
	}
}

func TestCleanupParallelJoinsAllErrors(t *testing.T) {
	memoErr := errors.New("memo cleanup broken")
	tagErr := errors.New("tag cleanup broken")
	w1 := &scriptedWorker{name: "memo", script: []error{memoErr}}
	w2 := &scriptedWorker{name: "tag_content_map", script: []error{tagErr}}
	healthy := &scriptedWorker{name: "balance_choice", rows: 1}

	svc := NewCleanupService(logger.NewNop(), true, w1, w2, healthy)
	svc.sleep = func(time.Duration) {}

	err := svc.CleanupOwnedRecords(context.Background(), uuid.New())
	for _, want := range []error{memoErr, tagErr} {
		if !errors.Is(err, want) {
			t.Errorf("joined error missing %v, got %v", want, err)
		}
	}
	if len(healthy.calls) != 1 {
		t.Fatalf("healthy worker called %d times, want 1", len(healthy.calls))
	}
}

func TestCleanupParallelMode(t *testing.T) {
	userID := uuid.New()
	workers := []*scriptedWorker{
		{name: "calendar_event", rows: 1},
		{name: "memo", rows: 1},
		{name: "tag_content_map", rows: 1},
		{name: "balance_choice", rows: 1},
	}
	svc := NewCleanupService(logger.NewNop(), true, workers[0], workers[1], workers[2], workers[3])
	svc.sleep = func(time.Duration) {}

	if err := svc.CleanupOwnedRecords(context.Background(), userID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, w := range workers {
		if len(w.calls) != 1 {
			t.Errorf("worker %s called %d times, want 1", w.name, len(w.calls))
		}
	}
}
