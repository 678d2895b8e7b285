package buildlight

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// panicClient panics on every fetch.
type panicClient struct{}

func (panicClient) Fetch(ctx context.Context) ([]BuildRecord, *RateLimitHint, error) {
	panic("source client blew up")
}

// startForTest runs Start in a goroutine and returns the error channel.
func startForTest(bl *BuildLight, ctx context.Context) chan error {
	errChan := make(chan error, 1)
	go func() {
		errChan <- bl.Start(ctx)
	}()
	return errChan
}

// waitForChanges blocks until n state changes were observed or the
// timeout elapses.
func waitForChanges(t *testing.T, counter *atomicCounter, n int, timeout time.Duration) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for counter.get() < n {
		if time.Now().After(deadline) {
			t.Fatalf("timed out waiting for %d state changes, got %d", n, counter.get())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

type atomicCounter struct {
	mu sync.Mutex
	n  int
}

func (c *atomicCounter) inc() {
	c.mu.Lock()
	c.n++
	c.mu.Unlock()
}

func (c *atomicCounter) get() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func TestStart_PollsAndEmits(t *testing.T) {
	client := &fakeClient{records: []BuildRecord{rec(StatusSuccess)}}
	emitter := &fakeEmitter{}

	p, err := NewProvider("Jenkins", client, emitter, WithInterval(time.Second))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	var cycles atomicCounter
	var mu sync.Mutex
	var lastChange StateChange

	bl, err := New(
		WithProvider(p),
		WithLogger(testLogger()),
		WithStateCallback(func(c StateChange) {
			mu.Lock()
			lastChange = c
			mu.Unlock()
			cycles.inc()
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errChan := startForTest(bl, ctx)

	waitForChanges(t, &cycles, 1, 5*time.Second)
	cancel()

	select {
	case err := <-errChan:
		if err != nil {
			t.Fatalf("Start() error = %v, want nil on cooperative shutdown", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Start() did not return after cancellation")
	}

	mu.Lock()
	change := lastChange
	mu.Unlock()

	if change.Provider != "Jenkins" {
		t.Errorf("StateChange.Provider = %q, want %q", change.Provider, "Jenkins")
	}
	if change.State != StateHealthy {
		t.Errorf("StateChange.State = %v, want %v", change.State, StateHealthy)
	}
	if change.Summary.Succeeded != 1 {
		t.Errorf("StateChange.Summary.Succeeded = %d, want 1", change.Summary.Succeeded)
	}
	if change.Err != nil {
		t.Errorf("StateChange.Err = %v, want nil", change.Err)
	}

	// visual lifecycle: power-on transition, the healthy state, and the
	// terminal shutdown transition before the signal goes dark
	states := emitter.seen()
	if len(states) < 3 {
		t.Fatalf("emitter saw %d states, want at least 3: %v", len(states), states)
	}
	if states[0] != StateStarting {
		t.Errorf("first emitted state = %v, want %v", states[0], StateStarting)
	}
	if states[1] != StateHealthy {
		t.Errorf("second emitted state = %v, want %v", states[1], StateHealthy)
	}
	if states[len(states)-1] != StateShutdown {
		t.Errorf("last emitted state = %v, want %v", states[len(states)-1], StateShutdown)
	}
	if emitter.offCount() != 1 {
		t.Errorf("Off() called %d times, want 1", emitter.offCount())
	}
}

func TestStart_FetchErrorBecomesUnreachable(t *testing.T) {
	client := &fakeClient{err: errors.New("connection refused")}
	emitter := &fakeEmitter{}

	p, err := NewProvider("Jenkins", client, emitter, WithInterval(time.Second))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	var cycles atomicCounter
	var mu sync.Mutex
	var lastChange StateChange

	bl, err := New(
		WithProvider(p),
		WithLogger(testLogger()),
		WithStateCallback(func(c StateChange) {
			mu.Lock()
			lastChange = c
			mu.Unlock()
			cycles.inc()
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errChan := startForTest(bl, ctx)

	waitForChanges(t, &cycles, 1, 5*time.Second)
	cancel()

	if err := <-errChan; err != nil {
		t.Fatalf("Start() error = %v, want nil (fetch errors are absorbed)", err)
	}

	mu.Lock()
	change := lastChange
	mu.Unlock()

	if change.State != StateUnreachable {
		t.Errorf("StateChange.State = %v, want %v", change.State, StateUnreachable)
	}
	if change.Err == nil {
		t.Error("StateChange.Err = nil, want the fetch error")
	}

	snaps := bl.Snapshots()
	if len(snaps) != 1 {
		t.Fatalf("len(Snapshots()) = %d, want 1", len(snaps))
	}
	if snaps[0].State != StateUnreachable {
		t.Errorf("Snapshot.State = %v, want %v", snaps[0].State, StateUnreachable)
	}
	if snaps[0].Err == nil {
		t.Error("Snapshot.Err = nil, want the fetch error")
	}

	snap, ok := bl.Snapshot("Jenkins")
	if !ok {
		t.Fatal("Snapshot(Jenkins) ok = false, want true after a completed cycle")
	}
	if snap.State != StateUnreachable {
		t.Errorf("Snapshot(Jenkins).State = %v, want %v", snap.State, StateUnreachable)
	}
	if snap.Err == nil {
		t.Error("Snapshot(Jenkins).Err = nil, want the fetch error")
	}
	if _, ok := bl.Snapshot("nonexistent"); ok {
		t.Error("Snapshot(nonexistent) ok = true, want false")
	}
}

func TestStart_BudgetExceededStopsEverything(t *testing.T) {
	p, err := NewProvider("Exploding", panicClient{}, &fakeEmitter{}, WithInterval(time.Second))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	bl, err := New(
		WithProvider(p),
		WithFailureBudget(1),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	errChan := startForTest(bl, context.Background())

	select {
	case err := <-errChan:
		if err == nil {
			t.Fatal("Start() error = nil, want budget-exceeded error")
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Start() did not return after budget exhaustion")
	}
}

func TestStart_CallbackPanicDoesNotCrash(t *testing.T) {
	client := &fakeClient{records: []BuildRecord{rec(StatusSuccess)}}

	p, err := NewProvider("Jenkins", client, &fakeEmitter{}, WithInterval(time.Second))
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	var cycles atomicCounter
	bl, err := New(
		WithProvider(p),
		WithLogger(testLogger()),
		WithStateCallback(func(c StateChange) {
			panic("observer bug")
		}),
		WithStateCallback(func(c StateChange) {
			cycles.inc()
		}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	errChan := startForTest(bl, ctx)

	// the second callback still runs after the first one panicked
	waitForChanges(t, &cycles, 1, 5*time.Second)
	cancel()

	if err := <-errChan; err != nil {
		t.Fatalf("Start() error = %v, want nil", err)
	}
}

func TestStart_CancelledContextReturnsImmediately(t *testing.T) {
	bl, err := New(
		WithProvider(testProvider(t, "Jenkins")),
		WithLogger(testLogger()),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := bl.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v, want nil for pre-cancelled context", err)
	}
}

func TestSnapshots_EmptyBeforeFirstCycle(t *testing.T) {
	bl, err := New(WithProvider(testProvider(t, "Jenkins")))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if snaps := bl.Snapshots(); len(snaps) != 0 {
		t.Errorf("Snapshots() = %v, want empty before polling starts", snaps)
	}
	if _, ok := bl.Snapshot("Jenkins"); ok {
		t.Error("Snapshot(Jenkins) ok = true, want false before polling starts")
	}
}
