package buildlight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/futurice/buildlight/internal/poller"
	"github.com/futurice/buildlight/internal/store"
	"github.com/futurice/buildlight/internal/supervisor"
)

const defaultFailureBudget = 5

// BuildLight is the supervisor-backed orchestrator for provider polling.
//
// BuildLight runs one long-lived polling worker per provider, isolates
// worker failures behind a panic boundary, restarts failed workers under a
// shared failure budget, and joins every worker at shutdown. It is created
// with [New] using functional options and started with [BuildLight.Start].
//
// The typical lifecycle is:
//
//	bl, err := buildlight.New(buildlight.WithProvider(p))
//	if err != nil {
//	    slog.Error("failed to create buildlight", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	bl.Start(ctx) // blocks until every worker has stopped
//
// Cancel the context to trigger cooperative shutdown: every worker emits
// its shutdown transition, turns its signal off, and exits within one poll
// cycle.
type BuildLight struct {
	providers      []Provider
	failureBudget  uint32
	logger         *slog.Logger
	stateCallbacks []func(StateChange)
	snapshots      *store.MemoryStore
}

// New creates a [BuildLight] instance with the given options.
//
// At least one provider must be configured via [WithProvider] or
// [WithProviders], and provider names must be unique. The failure budget
// defaults to 5 abnormal terminations process-wide.
func New(opts ...Option) (*BuildLight, error) {
	cfg := &blConfig{
		failureBudget: defaultFailureBudget,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	if len(cfg.providers) == 0 {
		return nil, errors.New("at least one provider is required")
	}

	// provider names key the snapshot store and the supervisor's logs
	seen := make(map[string]bool, len(cfg.providers))
	for _, p := range cfg.providers {
		if seen[p.name] {
			return nil, fmt.Errorf("duplicate provider name: %q", p.name)
		}
		seen[p.name] = true
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &BuildLight{
		providers:      cfg.providers,
		failureBudget:  cfg.failureBudget,
		logger:         logger,
		stateCallbacks: cfg.stateCallbacks,
		snapshots:      store.NewMemoryStore(),
	}, nil
}

// Start runs every provider's polling worker under the supervisor.
//
// Start is a blocking call. It returns when all workers have reached their
// stopped state, which happens either because the context was cancelled
// (cooperative shutdown) or because the shared failure budget was exceeded
// (fail-fast shutdown). In the latter case the returned error names the
// workers that tripped the budget; cooperative shutdown returns nil.
func (bl *BuildLight) Start(ctx context.Context) error {
	bl.logger.Info("buildlight starting",
		"provider_count", len(bl.providers),
		"failure_budget", bl.failureBudget,
	)

	if ctx.Err() != nil {
		return nil
	}

	results := make(chan poller.CycleResult, len(bl.providers))

	workers := make([]supervisor.Worker, 0, len(bl.providers))
	for _, p := range bl.providers {
		w := poller.NewWorker(bl.toPollerProvider(p), results, bl.logger)
		workers = append(workers, supervisor.Worker{
			Name: p.name,
			Body: w.Run,
		})
	}

	// consume cycle results until the workers are joined and the
	// channel is closed
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for result := range results {
			bl.consume(result)
		}
	}()

	sup := supervisor.New(supervisor.NewBudget(bl.failureBudget), bl.logger)
	err := sup.Run(ctx, workers)

	close(results)
	wg.Wait()

	bl.logger.Info("buildlight stopped")
	return err
}

// Providers returns a copy of the configured providers.
func (bl *BuildLight) Providers() []Provider {
	cp := make([]Provider, len(bl.providers))
	copy(cp, bl.providers)
	return cp
}

// Snapshot returns the most recent observed state of the named provider.
//
// The second return is false until the provider's first poll cycle
// completes, or when no provider with that name is configured.
func (bl *BuildLight) Snapshot(provider string) (Snapshot, bool) {
	s, ok := bl.snapshots.Get(provider)
	if !ok {
		return Snapshot{}, false
	}
	return storeToSnapshot(s), true
}

// Snapshots returns the most recent observed state of every provider.
//
// The slice is empty until the first poll cycles complete. Order is not
// guaranteed.
func (bl *BuildLight) Snapshots() []Snapshot {
	stored := bl.snapshots.GetAll()
	snaps := make([]Snapshot, 0, len(stored))
	for _, s := range stored {
		snaps = append(snaps, storeToSnapshot(s))
	}
	return snaps
}

// consume applies one cycle result: store update first, then callbacks,
// then logging (DEBUG level for uneventful cycles to reduce noise).
func (bl *BuildLight) consume(result poller.CycleResult) {
	bl.snapshots.Update(cycleToStore(result))

	if len(bl.stateCallbacks) > 0 {
		change := cycleToStateChange(result)
		for _, cb := range bl.stateCallbacks {
			invokeCallbackSafe(cb, change, bl.logger)
		}
	}

	logAttrs := []any{
		"provider", result.Provider,
		"state", result.State,
		"total", result.Summary.Total,
		"succeeded", result.Summary.Succeeded,
		"failed", result.Summary.Failed,
		"indeterminate", result.Summary.Indeterminate,
		"latency_ms", result.Latency.Milliseconds(),
	}
	if result.Err != nil {
		bl.logger.Warn("poll cycle completed with error", append(logAttrs, "error", result.Err.Error())...)
	} else {
		bl.logger.Debug("poll cycle completed", logAttrs...)
	}
}

// toPollerProvider wraps a Provider's typed API into the poller-internal
// closures. The poller package works with string states to avoid a
// circular dependency on this package.
func (bl *BuildLight) toPollerProvider(p Provider) poller.ProviderInfo {
	aggregator := p.aggregator
	if aggregator == nil {
		aggregator = DefaultAggregator
	}

	client := p.client
	emitter := p.emitter

	return poller.ProviderInfo{
		Name: p.name,
		Fetch: func(ctx context.Context) ([]poller.Record, *poller.Hint, error) {
			records, hint, err := client.Fetch(ctx)
			return toPollerRecords(records), toPollerHint(hint), err
		},
		Aggregate: func(records []poller.Record) (string, poller.Summary) {
			state, sum := aggregator(fromPollerRecords(records))
			return state.String(), poller.Summary{
				Total:         sum.Total,
				Succeeded:     sum.Succeeded,
				Failed:        sum.Failed,
				Indeterminate: sum.Indeterminate,
			}
		},
		Emit: func(state string) error {
			return emitter.SetState(VisualState(state))
		},
		Off:      emitter.Off,
		Interval: p.interval,
		Adaptive: p.adaptive,
	}
}

// toPollerRecords converts public records to poller-internal records.
func toPollerRecords(records []BuildRecord) []poller.Record {
	out := make([]poller.Record, len(records))
	for i, r := range records {
		out[i] = poller.Record{
			Status:    r.Status.String(),
			Retrieved: r.Retrieved,
		}
	}
	return out
}

// fromPollerRecords converts poller-internal records back to the public
// form for aggregation.
func fromPollerRecords(records []poller.Record) []BuildRecord {
	out := make([]BuildRecord, len(records))
	for i, r := range records {
		out[i] = BuildRecord{
			Status:    BuildStatus(r.Status),
			Retrieved: r.Retrieved,
		}
	}
	return out
}

// toPollerHint converts a public rate-limit hint to the poller-internal
// form.
func toPollerHint(hint *RateLimitHint) *poller.Hint {
	if hint == nil {
		return nil
	}
	return &poller.Hint{
		Remaining: hint.Remaining,
		ResetAt:   hint.ResetAt,
	}
}

// cycleToStore converts a cycle result to its storage representation.
func cycleToStore(result poller.CycleResult) store.Snapshot {
	var errStr *string
	if result.Err != nil {
		s := result.Err.Error()
		errStr = &s
	}
	return store.Snapshot{
		Provider:      result.Provider,
		State:         result.State,
		Total:         result.Summary.Total,
		Succeeded:     result.Summary.Succeeded,
		Failed:        result.Summary.Failed,
		Indeterminate: result.Summary.Indeterminate,
		CheckedAt:     result.CheckedAt,
		Error:         errStr,
	}
}

// storeToSnapshot converts a stored snapshot to the public form.
func storeToSnapshot(s store.Snapshot) Snapshot {
	var err error
	if s.Error != nil {
		err = errors.New(*s.Error)
	}
	return Snapshot{
		Provider: s.Provider,
		State:    VisualState(s.State),
		Summary: AggregationSummary{
			Total:         s.Total,
			Succeeded:     s.Succeeded,
			Failed:        s.Failed,
			Indeterminate: s.Indeterminate,
		},
		CheckedAt: s.CheckedAt,
		Err:       err,
	}
}

// cycleToStateChange converts a cycle result to the public callback form.
func cycleToStateChange(result poller.CycleResult) StateChange {
	return StateChange{
		Provider: result.Provider,
		State:    VisualState(result.State),
		Summary: AggregationSummary{
			Total:         result.Summary.Total,
			Succeeded:     result.Summary.Succeeded,
			Failed:        result.Summary.Failed,
			Indeterminate: result.Summary.Indeterminate,
		},
		Latency:   result.Latency,
		CheckedAt: result.CheckedAt,
		Err:       result.Err,
	}
}

// invokeCallbackSafe calls a state callback with panic recovery.
// Panics are logged but do not propagate.
func invokeCallbackSafe(cb func(StateChange), change StateChange, logger *slog.Logger) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("state callback panicked",
				"panic", r,
				"provider", change.Provider,
			)
		}
	}()
	cb(change)
}
