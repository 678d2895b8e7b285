package poller

import (
	"context"
	"log/slog"
	"time"
)

// defaultShutdownHold is how long the shutdown transition stays visible
// before the signal goes dark. Long enough for one glow-on/glow-off cycle
// on a physical lamp.
const defaultShutdownHold = 1400 * time.Millisecond

// Worker runs the poll, aggregate, emit, sleep loop for one provider.
//
// A Worker owns no shared state: everything it carries between cycles (the
// current adaptive interval) lives in the stack frame of [Worker.Run], so a
// restart after an abnormal termination starts fresh with the configured
// interval. Workers are run under the supervisor's failure-isolation
// boundary; [Worker.Run] itself absorbs provider-level fetch failures and
// emit failures, so only genuinely unexpected faults escalate.
type Worker struct {
	provider ProviderInfo
	results  chan<- CycleResult
	logger   *slog.Logger

	// shutdownHold is overridable in tests to keep them fast.
	shutdownHold time.Duration
}

// NewWorker creates a [Worker] for the given provider.
//
// Cycle results are delivered on the results channel, which is shared by
// all workers and consumed by the orchestrator. A nil channel disables
// result delivery.
func NewWorker(provider ProviderInfo, results chan<- CycleResult, logger *slog.Logger) *Worker {
	return &Worker{
		provider:     provider,
		results:      results,
		logger:       logger,
		shutdownHold: defaultShutdownHold,
	}
}

// Run executes the polling loop until ctx is cancelled.
//
// The loop is strictly sequential within the worker: poll, emit, sleep.
// Cancellation is observed before each poll and during each sleep; on
// cancellation the worker emits the shutdown transition, holds it for one
// glow cycle, turns the signal off, and returns nil. A nil return is the
// clean-exit path the supervisor treats as a deliberate stop.
func (w *Worker) Run(ctx context.Context) error {
	w.emit(stateStarting)

	interval := w.provider.Interval
	floor := w.provider.Floor
	if floor == 0 {
		floor = w.provider.Interval
	}

	timer := time.NewTimer(interval)
	defer timer.Stop()

	for {
		if ctx.Err() != nil {
			return w.stop()
		}

		start := time.Now()
		records, hint, err := w.provider.Fetch(ctx)
		latency := time.Since(start)

		var (
			state string
			sum   Summary
		)
		if err != nil {
			// provider-level failure: absorbed, never escalated
			state = stateUnreachable
			w.logger.Warn("provider fetch failed",
				"provider", w.provider.Name,
				"error", err,
			)
		} else {
			state, sum = w.provider.Aggregate(records)
		}

		w.emit(state)
		w.report(ctx, CycleResult{
			Provider:  w.provider.Name,
			State:     state,
			Summary:   sum,
			Latency:   latency,
			CheckedAt: time.Now(),
			Err:       err,
		})

		if w.provider.Adaptive {
			interval = NextInterval(interval, hint, time.Now(), floor)
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(interval)

		select {
		case <-ctx.Done():
			return w.stop()
		case <-timer.C:
		}
	}
}

// stop performs the terminal visual transition and returns nil, the
// clean-exit signal consumed by the supervisor.
func (w *Worker) stop() error {
	w.emit(stateShutdown)
	time.Sleep(w.shutdownHold)
	if err := w.provider.Off(); err != nil {
		w.logger.Warn("signal off failed",
			"provider", w.provider.Name,
			"error", err,
		)
	}
	w.logger.Info("worker stopping", "provider", w.provider.Name)
	return nil
}

// emit pushes a state to the signal emitter. Emission failures are not
// retryable: the next cycle self-corrects, so they are logged and dropped.
func (w *Worker) emit(state string) {
	if err := w.provider.Emit(state); err != nil {
		w.logger.Warn("signal emit failed",
			"provider", w.provider.Name,
			"state", state,
			"error", err,
		)
	}
}

// report delivers a cycle result without blocking past cancellation.
func (w *Worker) report(ctx context.Context, result CycleResult) {
	if w.results == nil {
		return
	}
	select {
	case w.results <- result:
	case <-ctx.Done():
	}
}
