// Package supervisor runs long-lived workers under failure isolation with
// a shared failure budget.
//
// Each worker body executes inside a panic boundary. An abnormal
// termination (panic or error return) is counted against the process-wide
// [Budget] and the body is restarted; once the budget is exceeded in any
// one worker, the supervisor cancels the shared context so every worker
// observes the stop signal and exits. A nil return from a body is a
// deliberate, clean stop.
//
// This package is internal and not part of the public API.
package supervisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"

	"github.com/google/uuid"
)

// Worker is a named unit of work run under failure isolation.
//
// Body must honor ctx: returning nil after observing cancellation is the
// clean-exit path. Any panic or non-nil error is treated as an abnormal
// termination, counted against the budget, and restarted.
type Worker struct {
	// Name identifies the worker in logs and fatal errors.
	Name string

	// Body is the worker's long-running loop.
	Body func(ctx context.Context) error
}

// Supervisor owns a set of workers and the failure budget they share.
type Supervisor struct {
	budget *Budget
	logger *slog.Logger
}

// New creates a [Supervisor] using the given shared budget.
func New(budget *Budget, logger *slog.Logger) *Supervisor {
	return &Supervisor{
		budget: budget,
		logger: logger,
	}
}

// Run starts one goroutine per worker and blocks until every worker has
// terminated.
//
// Each goroutine loops: check the budget, run the body inside the panic
// boundary, and either stop cleanly (nil return), or count the failure and
// restart. When any worker finds the budget exceeded it cancels the
// context shared by all workers, forcing a global stop; sibling workers
// observe the cancellation within one of their own poll cycles and exit
// cleanly. Run returns the joined fatal errors of workers that stopped
// because the budget was exceeded, or nil if every worker stopped cleanly.
//
// Cancelling the parent ctx (e.g., from a signal handler) is the
// cooperative-stop entry point: workers observe it the same way and Run
// returns nil once they have all joined.
func (s *Supervisor) Run(ctx context.Context, workers []Worker) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for _, w := range workers {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			if err := s.supervise(runCtx, cancel, w); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
		}(w)
	}

	wg.Wait()
	return errors.Join(errs...)
}

// supervise is the restart loop for a single worker.
func (s *Supervisor) supervise(ctx context.Context, cancel context.CancelFunc, w Worker) error {
	for {
		if s.budget.Exceeded() {
			cancel() // force a global stop
			err := fmt.Errorf("worker %s: failure budget exceeded (%d failures, %d allowed)",
				w.Name, s.budget.Count(), s.budget.Threshold())
			s.logger.Error("failure budget exceeded, forcing stop",
				"worker", w.Name,
				"failures", s.budget.Count(),
				"allowed", s.budget.Threshold(),
			)
			return err
		}

		err := s.runIsolated(ctx, w)
		if err == nil {
			s.logger.Info("worker terminated cleanly", "worker", w.Name)
			return nil
		}

		count := s.budget.Increment()
		s.logger.Error("worker terminated abnormally, restarting",
			"worker", w.Name,
			"error", err,
			"failure_count", count,
		)
	}
}

// runIsolated invokes the worker body behind a panic boundary.
//
// A panic is converted into an error carrying a correlation ID; the full
// stack trace is logged server-side under the same ID so the restart
// decision stays observable without leaking stack traces into errors.
func (s *Supervisor) runIsolated(ctx context.Context, w Worker) (err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			s.logger.Error("worker panic",
				"worker", w.Name,
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(debug.Stack()),
			)
			err = fmt.Errorf("worker %s panicked (correlation_id: %s)", w.Name, correlationID)
		}
	}()
	return w.Body(ctx)
}
