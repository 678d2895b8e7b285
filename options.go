package buildlight

import (
	"errors"
	"log/slog"
)

// blConfig holds mutable state during BuildLight construction.
type blConfig struct {
	providers      []Provider
	failureBudget  uint32
	logger         *slog.Logger
	stateCallbacks []func(StateChange)
}

// Option is a function that configures a [BuildLight] instance during
// construction.
//
// Option implements the functional options pattern, allowing optional
// configuration to be passed to [New] in a type-safe, extensible way.
// Options return an error if validation fails.
//
// Built-in options: [WithProvider], [WithProviders], [WithFailureBudget],
// [WithLogger], [WithStateCallback].
type Option func(*blConfig) error

// WithProvider adds a single [Provider] to the polling set.
//
// Can be called multiple times to add multiple providers. At least one
// provider must be configured for [New] to succeed.
func WithProvider(p Provider) Option {
	return func(cfg *blConfig) error {
		cfg.providers = append(cfg.providers, p)
		return nil
	}
}

// WithProviders adds multiple [Provider] values to the polling set.
// Equivalent to calling [WithProvider] multiple times.
func WithProviders(providers ...Provider) Option {
	return func(cfg *blConfig) error {
		cfg.providers = append(cfg.providers, providers...)
		return nil
	}
}

// WithFailureBudget sets the number of abnormal worker terminations
// tolerated process-wide before every worker is forced to stop.
//
// The budget is shared: failures from all workers count against the same
// counter, and exceeding it in any one worker halts the whole process.
// Persistent failure in one source is deliberately treated as a signal to
// stop rather than run degraded indefinitely. Defaults to 5.
//
// A budget of n tolerates n abnormal terminations; the n+1th forces the
// stop.
func WithFailureBudget(n uint32) Option {
	return func(cfg *blConfig) error {
		cfg.failureBudget = n
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the BuildLight instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *blConfig) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}

// WithStateCallback registers a function called after every completed
// poll cycle.
//
// The callback receives a [StateChange] describing the cycle. Multiple
// callbacks may be registered; they execute in registration order from a
// single goroutine, after the snapshot store has been updated.
//
// Callbacks must be non-blocking; long-running work should be dispatched
// to a separate goroutine. Panics within callbacks are recovered and
// logged; they never crash the pollers.
//
// Example:
//
//	bl, err := buildlight.New(
//	    buildlight.WithProvider(p),
//	    buildlight.WithStateCallback(func(c buildlight.StateChange) {
//	        if c.State == buildlight.StateUnhealthy {
//	            notifyChannel(c.Provider)
//	        }
//	    }),
//	)
//
// Nil callbacks are silently ignored.
func WithStateCallback(cb func(StateChange)) Option {
	return func(cfg *blConfig) error {
		if cb == nil {
			return nil
		}
		cfg.stateCallbacks = append(cfg.stateCallbacks, cb)
		return nil
	}
}
