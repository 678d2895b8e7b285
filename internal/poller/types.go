package poller

import (
	"context"
	"time"
)

// Visual state values the worker emits on its own, outside aggregation.
// These must match the public VisualState constants; the poller-internal
// types are decoupled from the root package to avoid circular dependencies.
const (
	stateStarting    = "starting"
	stateShutdown    = "shutdown"
	stateUnreachable = "unreachable"
)

// Record is the poller-internal form of a build record.
type Record struct {
	// Status is the normalized build status as a string.
	Status string

	// Retrieved reports whether the status was actually fetched.
	Retrieved bool
}

// Hint is the poller-internal form of a rate-limit hint.
type Hint struct {
	// Remaining is the number of requests left in the current window.
	Remaining uint

	// ResetAt is when the window resets.
	ResetAt time.Time
}

// Summary is the poller-internal form of an aggregation summary.
type Summary struct {
	Total         uint
	Succeeded     uint
	Failed        uint
	Indeterminate uint
}

// FetchFunc fetches one cycle's records from a provider, together with an
// optional rate-limit hint. A non-nil error means the whole fetch failed;
// the worker absorbs it into an unreachable state rather than crashing.
type FetchFunc func(ctx context.Context) ([]Record, *Hint, error)

// AggregateFunc reduces records to a visual state string and a summary.
type AggregateFunc func(records []Record) (string, Summary)

// EmitFunc pushes a visual state to the provider's signal emitter.
type EmitFunc func(state string) error

// ProviderInfo contains everything the worker needs to poll one provider.
//
// This is the poller-internal representation of a provider, decoupled from
// the public Provider type to avoid circular dependencies; the root package
// wraps its typed API into these closures.
type ProviderInfo struct {
	// Name is the provider's display name, used in logs and results.
	Name string

	// Fetch retrieves the current records.
	Fetch FetchFunc

	// Aggregate reduces records to a state. Must be total.
	Aggregate AggregateFunc

	// Emit pushes a state to the signal emitter. Emit failures are
	// logged and swallowed; the next cycle self-corrects.
	Emit EmitFunc

	// Off turns the signal emitter dark. Called once after the
	// shutdown transition.
	Off func() error

	// Interval is the configured time between poll cycles.
	Interval time.Duration

	// Adaptive enables rate-limit-driven interval adjustment.
	Adaptive bool

	// Floor is the minimum spacing between polls when Adaptive is set.
	// Zero means Interval is used as the floor.
	Floor time.Duration
}

// CycleResult is the outcome of one completed poll cycle, delivered to the
// orchestrator over the shared results channel.
type CycleResult struct {
	// Provider is the name of the polled provider.
	Provider string

	// State is the visual state emitted for this cycle.
	State string

	// Summary holds the counts behind State.
	Summary Summary

	// Latency is the time taken by the fetch.
	Latency time.Duration

	// CheckedAt is when the cycle completed.
	CheckedAt time.Time

	// Err is the provider-level fetch error, if any.
	Err error
}
