package buildlight

import "time"

// BuildRecord is one build item's contribution to a provider's aggregate.
//
// Retrieved is false when the item's status could not be fetched (network
// or parse failure on that item). Unretrieved records still count toward
// the aggregate as indeterminate outcomes; they are never dropped.
type BuildRecord struct {
	// Status is the normalized build outcome. Meaningless when
	// Retrieved is false.
	Status BuildStatus

	// Retrieved reports whether the status was actually fetched.
	Retrieved bool
}

// AggregationSummary holds the per-cycle counts behind a [VisualState].
//
// Invariant: Succeeded + Failed + Indeterminate == Total. Indeterminate
// covers statuses that are neither confirmed success nor confirmed failure
// (building, unknown) plus every unretrieved record.
type AggregationSummary struct {
	// Total is the number of records considered.
	Total uint

	// Succeeded is the number of records with [StatusSuccess].
	Succeeded uint

	// Failed is the number of records with [StatusFailure] or
	// [StatusUnstable].
	Failed uint

	// Indeterminate is the number of records with any other status,
	// plus unretrieved records.
	Indeterminate uint
}

// RateLimitHint is a server-supplied remaining-quota/reset-time pair.
//
// Providers that publish rate-limit response headers attach a hint to each
// fetch; the polling worker uses it to space requests so the remote budget
// is never exceeded. Absence of a hint leaves the poll interval unchanged.
type RateLimitHint struct {
	// Remaining is the number of requests left in the current window.
	Remaining uint

	// ResetAt is when the window resets and the quota is replenished.
	ResetAt time.Time
}

// StateChange describes the outcome of one completed poll cycle.
//
// StateChange values are delivered to callbacks registered via
// [WithStateCallback] after the snapshot store has been updated.
type StateChange struct {
	// Provider is the name of the provider that was polled.
	Provider string

	// State is the visual state derived from this cycle.
	State VisualState

	// Summary holds the counts the state was derived from.
	Summary AggregationSummary

	// Latency is the time taken by the provider fetch.
	Latency time.Duration

	// CheckedAt is the timestamp when the cycle completed.
	CheckedAt time.Time

	// Err is the provider-level fetch error, if any. A non-nil Err means
	// the whole fetch failed and State is [StateUnreachable].
	Err error
}

// Snapshot is the most recent observed state of one provider.
type Snapshot struct {
	// Provider is the provider's display name.
	Provider string

	// State is the last emitted visual state.
	State VisualState

	// Summary holds the counts behind State.
	Summary AggregationSummary

	// CheckedAt is the timestamp of the last completed cycle.
	CheckedAt time.Time

	// Err is the fetch error from the last cycle, if any.
	Err error
}
