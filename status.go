package buildlight

// BuildStatus is the normalized outcome of a single build item as reported
// by a provider.
//
// BuildStatus is a string type so that values serialize cleanly in logs and
// JSON while keeping type safety through the defined constants. Source
// clients are responsible for mapping provider-specific wire values onto
// these constants; the core never inspects raw provider responses.
type BuildStatus string

const (
	// StatusSuccess indicates the build completed and passed.
	StatusSuccess BuildStatus = "success"

	// StatusFailure indicates the build completed and failed.
	StatusFailure BuildStatus = "failure"

	// StatusUnstable indicates the build completed but is unreliable
	// (e.g., passing with test failures). It counts as a failure when
	// aggregating.
	StatusUnstable BuildStatus = "unstable"

	// StatusBuilding indicates the build is still in progress.
	StatusBuilding BuildStatus = "building"

	// StatusUnknown indicates the provider reported a status outside the
	// normalized vocabulary (aborted, queued, cancelled, ...).
	StatusUnknown BuildStatus = "unknown"
)

// String returns the string representation of the status.
// This implements the fmt.Stringer interface.
func (s BuildStatus) String() string {
	return string(s)
}

// VisualState is the coarse health classification emitted to the signaling
// device for one provider's current aggregate.
//
// The first six values are derived deterministically from an
// [AggregationSummary] by an [Aggregator]. [StateStarting] and
// [StateShutdown] are lifecycle transitions emitted by the polling worker
// itself, never produced by aggregation.
type VisualState string

const (
	// StateHealthy indicates all confirmed results passed and confirmed
	// passes outnumber indeterminate results.
	StateHealthy VisualState = "healthy"

	// StateDegraded indicates a mostly-passing aggregate: some failures
	// outweighed by successes, or successes diluted by indeterminates.
	StateDegraded VisualState = "degraded"

	// StateUnhealthy indicates confirmed failures dominate.
	StateUnhealthy VisualState = "unhealthy"

	// StateMixed indicates simultaneous confirmed passes and confirmed
	// failures on a provider that reports per-platform aggregates.
	StateMixed VisualState = "mixed"

	// StateUnreachable indicates no usable results: the provider returned
	// nothing, or nothing could be retrieved.
	StateUnreachable VisualState = "unreachable"

	// StateAmbiguous indicates results were retrieved but nothing
	// confirms either success or failure.
	StateAmbiguous VisualState = "ambiguous"

	// StateStarting is the power-on transition emitted once when a
	// polling worker begins its loop.
	StateStarting VisualState = "starting"

	// StateShutdown is the terminal transition emitted when a polling
	// worker observes the stop signal, just before the signal goes dark.
	StateShutdown VisualState = "shutdown"
)

// String returns the string representation of the state.
// This implements the fmt.Stringer interface.
func (s VisualState) String() string {
	return string(s)
}
