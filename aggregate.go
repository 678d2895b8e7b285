package buildlight

// Aggregator reduces one poll cycle's records to a visual state and the
// counts it was derived from.
//
// Aggregators are pure, total functions: the same records always produce
// the same state, and every input (including the empty slice) produces a
// result rather than an error. This makes the decision tables easy to test
// and audit in one place.
//
// Built-in aggregators: [DefaultAggregator], [PlatformAggregator],
// [SingleAggregator]. All of them share one conservatism rule:
// indeterminate results are never promoted to [StateHealthy].
type Aggregator func(records []BuildRecord) (VisualState, AggregationSummary)

// Summarize counts records into an [AggregationSummary].
//
// Every aggregator uses this single counting pass, so the Succeeded +
// Failed + Indeterminate == Total invariant holds uniformly. Unstable
// builds count as failures; unretrieved records count as indeterminate.
func Summarize(records []BuildRecord) AggregationSummary {
	var sum AggregationSummary
	for _, r := range records {
		sum.Total++
		switch {
		case !r.Retrieved:
			sum.Indeterminate++
		case r.Status == StatusSuccess:
			sum.Succeeded++
		case r.Status == StatusFailure || r.Status == StatusUnstable:
			sum.Failed++
		default:
			sum.Indeterminate++
		}
	}
	return sum
}

// DefaultAggregator is the canonical decision table for providers that
// report many independent build items (e.g., every job on a Jenkins
// controller).
//
// The rules are evaluated in precedence order; the first match wins:
//
//  1. No records, or nothing retrieved: [StateUnreachable].
//  2. No successes: [StateAmbiguous] when indeterminates outnumber
//     failures or there are no failures at all, otherwise [StateUnhealthy].
//  3. Successes and no failures: [StateHealthy] when successes outnumber
//     indeterminates, otherwise [StateDegraded].
//  4. Both successes and failures: [StateDegraded] when successes
//     strictly outnumber failures, otherwise [StateUnhealthy]. Equal
//     counts resolve to [StateUnhealthy].
//
// Confirmed failures dominate confirmed successes only when they are the
// majority signal; indeterminate results are treated conservatively.
var DefaultAggregator Aggregator = func(records []BuildRecord) (VisualState, AggregationSummary) {
	sum := Summarize(records)

	if sum.Total == 0 || noneRetrieved(records) {
		return StateUnreachable, sum
	}

	switch {
	case sum.Succeeded == 0:
		if sum.Indeterminate > sum.Failed || sum.Failed == 0 {
			return StateAmbiguous, sum
		}
		return StateUnhealthy, sum

	case sum.Failed == 0:
		if sum.Succeeded > sum.Indeterminate {
			return StateHealthy, sum
		}
		return StateDegraded, sum

	case sum.Succeeded > sum.Failed:
		return StateDegraded, sum

	default:
		return StateUnhealthy, sum
	}
}

// PlatformAggregator is a narrower variant for providers that report one
// aggregate build per platform target (e.g., a cloud build service with an
// iOS and an Android target).
//
// With only a handful of records, any unretrieved item already means the
// provider could not be observed as a whole, so:
//
//  1. No records, or any record unretrieved: [StateUnreachable].
//  2. Indeterminates outnumbering all confirmed results: [StateUnreachable].
//  3. Successes only: [StateHealthy].
//  4. Failures only: [StateUnhealthy].
//  5. Both present: [StateMixed].
//  6. Nothing confirmed: [StateAmbiguous].
//
// This is the only built-in aggregator that produces [StateMixed]: with
// per-platform aggregates, one platform red and one green is a distinct
// condition rather than a majority question.
var PlatformAggregator Aggregator = func(records []BuildRecord) (VisualState, AggregationSummary) {
	sum := Summarize(records)

	if sum.Total == 0 || anyUnretrieved(records) {
		return StateUnreachable, sum
	}

	switch {
	case sum.Indeterminate > sum.Succeeded+sum.Failed:
		return StateUnreachable, sum
	case sum.Succeeded > 0 && sum.Failed == 0:
		return StateHealthy, sum
	case sum.Succeeded == 0 && sum.Failed > 0:
		return StateUnhealthy, sum
	case sum.Succeeded > 0 && sum.Failed > 0:
		return StateMixed, sum
	default:
		return StateAmbiguous, sum
	}
}

// SingleAggregator is the three-way switch for providers that report
// exactly one aggregate status (e.g., the latest build on a TeamCity
// server): success is [StateHealthy], failure is [StateUnhealthy], and
// anything else (including an unretrieved record) is [StateUnreachable].
//
// Records beyond the first are ignored; such providers only ever emit one.
var SingleAggregator Aggregator = func(records []BuildRecord) (VisualState, AggregationSummary) {
	sum := Summarize(records)

	if sum.Total == 0 {
		return StateUnreachable, sum
	}

	r := records[0]
	switch {
	case !r.Retrieved:
		return StateUnreachable, sum
	case r.Status == StatusSuccess:
		return StateHealthy, sum
	case r.Status == StatusFailure || r.Status == StatusUnstable:
		return StateUnhealthy, sum
	default:
		return StateUnreachable, sum
	}
}

// noneRetrieved reports whether no record in the slice was retrieved.
func noneRetrieved(records []BuildRecord) bool {
	for _, r := range records {
		if r.Retrieved {
			return false
		}
	}
	return true
}

// anyUnretrieved reports whether at least one record was not retrieved.
func anyUnretrieved(records []BuildRecord) bool {
	for _, r := range records {
		if !r.Retrieved {
			return true
		}
	}
	return false
}
