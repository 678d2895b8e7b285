// Package poller implements the per-provider polling loop.
//
// Each provider gets one [Worker] running a strictly sequential poll,
// aggregate, emit, sleep cycle until its context is cancelled. Workers
// deliver per-cycle results over a shared channel and absorb provider-level
// fetch failures into an unreachable state; they are designed to be run
// under the supervisor's failure-isolation boundary.
//
// The package also holds the adaptive interval computation
// ([NextInterval]) used by rate-limited providers.
//
// This package is internal and not part of the public API.
package poller
