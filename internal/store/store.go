// Package store holds the latest observed state per provider.
//
// Only the most recent snapshot is kept for each provider; updates
// replace, never accumulate. The store exists so the orchestrator can
// answer "what is everything showing right now" without reaching into the
// workers.
//
// This package is internal and not part of the public API.
package store

import "time"

// Snapshot is the stored state of one provider after a completed poll
// cycle.
type Snapshot struct {
	// Provider is the provider's display name, used as the storage key.
	Provider string `json:"provider"`

	// State is the visual state emitted for the cycle.
	State string `json:"state"`

	// Total, Succeeded, Failed, and Indeterminate are the aggregation
	// counts the state was derived from.
	Total         uint `json:"total"`
	Succeeded     uint `json:"succeeded"`
	Failed        uint `json:"failed"`
	Indeterminate uint `json:"indeterminate"`

	// CheckedAt is the timestamp of the cycle.
	CheckedAt time.Time `json:"checked_at"`

	// Error is the fetch error message, if the cycle failed.
	Error *string `json:"error"`
}
