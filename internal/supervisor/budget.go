package supervisor

import "sync/atomic"

// Budget is the process-wide failure budget shared by every supervised
// worker.
//
// The counter is atomic: concurrent increments from simultaneously failing
// workers must never be lost, since a lost update would let the process
// keep restarting past its budget. The budget only ever grows; it is not
// reset for the lifetime of the process.
type Budget struct {
	count     atomic.Uint32
	threshold uint32
}

// NewBudget creates a [Budget] tolerating threshold abnormal terminations.
//
// The budget is exceeded strictly after threshold failures: the
// threshold+1th failure is the one that forces a global stop.
func NewBudget(threshold uint32) *Budget {
	return &Budget{threshold: threshold}
}

// Increment records one abnormal worker termination and returns the new
// process-wide count.
func (b *Budget) Increment() uint32 {
	return b.count.Add(1)
}

// Count returns the number of abnormal terminations recorded so far.
func (b *Budget) Count() uint32 {
	return b.count.Load()
}

// Threshold returns the configured tolerance.
func (b *Budget) Threshold() uint32 {
	return b.threshold
}

// Exceeded reports whether the recorded failures have passed the
// threshold.
func (b *Budget) Exceeded() bool {
	return b.count.Load() > b.threshold
}
