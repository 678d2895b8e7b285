package poller

import "time"

// minWindow guards the division when a rate-limit window has already
// passed (or the remote clock is skewed).
const minWindow = time.Second

// NextInterval computes the next poll interval from a rate-limit hint.
//
// Without a hint the current interval is returned unchanged. With a hint,
// the remaining request quota is spread evenly across the time left until
// the window resets: window/remaining seconds per request. The result is
// clamped to floor so an aggressive hint can never push the worker into a
// busy loop, and a zero remaining quota waits out the whole window.
func NextInterval(current time.Duration, hint *Hint, now time.Time, floor time.Duration) time.Duration {
	if hint == nil {
		return current
	}

	window := hint.ResetAt.Sub(now)
	if window < minWindow {
		window = minWindow
	}

	candidate := window
	if hint.Remaining > 0 {
		candidate = window / time.Duration(hint.Remaining)
	}

	if candidate < floor {
		return floor
	}
	return candidate
}
