package buildlight

import (
	"time"

	"github.com/futurice/buildlight/internal/poller"
)

// NextInterval computes the next poll interval from a rate-limit hint.
//
// Without a hint the current interval is returned unchanged. With a hint,
// the remaining quota is spread evenly across the time left until the
// window resets; the result never drops below floor, so an aggressive
// hint cannot push a poller into a busy loop, and a zero remaining quota
// waits out the whole window.
//
// This is the computation applied automatically for providers configured
// with [WithAdaptiveInterval]; it is exported so custom polling setups
// can reuse it.
func NextInterval(current time.Duration, hint *RateLimitHint, now time.Time, floor time.Duration) time.Duration {
	if hint == nil {
		return current
	}
	return poller.NextInterval(current, &poller.Hint{
		Remaining: hint.Remaining,
		ResetAt:   hint.ResetAt,
	}, now, floor)
}
