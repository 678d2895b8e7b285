package buildlight

import (
	"errors"
	"time"
)

// providerConfig holds mutable state during provider construction.
type providerConfig struct {
	interval   time.Duration
	adaptive   bool
	aggregator Aggregator
}

// ProviderOption is a function that configures a [Provider] during
// construction.
//
// ProviderOption implements the functional options pattern, allowing
// optional configuration to be passed to [NewProvider] in a type-safe,
// extensible way. Options return an error if validation fails.
//
// Built-in options: [WithInterval], [WithAdaptiveInterval],
// [WithAggregator].
type ProviderOption func(*providerConfig) error

// WithInterval sets the time between poll cycles for this provider.
//
// The interval must be at least 1 second and at most 1 hour. Defaults to
// 10 seconds if not specified.
//
// Note: the interval is measured from the end of one cycle to the start
// of the next, so the effective period includes the fetch duration.
//
// Example:
//
//	p, err := buildlight.NewProvider("Unity Cloud", client, emitter,
//	    buildlight.WithInterval(time.Minute),
//	)
//
// Returns an error if the interval is outside these bounds.
func WithInterval(d time.Duration) ProviderOption {
	return func(cfg *providerConfig) error {
		if d < time.Second {
			return errors.New("interval must be at least 1 second")
		}
		if d > time.Hour {
			return errors.New("interval must not exceed 1 hour")
		}
		cfg.interval = d
		return nil
	}
}

// WithAdaptiveInterval enables rate-limit-driven interval control.
//
// When enabled, a [RateLimitHint] returned by the provider's fetch
// stretches the interval so the remaining request quota is spread across
// the time left in the rate-limit window. The configured interval acts as
// the floor: adaptation only ever slows polling down, never speeds it up.
// The interval resets to its configured value if the worker restarts.
//
// Example:
//
//	p, err := buildlight.NewProvider("Unity Cloud", client, emitter,
//	    buildlight.WithInterval(time.Minute),
//	    buildlight.WithAdaptiveInterval(),
//	)
func WithAdaptiveInterval() ProviderOption {
	return func(cfg *providerConfig) error {
		cfg.adaptive = true
		return nil
	}
}

// WithAggregator sets a custom [Aggregator] for this provider.
//
// If not specified, [DefaultAggregator] is used. Use
// [PlatformAggregator] for providers reporting one aggregate build per
// platform target, or [SingleAggregator] for providers reporting exactly
// one status.
//
// Example:
//
//	p, err := buildlight.NewProvider("Team City", client, emitter,
//	    buildlight.WithAggregator(buildlight.SingleAggregator),
//	)
//
// Returns an error if the aggregator is nil.
func WithAggregator(a Aggregator) ProviderOption {
	return func(cfg *providerConfig) error {
		if a == nil {
			return errors.New("aggregator cannot be nil")
		}
		cfg.aggregator = a
		return nil
	}
}
