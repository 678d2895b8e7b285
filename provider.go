package buildlight

import (
	"context"
	"errors"
	"time"
)

const defaultProviderInterval = 10 * time.Second

// SourceClient fetches the current build records from one provider.
//
// Implementations own the provider's wire format, credentials, and HTTP
// timeouts; the core only ever sees the normalized records. A non-nil
// error marks the whole fetch as failed and is absorbed by the polling
// worker into [StateUnreachable]; it never crashes the worker. Per-item
// failures should instead be reported as records with Retrieved=false.
//
// The returned hint, when non-nil, feeds adaptive interval control for
// providers configured with [WithAdaptiveInterval].
type SourceClient interface {
	Fetch(ctx context.Context) ([]BuildRecord, *RateLimitHint, error)
}

// SignalEmitter drives the visual signal for one provider.
//
// Emitter failures are fire-and-forget from the core's perspective: they
// are logged and the next cycle self-corrects. Implementations should be
// safe for sequential use from a single worker goroutine.
type SignalEmitter interface {
	// SetState displays the signal for the given state.
	SetState(state VisualState) error

	// Off turns the signal dark.
	Off() error
}

// Provider pairs a source client with the signal emitter it drives.
//
// Provider is immutable after creation via [NewProvider]. Options follow
// the functional options pattern: [WithInterval], [WithAdaptiveInterval],
// [WithAggregator].
type Provider struct {
	name       string
	client     SourceClient
	emitter    SignalEmitter
	interval   time.Duration
	adaptive   bool
	aggregator Aggregator
}

// Name returns the provider's display name.
func (p Provider) Name() string {
	return p.name
}

// Client returns the provider's source client.
func (p Provider) Client() SourceClient {
	return p.client
}

// Emitter returns the provider's signal emitter.
func (p Provider) Emitter() SignalEmitter {
	return p.emitter
}

// Interval returns the configured time between poll cycles.
// Defaults to 10 seconds if not set via [WithInterval].
func (p Provider) Interval() time.Duration {
	return p.interval
}

// Adaptive reports whether rate-limit-driven interval control is enabled.
func (p Provider) Adaptive() bool {
	return p.adaptive
}

// Aggregator returns the provider's aggregator. Returns nil if no custom
// aggregator was specified, in which case [DefaultAggregator] is applied.
func (p Provider) Aggregator() Aggregator {
	return p.aggregator
}

// NewProvider creates a [Provider] from a name, a source client, and the
// signal emitter it drives.
//
// Example:
//
//	p, err := buildlight.NewProvider("Jenkins", client, emitter,
//	    buildlight.WithInterval(10 * time.Second),
//	)
//
// Returns an error if the name is empty or either collaborator is nil.
func NewProvider(name string, client SourceClient, emitter SignalEmitter, opts ...ProviderOption) (Provider, error) {
	if name == "" {
		return Provider{}, errors.New("provider name cannot be empty")
	}
	if client == nil {
		return Provider{}, errors.New("provider source client cannot be nil")
	}
	if emitter == nil {
		return Provider{}, errors.New("provider signal emitter cannot be nil")
	}

	cfg := &providerConfig{
		interval: defaultProviderInterval,
	}
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return Provider{}, err
		}
	}

	return Provider{
		name:       name,
		client:     client,
		emitter:    emitter,
		interval:   cfg.interval,
		adaptive:   cfg.adaptive,
		aggregator: cfg.aggregator,
	}, nil
}
