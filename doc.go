// Package buildlight turns the build status of several CI providers into
// one continuously updated visual health signal per provider.
//
// Each provider gets a long-lived polling worker that fetches the current
// build records, reduces them to a [VisualState] with a deterministic
// decision table, and pushes the state to a signal emitter (a terminal
// lamp, a structured log, or a physical light behind a custom
// [SignalEmitter]). The workers run under a supervisor that isolates
// failures, restarts crashed workers under a shared failure budget, and
// forces a coordinated stop once the budget is exceeded: persistent
// failure in one source deliberately halts the whole process rather than
// running degraded indefinitely.
//
// # Quick Start
//
// Create providers and start polling with graceful shutdown:
//
//	p, _ := buildlight.NewProvider("Jenkins", client, emitter)
//	bl, _ := buildlight.New(buildlight.WithProvider(p))
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	bl.Start(ctx) // blocks until every worker has stopped
//
// # Aggregation
//
// Aggregators reduce one cycle's records to a visual state. Three
// built-ins cover the common provider shapes:
//
//   - [DefaultAggregator]: canonical majority table for providers with
//     many independent build items
//   - [PlatformAggregator]: per-platform aggregates, produces [StateMixed]
//   - [SingleAggregator]: providers reporting exactly one status
//
// All of them share one conservatism rule: indeterminate results are
// never promoted to [StateHealthy].
//
// # Adaptive polling
//
// Providers created with [WithAdaptiveInterval] stretch their poll
// interval according to server-supplied [RateLimitHint] values, spreading
// the remaining request quota across the rate-limit window while never
// polling faster than the configured interval.
//
// # Architecture
//
// The package is the public SDK; the moving parts live under internal/:
//
//   - internal/poller: the per-provider poll, aggregate, emit, sleep loop
//   - internal/supervisor: failure isolation, restarts, the shared budget
//   - internal/sources: Jenkins, TeamCity, and Unity Cloud Build clients
//   - internal/light: signal emitters (terminal renderer, log driver)
//   - internal/store: latest-state snapshots per provider
//
// The config package and cmd/buildlight provide YAML configuration and a
// CLI around the SDK.
package buildlight
