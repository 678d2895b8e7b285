package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/futurice/buildlight"
	"github.com/futurice/buildlight/internal/light"
	"github.com/futurice/buildlight/internal/sources"
)

// BuildProviders converts parsed configuration into SDK Provider
// objects.
//
// Each provider gets its own signal emitter. The emitter kind is shared
// across providers and comes from cfg.Emitter: terminal drivers all
// write to stdout, log drivers write through the given logger.
func BuildProviders(cfg *Config, logger *slog.Logger) ([]buildlight.Provider, error) {
	providers := make([]buildlight.Provider, 0, len(cfg.Providers))

	for i, pc := range cfg.Providers {
		p, err := buildProvider(cfg, pc, logger)
		if err != nil {
			return nil, fmt.Errorf("providers[%d] (%s): %w", i, pc.Name, err)
		}
		providers = append(providers, p)
	}

	return providers, nil
}

// buildProvider converts a single ProviderConfig to an SDK Provider.
func buildProvider(cfg *Config, pc ProviderConfig, logger *slog.Logger) (buildlight.Provider, error) {
	client, err := buildClient(pc, logger)
	if err != nil {
		return buildlight.Provider{}, err
	}

	emitter := light.NewStateEmitter(buildDriver(cfg, pc, logger))

	opts := []buildlight.ProviderOption{
		buildlight.WithAggregator(aggregatorFor(pc.Type)),
	}

	// provider interval overrides the global one
	interval := cfg.PollInterval
	if pc.Interval != 0 {
		interval = pc.Interval
	}
	opts = append(opts, buildlight.WithInterval(interval.Duration()))

	if pc.Adaptive {
		opts = append(opts, buildlight.WithAdaptiveInterval())
	}

	return buildlight.NewProvider(pc.Name, client, emitter, opts...)
}

// buildClient constructs the source client for a provider type.
// Validation has already checked that Type is one of the known values.
func buildClient(pc ProviderConfig, logger *slog.Logger) (buildlight.SourceClient, error) {
	switch pc.Type {
	case TypeJenkins:
		return sources.NewJenkins(pc.URL, pc.Username, pc.Password, logger), nil
	case TypeTeamCity:
		return sources.NewTeamCity(pc.URL, pc.Username, pc.Password), nil
	case TypeUnityCloud:
		return sources.NewUnityCloud(pc.URL, pc.APIToken, pc.Targets, logger), nil
	default:
		return nil, fmt.Errorf("unknown provider type %q", pc.Type)
	}
}

// buildDriver constructs the signal driver selected by cfg.Emitter.
func buildDriver(cfg *Config, pc ProviderConfig, logger *slog.Logger) light.Driver {
	if cfg.Emitter == EmitterLog {
		return light.NewLogDriver(pc.Name, logger)
	}
	return light.NewTerminalDriver(pc.Name, os.Stdout)
}

// aggregatorFor selects the aggregation policy matching a provider
// type's reporting shape. TeamCity is polled for a single latest build,
// Unity Cloud reports per build target, Jenkins reports per job.
func aggregatorFor(providerType string) buildlight.Aggregator {
	switch providerType {
	case TypeTeamCity:
		return buildlight.SingleAggregator
	case TypeUnityCloud:
		return buildlight.PlatformAggregator
	default:
		return buildlight.DefaultAggregator
	}
}
