package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/futurice/buildlight"
	"github.com/futurice/buildlight/config"
	"github.com/spf13/cobra"
)

const (
	shutdownTimeout = 10 * time.Second
)

// newLogger creates a JSON logger for CLI use.
func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// runCmd starts polling the configured providers.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start polling providers",
	Long: `Start polling the configured CI providers.

Buildlight will:
  - Load configuration from the specified YAML file
  - Run the power-on signal sequence for each provider
  - Poll each provider on its own schedule and drive its signal

Polling runs until interrupted (Ctrl+C) or a SIGTERM is received, or
until the failure budget is exhausted.

Example:
  buildlight run -c config.yaml
  buildlight run --config /etc/buildlight/config.yaml`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := newLogger()

	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger.Info("config loaded",
		"providers", len(cfg.Providers),
		"emitter", cfg.Emitter,
	)
	logger.Info("starting pollers",
		"poll_interval", cfg.PollInterval.Duration().String(),
		"failure_budget", cfg.FailureBudget(),
	)

	// convert config to SDK providers
	providers, err := config.BuildProviders(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to build providers: %w", err)
	}

	bl, err := buildlight.New(
		buildlight.WithProviders(providers...),
		buildlight.WithFailureBudget(cfg.FailureBudget()),
		buildlight.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("failed to create buildlight: %w", err)
	}

	// set up context with signal handling - cancel on SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// start polling - blocks until context cancelled
	errChan := make(chan error, 1)
	go func() {
		errChan <- bl.Start(ctx)
	}()

	// wait for pollers to finish
	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("poller error: %w", err)
		}
		logger.Info("shutdown complete")
		return nil

	case <-ctx.Done():
		// signal received, wait for graceful shutdown with timeout
		select {
		case err := <-errChan:
			if err != nil {
				return fmt.Errorf("poller error: %w", err)
			}
			logger.Info("shutdown complete")
			return nil
		case <-time.After(shutdownTimeout):
			logger.Warn("shutdown timed out",
				"timeout", shutdownTimeout.String(),
				"action", "forcing exit",
			)
			return nil
		}
	}
}
