package main

import (
	"fmt"

	"github.com/futurice/buildlight/config"
	"github.com/spf13/cobra"
)

// validateCmd validates a config file without starting any pollers.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate a buildlight configuration file without starting any pollers.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  buildlight validate -c config.yaml
  buildlight validate --config /etc/buildlight/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	adaptive := 0
	for _, p := range cfg.Providers {
		if p.Adaptive {
			adaptive++
		}
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Poll interval:   %s\n", cfg.PollInterval.Duration())
	fmt.Printf("  Failure budget:  %d\n", cfg.FailureBudget())
	fmt.Printf("  Emitter:         %s\n", cfg.Emitter)
	fmt.Printf("  Providers:       %d (%d adaptive)\n", len(cfg.Providers), adaptive)

	return nil
}
