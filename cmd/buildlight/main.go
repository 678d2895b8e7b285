// Package main is the entry point for the buildlight CLI.
//
// Buildlight can be run either as a library (SDK) or as a standalone
// binary with YAML configuration. This CLI provides the standalone
// binary approach.
//
// Usage:
//
//	buildlight run -c config.yaml      # Start polling
//	buildlight validate -c config.yaml # Validate configuration
//	buildlight version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set by GoReleaser at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "buildlight",
	Short: "A fault-tolerant CI build status light",
	Long: `Buildlight polls CI providers and drives a visual build signal.

It polls Jenkins, TeamCity, and Unity Cloud Build at configurable
intervals, aggregates per-job build results into a single state per
provider, and renders that state as a colored signal. Provider failures
are isolated: one crashing poller never takes down the others.

Quick start:
  1. Create a config file (buildlight.yaml)
  2. Run: buildlight run -c buildlight.yaml

Example config:
  poll_interval: 10s
  providers:
    - name: Jenkins
      type: jenkins
      url: https://jenkins.example.com
      username: ${JENKINS_USER}
      password: ${JENKINS_PASS}`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this buildlight binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("buildlight %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	// Register subcommands with root
	rootCmd.AddCommand(versionCmd)
}
