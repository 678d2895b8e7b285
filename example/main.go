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
	"github.com/futurice/buildlight/internal/light"
	"github.com/futurice/buildlight/internal/sources"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	// start mock Jenkins (see mock_server.go)
	go StartMockJenkins(":9999")
	time.Sleep(100 * time.Millisecond)

	client := sources.NewJenkins("http://localhost:9999", "demo", "demo", logger)
	emitter := light.NewStateEmitter(light.NewTerminalDriver("Jenkins", os.Stdout))

	jenkins, err := buildlight.NewProvider("Jenkins", client, emitter,
		buildlight.WithInterval(5*time.Second),
	)
	if err != nil {
		slog.Error("failed to create provider", "error", err)
		os.Exit(1)
	}

	bl, err := buildlight.New(
		buildlight.WithProvider(jenkins),
		buildlight.WithLogger(logger),
		buildlight.WithStateCallback(func(c buildlight.StateChange) {
			if c.State == buildlight.StateUnhealthy {
				fmt.Printf("  !! %s went unhealthy (%d/%d failing)\n",
					c.Provider, c.Summary.Failed, c.Summary.Total)
			}
		}),
	)
	if err != nil {
		slog.Error("failed to create buildlight", "error", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("  ╔═══════════════════════════════════════════════════════╗")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Buildlight Demo                                     ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   A mock Jenkins on :9999 flips its job results       ║")
	fmt.Println("  ║   every 20-60s; watch the lamp line follow along.     ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ║   Press Ctrl+C to stop                                ║")
	fmt.Println("  ║                                                       ║")
	fmt.Println("  ╚═══════════════════════════════════════════════════════╝")
	fmt.Println()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := bl.Start(ctx); err != nil {
		slog.Error("buildlight stopped with error", "error", err)
		os.Exit(1)
	}
}
