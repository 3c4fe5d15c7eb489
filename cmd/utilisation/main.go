// Command utilisation reads a log of digit-reversed vibration readings and
// writes the percentage of readings at or above the trigger level.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/DynamicDevices/utilisation-example/internal/config"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "path to config file (defaults and UTILISATION_* env vars apply when empty)")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before the config; ignored when missing")
	watch := flag.Bool("watch", false, "keep running and recompute when the input or config file changes")
	flag.Parse()

	if err := loadEnvFile(*envFile); err != nil {
		slog.Error("failed to load env file", "path", *envFile, "err", err)
		return 1
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err)
		return 1
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)

	slog.Info("utilisation starting",
		"config", *configPath,
		"input", cfg.Input.Path,
		"output", cfg.Output.Path,
		"threshold", cfg.Threshold,
		"capacity", cfg.Capacity,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_, err = runOnce(ctx, cfg)
	if err != nil {
		slog.Error("run failed", "err", err)
	}

	if !cfg.Watch && !*watch {
		if err != nil {
			return 1
		}
		return 0
	}

	// Runs happen on this goroutine one after another; a run never overlaps
	// the next.
	if err := config.Watch(ctx, *configPath, cfg, func(updated *config.Config) {
		if _, err := runOnce(ctx, updated); err != nil {
			slog.Error("run failed", "err", err)
		}
	}); err != nil {
		slog.Error("watcher stopped", "err", err)
		return 1
	}

	slog.Info("utilisation shutting down")
	return 0
}
