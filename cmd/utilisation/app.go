package main

import (
	"context"
	"errors"
	"io/fs"

	"github.com/joho/godotenv"

	"github.com/DynamicDevices/utilisation-example/internal/config"
	"github.com/DynamicDevices/utilisation-example/internal/pipeline"
	"github.com/DynamicDevices/utilisation-example/internal/sink"
	"github.com/DynamicDevices/utilisation-example/internal/source"
)

// loadEnvFile exports the variables in a dotenv file. Variables already set
// in the environment win. A missing file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// loadConfig reads the config file, or builds one from defaults and the
// environment when path is empty.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.FromEnv()
	}
	return config.Load(path)
}

// runOnce computes the utilisation of the configured input and writes it to
// every configured sink.
func runOnce(ctx context.Context, cfg *config.Config) (pipeline.Report, error) {
	src, err := source.Open(cfg.Input.Path)
	if err != nil {
		return pipeline.Report{}, err
	}
	defer src.Close()

	return pipeline.Run(ctx, src, options(cfg), sinks(cfg)...)
}

func options(cfg *config.Config) pipeline.Options {
	return pipeline.Options{
		Threshold:     cfg.Threshold,
		Capacity:      cfg.Capacity,
		OnDecodeError: pipeline.Policy(cfg.Input.OnDecodeError),
	}
}

func sinks(cfg *config.Config) []pipeline.Sink {
	out := []pipeline.Sink{
		sink.TextFile{Path: cfg.Output.Path, Precision: cfg.Output.Precision},
	}
	if cfg.Metrics.Path != "" {
		out = append(out, sink.PromFile{Path: cfg.Metrics.Path, Source: cfg.Source()})
	}
	return out
}
