package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/DynamicDevices/utilisation-example/internal/config"
	"github.com/DynamicDevices/utilisation-example/internal/decode"
	"github.com/DynamicDevices/utilisation-example/internal/sink"
)

// testConfig returns a config whose files live in a fresh temp dir and
// whose input holds content.
func testConfig(t *testing.T, content string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg, err := config.FromEnv()
	if err != nil {
		t.Fatalf("FromEnv() error = %v", err)
	}
	cfg.Input.Path = filepath.Join(dir, "data.txt")
	cfg.Output.Path = filepath.Join(dir, "results.txt")
	if err := os.WriteFile(cfg.Input.Path, []byte(content), 0o600); err != nil {
		t.Fatalf("write input: %v", err)
	}
	return cfg
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(b)
}

func TestRunOnce(t *testing.T) {
	cfg := testConfig(t, "01\n02\n51\n")
	cfg.Threshold = 15
	cfg.Capacity = 3

	rep, err := runOnce(context.Background(), cfg)
	if err != nil {
		t.Fatalf("runOnce() error = %v", err)
	}
	if rep.Result.Used != 2 || rep.Result.Total != 3 {
		t.Errorf("k/n = %d/%d, want 2/3", rep.Result.Used, rep.Result.Total)
	}
	if got := readFile(t, cfg.Output.Path); got != "66.666667\n" {
		t.Errorf("results.txt = %q, want %q", got, "66.666667\n")
	}
}

func TestRunOnce_DefaultThreshold(t *testing.T) {
	// 12.5, 3, 10, -4 against the default trigger level of 10.
	cfg := testConfig(t, "5.21\n3\n01\n4-\n")

	if _, err := runOnce(context.Background(), cfg); err != nil {
		t.Fatalf("runOnce() error = %v", err)
	}
	if got := readFile(t, cfg.Output.Path); got != "50.000000\n" {
		t.Errorf("results.txt = %q, want 50.000000", got)
	}
}

func TestRunOnce_WithMetrics(t *testing.T) {
	cfg := testConfig(t, "01 02")
	cfg.Metrics.Path = filepath.Join(filepath.Dir(cfg.Input.Path), "utilisation.prom")
	cfg.Metrics.SourceLabel = "press-7"

	if _, err := runOnce(context.Background(), cfg); err != nil {
		t.Fatalf("runOnce() error = %v", err)
	}
	prom := readFile(t, cfg.Metrics.Path)
	if !strings.Contains(prom, sink.MetricPercent+`{source="press-7"} 100`) {
		t.Errorf("prom file missing percent series:\n%s", prom)
	}
}

func TestRunOnce_SkipPolicy(t *testing.T) {
	cfg := testConfig(t, "01 x 02")
	cfg.Input.OnDecodeError = "skip"

	rep, err := runOnce(context.Background(), cfg)
	if err != nil {
		t.Fatalf("runOnce() error = %v", err)
	}
	if rep.Stats.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", rep.Stats.Skipped)
	}
}

func TestRunOnce_AbortPolicyWritesPartial(t *testing.T) {
	cfg := testConfig(t, "01 x 02")

	_, err := runOnce(context.Background(), cfg)
	if !errors.Is(err, decode.ErrMalformed) {
		t.Fatalf("runOnce() error = %v, want ErrMalformed", err)
	}
	if got := readFile(t, cfg.Output.Path); got != "100.000000\n" {
		t.Errorf("results.txt = %q, want partial result 100.000000", got)
	}
}

func TestRunOnce_MissingInput(t *testing.T) {
	cfg := testConfig(t, "")
	cfg.Input.Path = filepath.Join(t.TempDir(), "absent.txt")

	if _, err := runOnce(context.Background(), cfg); err == nil {
		t.Fatal("runOnce with missing input: expected error, got nil")
	}
	if _, err := os.Stat(cfg.Output.Path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("results.txt should not be written, stat err = %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	const key = "UTILISATION_TEST_DOTENV_THRESHOLD"
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte(key+"=12.5\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv(key) })

	if err := loadEnvFile(path); err != nil {
		t.Fatalf("loadEnvFile() error = %v", err)
	}
	if got := os.Getenv(key); got != "12.5" {
		t.Errorf("%s = %q, want 12.5", key, got)
	}
}

func TestLoadEnvFile_Missing(t *testing.T) {
	if err := loadEnvFile(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing env file: err = %v, want nil", err)
	}
	if err := loadEnvFile(""); err != nil {
		t.Errorf("empty path: err = %v, want nil", err)
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("")
	if err != nil {
		t.Fatalf("loadConfig(\"\") error = %v", err)
	}
	if cfg.Threshold != config.DefaultThreshold {
		t.Errorf("threshold = %v, want default", cfg.Threshold)
	}

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("threshold: 33\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig(file) error = %v", err)
	}
	if cfg.Threshold != 33 {
		t.Errorf("threshold = %v, want 33", cfg.Threshold)
	}
}
