// Package config loads and watches the utilisation configuration.
//
// Top-level types:
//   - Config: threshold, capacity, watch, log_level plus the sections below
//   - InputConfig: path of the sensor log, on_decode_error (abort|skip)
//   - OutputConfig: path of the result file, precision (digits after the point)
//   - MetricsConfig: optional Prometheus textfile path and source label
//
// Load(path) reads the YAML file, applies defaults (data.txt, results.txt,
// threshold 10.0, capacity 255, precision 6), then environment overrides
// (UTILISATION_*), then validates. FromEnv() does the same without a file.
//
// Watch(ctx, configPath, cfg, onChange) uses fsnotify to detect writes to the
// config file and to the input file, reloads the config and calls onChange.
// A failed reload keeps the previous config.
package config
