package config

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DebounceInterval collapses the burst of events a single save produces.
const DebounceInterval = 200 * time.Millisecond

// Watch monitors the config file at configPath and the input file named by
// cfg, and calls onChange with the current Config after either is written.
// configPath may be empty, in which case only the input file is watched and
// cfg is passed through unchanged. Watch runs until ctx is cancelled.
//
// The parent directories are watched rather than the files themselves so
// that atomic saves (write temp, rename) and files created after startup
// are seen. If a reload fails (e.g., invalid YAML) the error is logged and
// onChange is not called; the previous config stays active.
func Watch(ctx context.Context, configPath string, cfg *Config, onChange func(*Config)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	current := cfg
	targets := make(map[string]bool)
	track := func(path string) error {
		if path == "" {
			return nil
		}
		clean := filepath.Clean(path)
		if targets[clean] {
			return nil
		}
		targets[clean] = true
		return watcher.Add(filepath.Dir(clean))
	}
	if err := track(configPath); err != nil {
		return err
	}
	if err := track(current.Input.Path); err != nil {
		return err
	}

	slog.Info("config: watching for changes", "config", configPath, "input", current.Input.Path)

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !targets[filepath.Clean(event.Name)] {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(DebounceInterval)
			} else {
				timer.Reset(DebounceInterval)
			}
			pending = timer.C

		case <-pending:
			pending = nil

			next := current
			if configPath != "" {
				loaded, err := Load(configPath)
				if err != nil {
					slog.Error("config: reload failed, keeping previous config",
						"path", configPath, "err", err)
					continue
				}
				next = loaded
			}
			if err := track(next.Input.Path); err != nil {
				slog.Error("config: cannot watch input", "path", next.Input.Path, "err", err)
			}

			current = next
			slog.Info("config: change detected", "input", current.Input.Path)
			onChange(current)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
