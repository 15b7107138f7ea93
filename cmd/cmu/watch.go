package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gomutate/cmu/internal/config"
)

// runWatch watches the configured source and test paths and re-runs
// mutation testing whenever a C/C++ file changes, debouncing bursts of
// events (an editor save commonly fires several in quick succession).
func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	watchTargets := append([]string{}, cfg.Sources...)
	if cfg.Test.Path != "" {
		watchTargets = append(watchTargets, cfg.Test.Path)
	}

	for _, target := range watchTargets {
		if err := addWatchTarget(watcher, target); err != nil {
			return err
		}
	}

	fmt.Println("watching for changes, press Ctrl+C to stop")

	var debounce *time.Timer

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isSourceEvent(event) {
				continue
			}

			if debounce != nil {
				debounce.Stop()
			}

			debounce = time.AfterFunc(300*time.Millisecond, func() {
				fmt.Printf("change detected: %s, re-running\n", event.Name)

				if err := runMutationTesting(cmd, args); err != nil {
					slog.Error("mutation run failed", "error", err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.Error("watcher error", "error", err)
		}
	}
}

func addWatchTarget(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}

	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}

	return filepath.Walk(path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return watcher.Add(p)
		}

		return nil
	})
}

func isSourceEvent(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return false
	}

	switch filepath.Ext(event.Name) {
	case ".c", ".cpp", ".h", ".hpp":
		return true
	default:
		return false
	}
}
