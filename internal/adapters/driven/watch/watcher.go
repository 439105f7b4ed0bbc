// Package watch reruns work when input files change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

const (
	// DefaultQuiet is how long a file must stay unchanged before a
	// change is reported.
	DefaultQuiet = 500 * time.Millisecond

	// DefaultInterval is the minimum time between two reports.
	DefaultInterval = 2 * time.Second
)

// Watcher watches the directories of the given files, so editors that
// save by renaming a temporary file are seen too.
type Watcher struct {
	quiet    time.Duration
	interval time.Duration
	log      *logger.Logger
}

// New creates a watcher. Zero durations use the defaults.
func New(quiet, interval time.Duration, log *logger.Logger) *Watcher {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{quiet: quiet, interval: interval, log: log}
}

// Watch blocks until ctx is done, calling onChange with the last file
// written in each burst of events.
func (w *Watcher) Watch(ctx context.Context, paths []string, onChange func(path string)) error {
	if len(paths) == 0 {
		return errors.New("watch: no files")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer fw.Close()

	targets := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		targets[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.log.Debug("watching %s", dir)
	}

	limiter := rate.NewLimiter(rate.Every(w.interval), 1)
	timer := time.NewTimer(w.quiet)
	timer.Stop()
	var pending string

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil {
				continue
			}
			orig, ok := targets[abs]
			if !ok {
				continue
			}
			pending = orig
			timer.Reset(w.quiet)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch: %v", err)

		case <-timer.C:
			if pending == "" {
				continue
			}
			if err := limiter.Wait(ctx); err != nil {
				return nil
			}
			w.log.Info("changed: %s", pending)
			onChange(pending)
			pending = ""
		}
	}
}
