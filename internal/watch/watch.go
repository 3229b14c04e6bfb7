// Package watch reruns the bundling pass on a fixed polling interval until
// externally stopped.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/bundlecheck/bundlecheck/builder/utils"
	"github.com/bundlecheck/bundlecheck/internal/build"
)

// Runner drives repeated bundling passes. The poll ticker is the only place
// a build can start, so at most one build is ever in flight and triggers
// landing mid-build or mid-interval coalesce into a single rebuild. Build
// failures are printed and the loop keeps running; only Stop or an
// environment failure ends it.
type Runner struct {
	opts     build.Options
	interval time.Duration
	logger   *slog.Logger

	dirty    atomic.Bool
	lastHash string

	stop     chan struct{}
	stopOnce sync.Once

	// pass runs one build; swapped out in tests.
	pass func(context.Context) error
}

// New creates a runner polling at the configured watch interval.
func New(opts build.Options) *Runner {
	r := &Runner{
		opts:     opts,
		interval: opts.Cfg.WatchInterval,
		logger:   opts.Logger,
		stop:     make(chan struct{}),
	}
	r.pass = r.buildPass
	return r
}

// Stop ends the loop after any in-flight build completes. Safe to call more
// than once.
func (r *Runner) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// Run blocks until Stop is called, the context is cancelled, or a pass
// reports an unrecoverable environment failure.
func (r *Runner) Run(ctx context.Context) error {
	watcher, err := r.startWatcher()
	if err != nil {
		// Degrade to pure polling; the fingerprint check below still
		// prevents redundant rebuilds.
		r.logger.Warn("File watcher unavailable, relying on polling", "error", err)
	} else {
		defer func() { _ = watcher.Close() }()
	}

	fmt.Fprintln(r.opts.Out, "👀 Watch mode active. Waiting for changes...")

	// First tick always builds.
	r.dirty.Store(true)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if watcher != nil && !r.dirty.Swap(false) {
				continue
			}
			if !r.sourceChanged() {
				continue
			}
			if err := r.pass(ctx); err != nil {
				return err
			}
		}
	}
}

// sourceChanged fingerprints the source tree and reports whether it moved
// since the last build. Fingerprint failures count as changed.
func (r *Runner) sourceChanged() bool {
	hash, err := utils.HashDirsFast([]string{r.opts.Cfg.SourceDir})
	if err != nil {
		r.logger.Warn("Failed to fingerprint source tree", "error", err)
		return true
	}
	if hash == r.lastHash {
		return false
	}
	r.lastHash = hash
	return true
}

func (r *Runner) buildPass(ctx context.Context) error {
	code, err := build.Pass(ctx, r.opts)
	if err != nil {
		return err
	}
	if code != 0 {
		r.logger.Warn("Build failed, waiting for changes")
	}
	return nil
}

// startWatcher begins watching the source tree recursively; events only
// mark the tree dirty, the poll loop decides when to build.
func (r *Runner) startWatcher() (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	dir := r.opts.Cfg.SourceDir
	if _, err := os.Stat(dir); err == nil {
		walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				// Skip hidden directories like .git
				if filepath.Base(path)[0] == '.' && path != "." {
					return filepath.SkipDir
				}
				return w.Add(path)
			}
			return nil
		})
		if walkErr != nil {
			r.logger.Warn("Error walking source tree", "error", walkErr)
		}
	}

	go func() {
		for {
			select {
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				// Ignore chmod and other meta events
				if event.Op&fsnotify.Chmod == fsnotify.Chmod {
					continue
				}
				// Handle new directories
				if event.Op&fsnotify.Create == fsnotify.Create {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = w.Add(event.Name)
					}
				}
				r.dirty.Store(true)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				r.logger.Warn("Watcher error", "error", err)
			}
		}
	}()

	return w, nil
}
