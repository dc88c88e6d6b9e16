package cli

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jnothman/searchgrid"
	"github.com/jnothman/searchgrid/internal/presentation/tui"
)

// RunWatch executes validate in development mode, re-validating the grid
// document whenever it changes on disk.
func RunWatch(ctx context.Context, opts ValidateOptions) error {
	logger := createLogger(opts.Debug)
	out := orStdout(opts.Out)

	tui.PrintBanner(searchgrid.Version)

	target, err := filepath.Abs(opts.Path)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	// Watch the directory rather than the file: editors replace files on
	// save, which silently drops a watch placed on the file itself.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}

	sigCtx := NewSignalContext(ctx)
	defer sigCtx.Cancel()

	expander := newExpander(logger)

	logger.Info("Starting Watcher", "path", target)
	printSystemMessage(out, "Watching '%s'.", opts.Path)

	revalidate := func() {
		if err := validateOnce(sigCtx, expander, opts.Path, out); err != nil {
			printSystemMessage(out, "%v", err)
		}
		printSystemMessage(out, "Waiting for changes...")
	}
	revalidate()

	for {
		select {
		case <-sigCtx.Done():
			logger.Info("Stopping watcher (signal received)", "signal", sigCtx.Signal())
			printSystemMessage(out, "Watcher stopped.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !shouldReload(event, target) {
				continue
			}
			logger.Info("Change detected, revalidating", "op", event.Op.String())
			// Delay slightly to ensure the file system is stable
			time.Sleep(100 * time.Millisecond)
			printSystemMessage(out, "Change detected in '%s'.", filepath.Base(event.Name))
			revalidate()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error", "err", werr)
		}
	}
}

// shouldReload filters watcher noise down to content changes of the watched
// file. Chmod-only events and sibling files are ignored; removes and renames
// count because editors save by replacing the file.
func shouldReload(event fsnotify.Event, target string) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	name, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return filepath.Clean(name) == filepath.Clean(target)
}
