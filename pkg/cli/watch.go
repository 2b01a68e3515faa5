package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/agentkit-dev/agentkit/pkg/console"
	"github.com/agentkit-dev/agentkit/pkg/logger"
	"github.com/agentkit-dev/agentkit/pkg/sliceutil"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

var watchLog = logger.New("cli:watch")

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 100 * time.Millisecond

// fileWatcher reports changes to a fixed set of files. It watches their
// parent directories so files replaced by rename (as many editors save) are
// still seen.
type fileWatcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]bool
	debounce time.Duration
}

func newFileWatcher(files []string) (*fileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &fileWatcher{watcher: watcher, files: make(map[string]bool), debounce: watchDebounce}
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			_ = watcher.Close()
			return nil, err
		}
		w.files[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for _, dir := range sliceutil.SortedKeys(dirs) {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	watchLog.Printf("Watching %d files in %d directories", len(w.files), len(dirs))
	return w, nil
}

func (w *fileWatcher) Close() error {
	return w.watcher.Close()
}

func (w *fileWatcher) tracks(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	return err == nil && w.files[abs]
}

// Run calls onChange once per burst of changes to a watched file until ctx
// is done.
func (w *fileWatcher) Run(ctx context.Context, onChange func()) error {
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.tracks(event) {
				continue
			}
			watchLog.Printf("Change detected: %s", event)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			watchLog.Printf("Watcher error: %v", err)
		}
	}
}

// watchFiles re-runs rerun on every change to files until the command
// context is cancelled.
func watchFiles(cmd *cobra.Command, files []string, rerun func()) error {
	w, err := newFileWatcher(files)
	if err != nil {
		return err
	}
	defer w.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	color := console.StderrColorEnabled()
	fmt.Fprintln(cmd.ErrOrStderr(), console.FormatInfoMessage(
		fmt.Sprintf("Watching %d files for changes (Ctrl+C to stop)", len(files)), color))

	return w.Run(ctx, func() {
		fmt.Fprintln(cmd.ErrOrStderr(), console.FormatInfoMessage("Change detected, re-validating...", color))
		rerun()
	})
}
