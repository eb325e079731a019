// Package watch reloads the schedule file when it changes on disk, so
// editing the schedule does not require restarting the daemon.
package watch

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kwalsh-dev/rota/internal/logging"
	"github.com/kwalsh-dev/rota/internal/schedule"
)

// debounceWindow coalesces the bursts of events editors emit for a
// single save.
const debounceWindow = 250 * time.Millisecond

// ScheduleWatcher watches the schedule file and hands every valid new
// schedule to the callback. Invalid edits are logged and ignored; the
// previous schedule stays in effect.
type ScheduleWatcher struct {
	path     string
	onChange func(*schedule.Schedule)
	logger   *logging.Logger

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	mu      sync.Mutex
	stopped bool
}

// NewScheduleWatcher starts watching the schedule file at path.
// onChange is invoked from the watcher's goroutine with each
// successfully reloaded schedule.
func NewScheduleWatcher(path string, logger *logging.Logger, onChange func(*schedule.Schedule)) (*ScheduleWatcher, error) {
	if logger == nil {
		logger = logging.NopLogger()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Watch the file's directory: editors replace files via rename, and
	// fsnotify loses a watch on the old inode.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch schedule directory: %w", err)
	}

	sw := &ScheduleWatcher{
		path:     path,
		onChange: onChange,
		logger:   logger,
		watcher:  watcher,
		stopCh:   make(chan struct{}),
	}
	go sw.run()
	return sw, nil
}

func (sw *ScheduleWatcher) run() {
	var pending *time.Timer
	var pendingC <-chan time.Time

	for {
		select {
		case <-sw.stopCh:
			if pending != nil {
				pending.Stop()
			}
			return
		case event, ok := <-sw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(sw.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if pending == nil {
				pending = time.NewTimer(debounceWindow)
				pendingC = pending.C
			} else {
				pending.Reset(debounceWindow)
			}
		case <-pendingC:
			pending = nil
			pendingC = nil
			sw.reload()
		case err, ok := <-sw.watcher.Errors:
			if !ok {
				return
			}
			sw.logger.Warn("schedule watcher error", "error", err)
		}
	}
}

func (sw *ScheduleWatcher) reload() {
	sched, err := schedule.Load(sw.path)
	if err != nil {
		sw.logger.Error("schedule changed but failed to reload, keeping previous schedule",
			"path", sw.path, "error", err)
		return
	}
	sw.logger.Info("schedule reloaded", "path", sw.path, "tasks", len(sched.Tasks))
	sw.onChange(sched)
}

// Stop stops watching. Safe to call multiple times.
func (sw *ScheduleWatcher) Stop() {
	sw.mu.Lock()
	defer sw.mu.Unlock()

	if sw.stopped {
		return
	}
	sw.stopped = true
	close(sw.stopCh)
	sw.watcher.Close()
}
