package tui

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ddaniel27/gitlogue/internal/debounce"
)

const reloadDebounceDelay = 350 * time.Millisecond

// repoWatcher flags repository changes so a worktree replay reloads with
// fresh content. Events arrive on the watcher goroutine; the loop thread
// only ever reads and clears the dirty flag.
type repoWatcher struct {
	watcher  *fsnotify.Watcher
	debounce *debounce.Debouncer
	dirty    atomic.Bool
}

func newRepoWatcher(root string) (*repoWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	w := &repoWatcher{watcher: watcher}
	w.debounce = debounce.New(reloadDebounceDelay, func() {
		w.dirty.Store(true)
	})
	for _, path := range watchPaths(root) {
		slog.Debug("adding path to FS watcher", slog.String("path", path))
		if err := watcher.Add(path); err != nil {
			err = errors.Join(err, watcher.Close())
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}
	go w.loop()
	return w, nil
}

// Dirty reports and clears the pending-reload flag.
func (w *repoWatcher) Dirty() bool {
	return w != nil && w.dirty.Swap(false)
}

func (w *repoWatcher) Close() {
	if w == nil {
		return
	}
	w.debounce.Stop()
	if err := w.watcher.Close(); err != nil {
		slog.Error("watcher close", slog.Any("error", err))
	}
}

func (w *repoWatcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if shouldIgnoreWatchPath(ev.Name) {
				continue
			}
			slog.Debug("fsnotify event",
				slog.String("op", ev.Op.String()),
				slog.String("path", ev.Name),
			)
			if w.debounce.Trigger() {
				slog.Debug("reload burst collapsed")
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("fsnotify error", slog.Any("error", err))
		}
	}
}

// watchPaths picks the directories worth watching: the repository root
// for worktree edits plus the .git dir for index changes.
func watchPaths(root string) []string {
	if root == "" {
		return nil
	}
	paths := []string{root}
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err == nil && info.IsDir() {
		paths = append(paths, gitDir)
	}
	return paths
}

// shouldIgnoreWatchPath drops git bookkeeping churn that does not change
// what the replay shows.
func shouldIgnoreWatchPath(path string) bool {
	base := filepath.Base(path)
	switch base {
	case "index.lock", "FETCH_HEAD", "ORIG_HEAD":
		return true
	}
	return filepath.Ext(base) == ".lock"
}
