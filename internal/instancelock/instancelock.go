// Package instancelock implements the single-instance file lock: an
// exclusive `lock` file under the data directory that prevents two
// processes from running against the same database/worktree set.
// Same O_EXCL-create-and-write-PID scheme as a per-repo daemon lock this
// was adapted from, generalized from one lock per watched repo to one
// lock per data directory.
package instancelock

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// FileName is the lock file's name within the data directory, per the
// persisted state layout (db.sqlite, worktrees/, lock).
const FileName = "lock"

// waitForRelease bounds how long Acquire waits on a contended lock,
// watching for the holder's exit via fsnotify instead of polling.
const waitForRelease = 2 * time.Second

// Lock is a held single-instance lock. Release it once, typically via
// defer, right after a successful Acquire.
type Lock struct {
	path string
	file *os.File
}

// Acquire creates the data directory's lock file exclusively and writes
// this process's PID into it. If another process already holds the
// lock, Acquire watches the lock file for removal for a short grace
// period (in case the holder is mid-exit) before giving up. On
// contention it returns an error naming the holder's PID and the lock
// path, safe to print directly and exit on.
func Acquire(dataDir string) (*Lock, error) {
	path := filepath.Join(dataDir, FileName)

	f, err := create(path)
	if err == nil {
		return &Lock{path: path, file: f}, nil
	}
	if !os.IsExist(err) {
		return nil, fmt.Errorf("instancelock: create %s: %w", path, err)
	}

	if waitForRemoval(path, waitForRelease) {
		if f, err = create(path); err == nil {
			return &Lock{path: path, file: f}, nil
		}
	}

	holder := "unknown"
	if data, readErr := os.ReadFile(path); readErr == nil && len(data) > 0 {
		holder = string(data)
	}
	return nil, fmt.Errorf("another plural process (pid %s) already holds %s; remove it if that process is not running", holder, path)
}

func create(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(f, "%d", os.Getpid())
	return f, nil
}

// waitForRemoval watches dir(path) for path's removal or rename, up to
// timeout, returning true if it saw the holder release the lock in
// time. Any fsnotify setup failure is treated as "didn't see it" rather
// than an error, since Acquire's caller already has a clear contention
// message to fall back to.
func waitForRemoval(path string, timeout time.Duration) bool {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return false
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return false
	}

	deadline := time.After(timeout)
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return false
			}
			if ev.Name != path {
				continue
			}
			if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				return true
			}
		case <-watcher.Errors:
			// Keep waiting; a watcher error doesn't mean the lock released.
		case <-deadline:
			return false
		}
	}
}

// Release releases the lock by removing its file. Safe to call once;
// calling it again returns the not-exist error from the second removal.
func (l *Lock) Release() error {
	if l.file != nil {
		l.file.Close()
	}
	return os.Remove(l.path)
}
