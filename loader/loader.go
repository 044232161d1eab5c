// Package loader answers whether movie files exist in the search path.
//
// FS checks a list of root directories and caches every answer, because the
// resolver may probe several oversampled candidates per play command. Watch
// drops the cache whenever a root changes on disk:
//
//	fs := loader.NewFS("game", "/usr/share/game")
//	go fs.Watch(ctx)
//	ok := fs.Loadable("intro.webm", "audio")
package loader

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
)

// ErrNoRoots indicates Watch was called on a loader without roots.
var ErrNoRoots = errors.New("loader has no root directories")

// FS is a Loader backed by the filesystem.
// It is safe for concurrent use; Watch runs on its own goroutine.
type FS struct {
	roots []string

	mu    sync.RWMutex
	cache map[string]bool
}

// NewFS creates a loader searching roots in order.
func NewFS(roots ...string) *FS {
	cleaned := make([]string, 0, len(roots))
	for _, r := range roots {
		cleaned = append(cleaned, filepath.Clean(r))
	}

	return &FS{
		roots: cleaned,
		cache: make(map[string]bool),
	}
}

// Loadable reports whether name exists as a regular file under
// root/directory/name or root/name for any root.
func (f *FS) Loadable(name, directory string) bool {
	key := directory + "\x00" + name

	f.mu.RLock()
	ok, cached := f.cache[key]
	f.mu.RUnlock()
	if cached {
		return ok
	}

	ok = f.lookup(name, directory)

	f.mu.Lock()
	f.cache[key] = ok
	f.mu.Unlock()

	return ok
}

func (f *FS) lookup(name, directory string) bool {
	rel := filepath.FromSlash(name)
	for _, root := range f.roots {
		candidates := []string{filepath.Join(root, rel)}
		if directory != "" {
			candidates = append([]string{filepath.Join(root, directory, rel)}, candidates...)
		}

		for _, path := range candidates {
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				return true
			}
		}
	}
	return false
}

// Invalidate forgets every cached answer.
func (f *FS) Invalidate() {
	f.mu.Lock()
	f.cache = make(map[string]bool)
	f.mu.Unlock()
}

// Watch invalidates the cache whenever a root, or an existing directory
// directly below a root, changes. It returns when ctx is done.
func (f *FS) Watch(ctx context.Context) error {
	if len(f.roots) == 0 {
		return ErrNoRoots
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	for _, root := range f.roots {
		if err := watcher.Add(root); err != nil {
			return fmt.Errorf("watch directory %s: %w", root, err)
		}

		entries, err := os.ReadDir(root)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if !e.IsDir() {
				continue
			}
			if err := watcher.Add(filepath.Join(root, e.Name())); err != nil {
				logrus.WithFields(logrus.Fields{
					"function":  "FS.Watch",
					"directory": e.Name(),
					"error":     err.Error(),
				}).Warn("Failed to watch subdirectory")
			}
		}
	}

	logrus.WithFields(logrus.Fields{
		"function": "FS.Watch",
		"roots":    f.roots,
	}).Info("Watching movie roots for changes")

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logrus.WithFields(logrus.Fields{
				"function": "FS.Watch",
				"path":     event.Name,
				"op":       event.Op.String(),
			}).Debug("Movie root changed, dropping loadable cache")
			f.Invalidate()
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			logrus.WithFields(logrus.Fields{
				"function": "FS.Watch",
				"error":    err.Error(),
			}).Warn("fsnotify watcher error")
		}
	}
}
