// Package watcher provides file watching with debouncing for the
// assetforge watch mode: file changes under the project trigger a
// single regeneration per burst of events.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// ChangeHandler handles a debounced batch of changed paths.
type ChangeHandler func(paths []string) error

// PathFilter reports whether a path should be watched.
type PathFilter func(path string) bool

// FileWatcher watches a directory tree and invokes handlers with
// debounced change batches.
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	delay    time.Duration
	filters  []PathFilter
	handlers []ChangeHandler
	mutex    sync.RWMutex

	pending      []string
	pendingMutex sync.Mutex
	timer        *time.Timer
}

// NewFileWatcher creates a file watcher with the given debounce delay.
func NewFileWatcher(debounceDelay time.Duration) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &FileWatcher{
		watcher: watcher,
		delay:   debounceDelay,
	}, nil
}

// AddFilter adds a path filter. A path is watched only if every filter
// accepts it.
func (fw *FileWatcher) AddFilter(filter PathFilter) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.filters = append(fw.filters, filter)
}

// AddHandler adds a change handler.
func (fw *FileWatcher) AddHandler(handler ChangeHandler) {
	fw.mutex.Lock()
	defer fw.mutex.Unlock()
	fw.handlers = append(fw.handlers, handler)
}

// AddRecursive watches root and every directory beneath it that passes
// the filters.
func (fw *FileWatcher) AddRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if !fw.accepts(path) {
			return filepath.SkipDir
		}
		return fw.watcher.Add(path)
	})
}

// Start runs the event loop until the context is cancelled.
func (fw *FileWatcher) Start(ctx context.Context) {
	go fw.loop(ctx)
}

// Stop closes the underlying watcher.
func (fw *FileWatcher) Stop() error {
	return fw.watcher.Close()
}

func (fw *FileWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if !fw.accepts(event.Name) {
				continue
			}
			fw.enqueue(event.Name)
		case _, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
		}
	}
}

// enqueue adds a path to the pending batch and (re)arms the debounce
// timer so a burst of events yields a single handler invocation.
func (fw *FileWatcher) enqueue(path string) {
	fw.pendingMutex.Lock()
	defer fw.pendingMutex.Unlock()

	fw.pending = append(fw.pending, path)
	if fw.timer != nil {
		fw.timer.Stop()
	}
	fw.timer = time.AfterFunc(fw.delay, fw.flush)
}

func (fw *FileWatcher) flush() {
	fw.pendingMutex.Lock()
	batch := fw.pending
	fw.pending = nil
	fw.pendingMutex.Unlock()

	if len(batch) == 0 {
		return
	}

	fw.mutex.RLock()
	handlers := make([]ChangeHandler, len(fw.handlers))
	copy(handlers, fw.handlers)
	fw.mutex.RUnlock()

	for _, handler := range handlers {
		_ = handler(batch)
	}
}

func (fw *FileWatcher) accepts(path string) bool {
	fw.mutex.RLock()
	defer fw.mutex.RUnlock()

	for _, filter := range fw.filters {
		if !filter(path) {
			return false
		}
	}
	return true
}

// DefaultProjectFilter skips directories whose contents the pipeline
// itself writes, so regeneration does not retrigger the watcher.
func DefaultProjectFilter(skipDirs ...string) PathFilter {
	skip := map[string]bool{
		".git":         true,
		"node_modules": true,
	}
	for _, dir := range skipDirs {
		if dir != "" {
			skip[dir] = true
		}
	}

	return func(path string) bool {
		for _, segment := range strings.Split(filepath.ToSlash(path), "/") {
			if skip[segment] {
				return false
			}
		}
		return true
	}
}
