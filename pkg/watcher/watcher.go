package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/dijkstra-trace/pkg/logging"
)

// ChangeType is a set of flags naming which watched inputs changed.
type ChangeType uint8

const (
	ChangeSource      ChangeType = 1 << iota // The adjacency document
	ChangeCoordinates                        // The coordinate hints
)

// Has reports whether all flags in other are set.
func (c ChangeType) Has(other ChangeType) bool {
	return c&other == other && other != 0
}

func (c ChangeType) String() string {
	var parts []string
	if c.Has(ChangeSource) {
		parts = append(parts, "source")
	}
	if c.Has(ChangeCoordinates) {
		parts = append(parts, "coordinates")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "+")
}

// ChangeEvent represents a batch of changes to the watched files
type ChangeEvent struct {
	Type      ChangeType
	Paths     []string
	Timestamp time.Time
}

// merge folds other into e, keeping each path once.
func (e *ChangeEvent) merge(other ChangeEvent) {
	e.Type |= other.Type
	for _, p := range other.Paths {
		if !containsPath(e.Paths, p) {
			e.Paths = append(e.Paths, p)
		}
	}
	if other.Timestamp.After(e.Timestamp) {
		e.Timestamp = other.Timestamp
	}
}

func containsPath(paths []string, p string) bool {
	for _, existing := range paths {
		if existing == p {
			return true
		}
	}
	return false
}

// batchWindow groups the burst of fsnotify events a single save produces.
const batchWindow = 100 * time.Millisecond

// FileWatcher watches the graph source files for changes.
// Directories are watched rather than files so that editors which save by
// renaming a temporary file over the original are still noticed.
type FileWatcher struct {
	watcher *fsnotify.Watcher
	files   map[string]ChangeType // absolute path -> kind
	events  chan ChangeEvent
	once    sync.Once
}

// NewFileWatcher creates a watcher for the adjacency source and, when
// coordPath is not empty, the coordinate file.
func NewFileWatcher(sourcePath, coordPath string) (*FileWatcher, error) {
	files := make(map[string]ChangeType)
	for path, kind := range map[string]ChangeType{sourcePath: ChangeSource, coordPath: ChangeCoordinates} {
		if path == "" {
			continue
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", path, err)
		}
		files[abs] = kind
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	return &FileWatcher{
		watcher: w,
		files:   files,
		events:  make(chan ChangeEvent, 16),
	}, nil
}

// Start adds the watched directories and processes events until ctx is done
// or Close is called. The Events channel is closed afterwards.
func (fw *FileWatcher) Start(ctx context.Context) error {
	dirs := make(map[string]bool)
	for path := range fw.files {
		dirs[filepath.Dir(path)] = true
	}
	for dir := range dirs {
		if err := fw.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	logging.Info("Watching graph source", "files", len(fw.files), "directories", len(dirs))
	go fw.processEvents(ctx)
	return nil
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	defer close(fw.events)
	defer func() { _ = fw.Close() }()

	var pending ChangeEvent
	flushTimer := time.NewTimer(batchWindow)
	flushTimer.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Remove) {
				continue
			}
			kind, watched := fw.files[filepath.Clean(event.Name)]
			if !watched {
				continue
			}
			logging.Trace("File event", "path", event.Name, "op", event.Op.String())
			pending.merge(ChangeEvent{Type: kind, Paths: []string{event.Name}, Timestamp: time.Now()})
			flushTimer.Reset(batchWindow)

		case <-flushTimer.C:
			if pending.Type == 0 {
				continue
			}
			select {
			case fw.events <- pending:
			case <-ctx.Done():
				return
			}
			pending = ChangeEvent{}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("Watcher error", "error", err)
		}
	}
}

// Events returns the channel of change events
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Close stops the underlying fsnotify watcher.
func (fw *FileWatcher) Close() error {
	var err error
	fw.once.Do(func() { err = fw.watcher.Close() })
	return err
}
