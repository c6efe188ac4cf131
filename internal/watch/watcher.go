// Package watch turns filesystem activity under the content tree into build
// triggers. A Watcher emits raw change events; a Debouncer coalesces bursts
// of them into single rebuilds.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/docwright/docwright/internal/logfields"
)

// Event is one raw filesystem change under a watched path.
type Event struct {
	Path string
	At   time.Time
}

// Watcher monitors content trees and individual files. Trees are watched
// recursively; directories created later join the watch automatically.
type Watcher struct {
	watcher *fsnotify.Watcher
	events  chan Event

	mu      sync.Mutex
	roots   []string            // recursively watched trees
	files   map[string]struct{} // individually watched files
	ignores []string            // path prefixes that never trigger

	stop     chan struct{}
	stopOnce sync.Once
}

// NewWatcher creates an idle watcher. Add paths, then Start.
func NewWatcher() (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	return &Watcher{
		watcher: fsw,
		events:  make(chan Event, 64),
		files:   make(map[string]struct{}),
		stop:    make(chan struct{}),
	}, nil
}

// AddTree watches root and every directory below it. Hidden directories
// (".git" and friends) are skipped.
func (w *Watcher) AddTree(root string) error {
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("failed to resolve watch root: %w", err)
	}
	if err := w.addSubtree(abs); err != nil {
		return fmt.Errorf("failed to watch tree %s: %w", abs, err)
	}

	w.mu.Lock()
	w.roots = append(w.roots, abs)
	w.mu.Unlock()
	return nil
}

func (w *Watcher) addSubtree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		if w.ignored(path) {
			return filepath.SkipDir
		}
		return w.watcher.Add(path)
	})
}

// AddFile watches a single file. The containing directory is watched and
// events are filtered to the file, which keeps working across the
// delete-and-rename dance editors do on save.
func (w *Watcher) AddFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve watch path: %w", err)
	}
	if err := w.watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("failed to watch directory of %s: %w", abs, err)
	}

	w.mu.Lock()
	w.files[abs] = struct{}{}
	w.mu.Unlock()
	return nil
}

// Ignore excludes a path (and everything under it) from triggering events.
// Call before AddTree for trees that nest the ignored path.
func (w *Watcher) Ignore(path string) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return
	}
	w.mu.Lock()
	w.ignores = append(w.ignores, abs)
	w.mu.Unlock()
}

// Events is the stream of raw changes. When the consumer falls behind,
// events are dropped; the debouncer only needs one pending signal.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start begins delivering events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) {
	go w.watchLoop(ctx)
}

// Close stops the watcher and releases the inotify resources.
func (w *Watcher) Close() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.stop)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}

			// Directories created under a watched tree join the watch so
			// nested changes keep flowing.
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, statErr := os.Stat(event.Name); statErr == nil && info.IsDir() {
					if err := w.addSubtree(event.Name); err != nil {
						slog.Warn("Failed to watch new directory", logfields.Path(event.Name), logfields.Error(err))
					}
				}
			}

			select {
			case w.events <- Event{Path: event.Name, At: time.Now()}:
			default:
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	const ops = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename
	if event.Op&ops == 0 {
		return false
	}

	name := filepath.Base(event.Name)
	if strings.HasPrefix(name, ".") || strings.HasSuffix(name, "~") {
		return false
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.files[event.Name]; ok {
		return true
	}
	if w.ignoredLocked(event.Name) {
		return false
	}
	for _, root := range w.roots {
		if underDir(event.Name, root) {
			return true
		}
	}
	return false
}

func (w *Watcher) ignored(path string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ignoredLocked(path)
}

func (w *Watcher) ignoredLocked(path string) bool {
	for _, ig := range w.ignores {
		if path == ig || underDir(path, ig) {
			return true
		}
	}
	return false
}

func underDir(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
