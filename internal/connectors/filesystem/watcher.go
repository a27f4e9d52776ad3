// Package filesystem watches a local directory for documents to ingest.
package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultDebounce is how long a path must be quiet before its change is reported.
// Editors often write a file in several steps.
const DefaultDebounce = 500 * time.Millisecond

// ChangeType describes what happened to a file.
type ChangeType string

// Change types reported by the watcher.
const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeRemoved ChangeType = "removed"
)

// Change is a settled filesystem event for one file.
type Change struct {
	Path string
	Type ChangeType
}

// Watcher reports changes to accepted files under a root directory.
type Watcher struct {
	root     string
	accept   func(path string) bool
	debounce time.Duration

	mu  sync.Mutex
	fsw *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithFilter restricts reported changes to paths for which accept returns true.
func WithFilter(accept func(path string) bool) Option {
	return func(w *Watcher) {
		w.accept = accept
	}
}

// New creates a watcher for root. Nothing is watched until Watch is called.
func New(root string, opts ...Option) *Watcher {
	w := &Watcher{
		root:     root,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Root returns the watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Files lists the accepted files already present under root, in path order.
// Hidden files and directories are skipped.
func (w *Watcher) Files() ([]string, error) {
	var files []string
	err := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != w.root && isHidden(d.Name()) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.IsDir() && w.accepts(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", w.root, err)
	}
	return files, nil
}

// Watch starts watching root and its subdirectories.
// The returned channel is closed when ctx is cancelled or the watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan Change, error) {
	info, err := os.Stat(w.root)
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", w.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch %s: not a directory", w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addTree(fsw, w.root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	changes := make(chan Change, 16)
	go w.loop(ctx, fsw, changes)
	return changes, nil
}

// Close stops an active watch.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.fsw == nil {
		return nil
	}
	err := w.fsw.Close()
	w.fsw = nil
	return err
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Change) {
	defer close(out)
	defer w.Close() //nolint:errcheck // already shutting down

	pending := make(map[string]Change)
	var flush <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) && !isHidden(filepath.Base(event.Name)) {
				if err := addTree(fsw, event.Name); err != nil {
					logger.Warn("watch new directory %s: %v", event.Name, err)
				}
				continue
			}
			change := w.handleFsEvent(event)
			if change == nil {
				continue
			}
			pending[change.Path] = merge(pending[change.Path], *change)
			flush = time.After(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watch %s: %v", w.root, err)

		case <-flush:
			flush = nil
			for _, change := range drain(pending) {
				select {
				case out <- change:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// handleFsEvent converts a raw event into a Change, or nil when the event
// is irrelevant: directories, hidden files, filtered types and chmod.
func (w *Watcher) handleFsEvent(event fsnotify.Event) *Change {
	if isHidden(filepath.Base(event.Name)) || !w.accepts(event.Name) {
		return nil
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return &Change{Path: event.Name, Type: ChangeRemoved}
	case event.Has(fsnotify.Create):
		if !isRegular(event.Name) {
			return nil
		}
		return &Change{Path: event.Name, Type: ChangeCreated}
	case event.Has(fsnotify.Write):
		if !isRegular(event.Name) {
			return nil
		}
		return &Change{Path: event.Name, Type: ChangeUpdated}
	default:
		return nil
	}
}

func (w *Watcher) accepts(path string) bool {
	return w.accept == nil || w.accept(path)
}

// merge folds a new event for a path into the pending one.
// A create followed by writes is still a create; anything followed by a
// removal is a removal; a removal followed by a create is an update.
func merge(prev, next Change) Change {
	if prev.Path == "" {
		return next
	}
	switch {
	case next.Type == ChangeRemoved:
		return next
	case prev.Type == ChangeCreated:
		return prev
	case prev.Type == ChangeRemoved:
		return Change{Path: next.Path, Type: ChangeUpdated}
	default:
		return next
	}
}

func drain(pending map[string]Change) []Change {
	changes := make([]Change, 0, len(pending))
	for path, change := range pending {
		changes = append(changes, change)
		delete(pending, path)
	}
	sort.Slice(changes, func(i, j int) bool {
		return changes[i].Path < changes[j].Path
	})
	return changes
}

func addTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watch %s: %w", path, err)
		}
		return nil
	})
}

// isHidden reports whether a file or directory name starts with a dot.
// "." and ".." are not hidden.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func isRegular(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
