// Package watch reports batches of changed graph and manifest files.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/shadergrid/internal/ctxlog"
)

// DefaultDebounce is the quiet period after the last event before a batch is
// delivered.
const DefaultDebounce = 150 * time.Millisecond

// Handler receives the deduplicated paths of one batch, in the order they
// first changed.
type Handler func(ctx context.Context, paths []string)

// Watcher watches .hcl files under a set of roots. Directories are watched
// rather than the files themselves, so editors that save by rename are seen.
// Events for a file root's siblings are dropped.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	handler  Handler
	// files and dirs are the absolute roots events are matched against.
	files map[string]struct{}
	dirs  []string
}

// New creates a watcher for roots. Each root may be a file or a directory;
// directories are watched recursively.
func New(handler Handler, debounce time.Duration, roots ...string) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &Watcher{fsw: fsw, debounce: debounce, handler: handler, files: make(map[string]struct{})}
	for _, root := range roots {
		if err := w.add(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", root, err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return fmt.Errorf("cannot watch %s: %w", root, err)
	}
	if !info.IsDir() {
		w.files[abs] = struct{}{}
		return w.fsw.Add(filepath.Dir(root))
	}
	w.dirs = append(w.dirs, abs)
	return w.walk(root)
}

func (w *Watcher) walk(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
}

// wants reports whether name is a watched file root or lies under a watched
// directory root.
func (w *Watcher) wants(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	if _, ok := w.files[abs]; ok {
		return true
	}
	for _, dir := range w.dirs {
		rel, err := filepath.Rel(dir, abs)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Run delivers batches to the handler until ctx is cancelled. It closes the
// underlying watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	defer w.fsw.Close()

	var batch []string
	seen := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 {
			logger.Debug("Delivering file changes.", "count", len(batch))
			w.handler(ctx, batch)
		}
		batch = nil
		seen = make(map[string]struct{})
		timerC = nil
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.wants(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = w.walk(event.Name)
					continue
				}
			}
			if filepath.Ext(event.Name) != ".hcl" || (event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write)) {
				continue
			}
			logger.Debug("File changed.", "path", event.Name, "op", event.Op.String())
			if _, dup := seen[event.Name]; !dup {
				seen[event.Name] = struct{}{}
				batch = append(batch, event.Name)
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			flush()

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)
		}
	}
}
