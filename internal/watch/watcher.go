// Package watch rebuilds the gallery when the source tree changes or on a schedule.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/gallerybuilder/internal/logfields"
)

// Watcher reports debounced changes below a set of roots. Each root and its
// immediate subdirectories are watched, matching how collections are discovered.
type Watcher struct {
	roots    []string
	watcher  *fsnotify.Watcher
	debounce time.Duration
	notify   func()

	mu    sync.Mutex
	timer *time.Timer
	done  chan struct{}
}

// NewWatcher creates a watcher calling notify at most once per debounce window.
func NewWatcher(debounce time.Duration, notify func(), roots ...string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	abs := make([]string, 0, len(roots))
	for _, root := range roots {
		if root == "" {
			continue
		}
		p, err := filepath.Abs(root)
		if err != nil {
			_ = fw.Close()
			return nil, fmt.Errorf("failed to resolve watch path %s: %w", root, err)
		}
		abs = append(abs, p)
	}
	return &Watcher{
		roots:    abs,
		watcher:  fw,
		debounce: debounce,
		notify:   notify,
		done:     make(chan struct{}),
	}, nil
}

// Start adds the watches and begins processing events until ctx is done or Close is called.
func (w *Watcher) Start(ctx context.Context) error {
	for _, root := range w.roots {
		if err := w.watcher.Add(root); err != nil {
			return fmt.Errorf("failed to watch %s: %w", root, err)
		}
		entries, err := os.ReadDir(root)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", root, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				w.add(filepath.Join(root, e.Name()))
			}
		}
		slog.Info("Watching for changes", logfields.Path(root))
	}
	go w.loop(ctx)
	return nil
}

// Close stops the watcher. Pending debounced notifications are dropped.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	select {
	case <-w.done:
	default:
		close(w.done)
	}
	w.mu.Unlock()
	return w.watcher.Close()
}

func (w *Watcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", logfields.Error(err))
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	// Temporary files from editors and atomic writes start with a dot.
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	if event.Has(fsnotify.Create) && w.isRootChild(event.Name) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			w.add(event.Name)
		}
	}
	slog.Debug("Source change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
	w.schedule()
}

func (w *Watcher) isRootChild(path string) bool {
	parent := filepath.Dir(path)
	for _, root := range w.roots {
		if parent == root {
			return true
		}
	}
	return false
}

func (w *Watcher) add(dir string) {
	if err := w.watcher.Add(dir); err != nil {
		slog.Warn("Failed to watch directory", logfields.Path(dir), logfields.Error(err))
	}
}

func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()
	select {
	case <-w.done:
		return
	default:
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notify)
}
