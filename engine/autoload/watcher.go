package autoload

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/romdo/go-debounce"

	"github.com/compozy/licensegen/pkg/logger"
)

const (
	// DefaultDebounce batches bursts of editor writes into one reload.
	DefaultDebounce = 200 * time.Millisecond
	maxDebounceWait = 2 * time.Second
)

// ignoredDirs contains directories that should be skipped during file watching
var ignoredDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	".idea":        true,
	".vscode":      true,
	"vendor":       true,
	"tmp":          true,
	".cache":       true,
}

// Watcher reports changes to catalog files below an on-disk root.
type Watcher struct {
	root   string
	config *Config
	wait   time.Duration
}

// NewWatcher creates a watcher for the files config selects under its root.
func NewWatcher(config *Config, wait time.Duration) *Watcher {
	if config == nil {
		config = NewConfig()
	}
	if wait <= 0 {
		wait = DefaultDebounce
	}
	return &Watcher{root: config.Root, config: config, wait: wait}
}

// Run blocks until ctx is done, calling onChange with the sorted relative
// paths of catalog files touched since the previous call. Calls to onChange
// never overlap; changes seen during a call are delivered by the next one.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, changed []string)) error {
	log := logger.FromContext(ctx)
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsWatcher.Close()
	dirs, err := w.addDirs(fsWatcher, w.root)
	if err != nil {
		return err
	}
	log.Info("Catalog watcher initialized", "root", w.root, "watched_directories", dirs)

	var mu, running sync.Mutex
	pending := make(map[string]bool)
	flush := func() {
		running.Lock()
		defer running.Unlock()
		mu.Lock()
		changed := make([]string, 0, len(pending))
		for file := range pending {
			changed = append(changed, file)
		}
		clear(pending)
		mu.Unlock()
		if len(changed) == 0 || ctx.Err() != nil {
			return
		}
		slices.Sort(changed)
		onChange(ctx, changed)
	}
	debounced, cancel := debounce.NewWithMaxWait(w.wait, maxDebounceWait, flush)
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fsWatcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				w.watchNewDir(ctx, fsWatcher, event.Name)
			}
			rel, relevant := w.relevant(event)
			if !relevant {
				continue
			}
			log.Debug("Catalog file changed", "file", rel, "op", event.Op.String())
			mu.Lock()
			pending[rel] = true
			mu.Unlock()
			debounced()
		case err, ok := <-fsWatcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("File watcher error", "error", err)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return "", false
	}
	rel, err := filepath.Rel(w.root, event.Name)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	return rel, matchesAny(rel, w.config.Include, w.config.GetAllExcludes())
}

func (w *Watcher) addDirs(fsWatcher *fsnotify.Watcher, root string) (int, error) {
	count := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && ignoredDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := fsWatcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		count++
		return nil
	})
	if err != nil {
		return count, fmt.Errorf("failed to walk catalog directory: %w", err)
	}
	return count, nil
}

func (w *Watcher) watchNewDir(ctx context.Context, fsWatcher *fsnotify.Watcher, path string) {
	if ignoredDirs[filepath.Base(path)] {
		return
	}
	if _, err := w.addDirs(fsWatcher, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.FromContext(ctx).Debug("Skipping new path", "path", path, "error", err)
	}
}
