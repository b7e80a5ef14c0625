package rules

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"plannerd/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-parses rules documents as they change on disk so that a broken
// file is reported in the logs before a tool call trips over it. It never
// caches documents.
type Watcher struct {
	mu          sync.RWMutex
	fsw         *fsnotify.Watcher
	loader      *Loader
	debounceMap map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats WatcherStats
}

// WatcherStats tracks watcher activity.
type WatcherStats struct {
	FilesCreated  int
	FilesModified int
	FilesDeleted  int
	Validated     int
	Invalid       int
	Errors        int
	LastEventTime time.Time
	LastEventPath string
	LastEventType string
	LastInvalidID string
}

// NewWatcher creates a watcher for the loader's directory.
func NewWatcher(loader *Loader) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		fsw:         fsw,
		loader:      loader,
		debounceMap: make(map[string]time.Time),
		debounceDur: 300 * time.Millisecond, // editors save in bursts
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// SetDebounce changes the settle window. Call before Start.
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounceDur = d
}

// Start begins watching. It is non-blocking.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.fsw.Add(w.loader.Dir()); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	logging.Rules("watching rules directory %s", w.loader.Dir())

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		_ = w.fsw.Close()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.fsw.Close(); err != nil {
		logging.RulesError("rules watcher: error closing: %v", err)
	}
	logging.Rules("rules watcher stopped")
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			logging.RulesError("rules watcher error: %v", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		case <-ticker.C:
			w.processDebounced()
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, Ext) {
		return
	}

	var eventType string
	switch {
	case event.Op&fsnotify.Create != 0:
		eventType = "create"
	case event.Op&fsnotify.Write != 0:
		eventType = "modify"
	case event.Op&fsnotify.Remove != 0:
		eventType = "delete"
	case event.Op&fsnotify.Rename != 0:
		eventType = "rename"
	default:
		return
	}
	logging.RulesDebug("rules watcher: %s %s", eventType, event.Name)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.LastEventTime = time.Now()
	w.stats.LastEventPath = event.Name
	w.stats.LastEventType = eventType

	switch eventType {
	case "create":
		w.stats.FilesCreated++
	case "modify":
		w.stats.FilesModified++
	case "delete", "rename":
		w.stats.FilesDeleted++
	}
	w.debounceMap[event.Name] = time.Now()
}

func (w *Watcher) processDebounced() {
	w.mu.Lock()
	now := time.Now()
	var settled []string
	for path, at := range w.debounceMap {
		if now.Sub(at) >= w.debounceDur {
			settled = append(settled, path)
			delete(w.debounceMap, path)
		}
	}
	w.mu.Unlock()

	for _, path := range settled {
		w.validate(strings.TrimSuffix(filepath.Base(path), Ext))
	}
}

func (w *Watcher) validate(id string) {
	res, err := w.loader.Load(id)

	w.mu.Lock()
	defer w.mu.Unlock()
	switch {
	case err != nil:
		w.stats.Invalid++
		w.stats.LastInvalidID = id
		logging.RulesWarn("rules %q is invalid: %v", id, err)
	case !res.IsFound():
		logging.Rules("rules %q removed", id)
	default:
		w.stats.Validated++
		logging.Rules("rules %q reloaded from disk (%d keys)", id, len(res.Document()))
	}
}

// CheckAll validates every document currently in the directory.
func (w *Watcher) CheckAll() error {
	ids, err := w.loader.List()
	if err != nil {
		return err
	}
	for _, id := range ids {
		w.validate(id)
	}
	return nil
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() WatcherStats {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.stats
}
