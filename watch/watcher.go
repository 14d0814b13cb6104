// Package watch reports changes to shape files matched by glob patterns.
package watch

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/zeebo/blake3"

	"github.com/c360studio/semcred/shape"
)

// DefaultDebounce is how long changes are collected before they are
// reported.
const DefaultDebounce = 200 * time.Millisecond

// Config configures the watcher
type Config struct {
	// Patterns are the shape file globs; their static prefixes are watched
	Patterns []string

	// Loaders decides which extensions count as shape files
	Loaders *shape.Registry

	// Debounce is how long to wait for more changes before reporting
	Debounce time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// Op is the type of change
type Op string

const (
	OpCreate Op = "create"
	OpModify Op = "modify"
	OpDelete Op = "delete"
)

// Event is a change to one shape file
type Event struct {
	Path string
	Op   Op
}

type change struct {
	op fsnotify.Op
	at time.Time
}

// Watcher watches shape files and emits debounced, de-duplicated events
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Debouncing: collect changes before processing
	pendingMu sync.Mutex
	pending   map[string]change // path → most recent operation

	// State tracking for change detection
	hashMu sync.RWMutex
	hashes map[string]string // path → content hash

	events  chan Event
	done    chan struct{}
	started atomic.Bool
}

// New creates a watcher. Call Start to begin watching.
func New(config Config) (*Watcher, error) {
	if len(config.Patterns) == 0 {
		return nil, fmt.Errorf("no patterns to watch")
	}
	if config.Loaders == nil {
		config.Loaders = shape.DefaultRegistry
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]change),
		hashes:  make(map[string]string),
		events:  make(chan Event, 100),
		done:    make(chan struct{}),
	}, nil
}

// Events returns the channel of watch events. It is closed when the watcher
// stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start adds watches under the static prefix of every pattern and begins
// processing events.
func (w *Watcher) Start(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return fmt.Errorf("watcher already started")
	}
	for _, root := range Roots(w.config.Patterns) {
		if err := w.addWatchesRecursive(root); err != nil {
			w.started.Store(false)
			return fmt.Errorf("watch %s: %w", root, err)
		}
	}

	go w.processEvents(ctx)

	w.logger.Info("File watcher started",
		"patterns", w.config.Patterns,
		"debounce", w.config.Debounce)
	return nil
}

// Stop stops the watcher and waits for the event loop to exit. A watcher
// that was never started can be stopped too; it cannot be started after.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	if w.started.CompareAndSwap(false, true) {
		// No event loop runs to close the channels.
		close(w.events)
		close(w.done)
	}
	<-w.done
	return err
}

// Seed records the current content hashes of paths, so an initial compile
// is not followed by spurious modify events.
func (w *Watcher) Seed(paths []string) {
	for _, p := range paths {
		if hash, err := hashFile(p); err == nil {
			w.setHash(p, hash)
		}
	}
}

func (w *Watcher) setHash(path, hash string) {
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	w.hashes[path] = hash
}

func (w *Watcher) getHash(path string) (string, bool) {
	w.hashMu.RLock()
	defer w.hashMu.RUnlock()
	hash, ok := w.hashes[path]
	return hash, ok
}

// Roots returns the directories to watch for patterns: the part of each
// pattern before its first meta character, deduplicated.
func Roots(patterns []string) []string {
	seen := make(map[string]bool)
	var roots []string
	for _, p := range patterns {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(p))
		root := filepath.FromSlash(base)
		if info, err := os.Stat(root); err == nil && !info.IsDir() {
			root = filepath.Dir(root)
		}
		if !seen[root] {
			seen[root] = true
			roots = append(roots, root)
		}
	}
	return roots
}

// matches reports whether path is a shape file selected by the patterns.
func (w *Watcher) matches(path string) bool {
	if !w.config.Loaders.Supports(path) {
		return false
	}
	slashed := filepath.ToSlash(path)
	for _, p := range w.config.Patterns {
		if ok, _ := doublestar.Match(filepath.ToSlash(p), slashed); ok {
			return true
		}
	}
	return false
}

func skipDir(path string) bool {
	base := filepath.Base(path)
	return base != "." && base != ".." && strings.HasPrefix(base, ".")
}

// addWatchesRecursive adds watches to all directories
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && skipDir(path) {
			return filepath.SkipDir
		}

		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory",
				"path", path,
				"error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}
		return nil
	})
}

// processEvents handles fsnotify events with debouncing
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	defer close(w.events)

	ticker := time.NewTicker(w.config.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent processes a single fsnotify event
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			w.handleNewDirectory(path)
			return
		}
	}
	if !w.matches(path) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = change{op: event.Op, at: time.Now()}
	w.pendingMu.Unlock()

	w.logger.Debug("File change detected",
		"path", path,
		"op", event.Op.String())
}

// handleNewDirectory adds a watch to a newly created directory
func (w *Watcher) handleNewDirectory(path string) {
	if skipDir(path) {
		return
	}
	if err := w.addWatchesRecursive(path); err != nil {
		w.logger.Warn("Failed to watch new directory",
			"path", path,
			"error", err)
	}
}

// flushPending reports changes that have been quiet for the debounce
// interval.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	toProcess := make(map[string]fsnotify.Op)
	for path, c := range w.pending {
		if time.Since(c.at) >= w.config.Debounce {
			toProcess[path] = c.op
			delete(w.pending, path)
		}
	}
	w.pendingMu.Unlock()

	for path, op := range toProcess {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			w.forget(path)
			continue
		}

		hash, err := hashFile(path)
		if os.IsNotExist(err) {
			w.forget(path)
			continue
		}
		if err != nil {
			w.logger.Warn("Failed to read changed file", "path", path, "error", err)
			continue
		}

		// Check if content actually changed
		oldHash, hadHash := w.getHash(path)
		if hadHash && oldHash == hash {
			continue
		}
		w.setHash(path, hash)

		event := Event{Path: path, Op: OpModify}
		if !hadHash {
			event.Op = OpCreate
		}
		w.sendEvent(event)
	}
}

func (w *Watcher) forget(path string) {
	w.hashMu.Lock()
	delete(w.hashes, path)
	w.hashMu.Unlock()
	w.sendEvent(Event{Path: path, Op: OpDelete})
}

// sendEvent sends an event to the output channel
func (w *Watcher) sendEvent(event Event) {
	select {
	case w.events <- event:
		w.logger.Debug("Sent watch event",
			"path", event.Path,
			"op", event.Op)
	default:
		w.logger.Warn("Event channel full, dropping event",
			"path", event.Path)
	}
}

func hashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
