package watcher

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a new file must stay unchanged before it is emitted.
const DefaultDebounce = 5 * time.Second

var supportedExtensions = map[string]bool{
	".mp3":  true,
	".flac": true,
}

// Watcher monitors a directory for new audio files and emits one event per settled file.
type Watcher struct {
	watcher   *fsnotify.Watcher
	watchPath string
	debounce  time.Duration
	eventChan chan<- FileEvent

	mu      sync.Mutex
	pending map[string]*time.Timer
	running bool
}

// NewWatcher creates a new file system watcher
func NewWatcher(eventChan chan<- FileEvent, debounce time.Duration) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		watcher:   watcher,
		debounce:  debounce,
		eventChan: eventChan,
		pending:   make(map[string]*time.Timer),
	}, nil
}

// Start begins watching watchPath. Events are processed until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context, watchPath string) error {
	w.watchPath = watchPath
	slog.Info("Starting file watcher", "path", watchPath, "debounce", w.debounce)

	if err := w.watcher.Add(watchPath); err != nil {
		return err
	}

	w.mu.Lock()
	w.running = true
	w.mu.Unlock()

	go w.watchLoop(ctx)
	return nil
}

// Stop stops the file watcher and drops files still waiting out their debounce.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	w.mu.Unlock()

	slog.Info("Stopping file watcher")
	w.watcher.Close()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			slog.Error("File watcher error", "error", err)

		case <-ctx.Done():
			w.Stop()
			return
		}
	}
}

// handleEvent schedules created audio files. Writes to a file that is still pending
// restart its timer, so a file being copied in is emitted once the copy settles.
// Writes to files that are not pending, such as our own tag updates, are ignored.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !IsSupportedFile(event.Name) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	timer, isPending := w.pending[event.Name]
	switch {
	case event.Has(fsnotify.Create):
		slog.Info("Detected new supported file", "file", event.Name)
	case event.Has(fsnotify.Write) && isPending:
	default:
		return
	}

	if isPending {
		timer.Stop()
	}
	path := event.Name
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.emit(path)
	})
}

func (w *Watcher) emit(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	w.mu.Unlock()

	event := FileEvent{
		Path:      path,
		EventType: FileCreated,
		Timestamp: time.Now(),
	}

	select {
	case w.eventChan <- event:
		slog.Debug("Emitted file event after debounce", "path", event.Path)
	default:
		slog.Warn("Event channel full, dropping file event", "path", event.Path)
	}
}

// IsSupportedFile reports whether lyrics can be embedded into the file, judging by its extension.
func IsSupportedFile(filePath string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(filePath))]
}
