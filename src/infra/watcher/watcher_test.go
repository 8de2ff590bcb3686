package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestIsSupportedFile(t *testing.T) {
	tests := map[string]bool{
		"/music/song.mp3":  true,
		"/music/SONG.FLAC": true,
		"/music/cover.jpg": false,
		"/music/notes":     false,
	}
	for path, want := range tests {
		if got := IsSupportedFile(path); got != want {
			t.Errorf("IsSupportedFile(%q) = %v, want %v", path, got, want)
		}
	}
}

func newTestWatcher(t *testing.T, debounce time.Duration) (*Watcher, chan FileEvent) {
	t.Helper()
	events := make(chan FileEvent, 10)
	w, err := NewWatcher(events, debounce)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	t.Cleanup(func() { w.watcher.Close() })
	return w, events
}

func TestHandleEvent_DebouncesPerFile(t *testing.T) {
	w, events := newTestWatcher(t, 50*time.Millisecond)

	w.handleEvent(fsnotify.Event{Name: "/music/a.mp3", Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: "/music/b.flac", Op: fsnotify.Create})
	w.handleEvent(fsnotify.Event{Name: "/music/a.mp3", Op: fsnotify.Write})
	w.handleEvent(fsnotify.Event{Name: "/music/cover.jpg", Op: fsnotify.Create})

	seen := map[string]int{}
	timeout := time.After(2 * time.Second)
	for len(seen) < 2 {
		select {
		case event := <-events:
			seen[event.Path]++
			if event.EventType != FileCreated {
				t.Errorf("unexpected event type %s", event.EventType)
			}
		case <-timeout:
			t.Fatalf("timed out waiting for events, got %v", seen)
		}
	}

	select {
	case event := <-events:
		t.Errorf("unexpected extra event %+v", event)
	case <-time.After(150 * time.Millisecond):
	}
	if seen["/music/a.mp3"] != 1 || seen["/music/b.flac"] != 1 {
		t.Errorf("expected one event per file, got %v", seen)
	}
}

func TestHandleEvent_IgnoresWritesToSettledFiles(t *testing.T) {
	w, events := newTestWatcher(t, 20*time.Millisecond)

	w.handleEvent(fsnotify.Event{Name: "/music/a.mp3", Op: fsnotify.Write})
	select {
	case event := <-events:
		t.Errorf("unexpected event %+v", event)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestWatcher_DetectsNewFiles(t *testing.T) {
	dir := t.TempDir()
	w, events := newTestWatcher(t, 50*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx, dir); err != nil {
		t.Fatalf("failed to start watcher: %v", err)
	}
	defer w.Stop()

	path := filepath.Join(dir, "new.mp3")
	if err := os.WriteFile(path, []byte("audio"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	select {
	case event := <-events:
		if event.Path != path {
			t.Errorf("expected %s, got %s", path, event.Path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for file event")
	}
}
