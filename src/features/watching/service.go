package watching

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/contre95/lyr/src/features/lyrics"
	"github.com/contre95/lyr/src/infra/watcher"
)

// Embedder embeds lyrics into a single audio file.
type Embedder interface {
	EmbedFile(ctx context.Context, path string) error
}

// Stats counts what happened to the files seen by the watcher.
type Stats struct {
	Processed int `json:"processed"`
	Embedded  int `json:"embedded"`
	Skipped   int `json:"skipped"`
	NotFound  int `json:"notFound"`
	Failed    int `json:"failed"`
}

// Service embeds lyrics into files reported by a directory watcher.
type Service struct {
	embedder Embedder
	mu       sync.RWMutex
	stats    Stats
}

// NewService creates a new watching service
func NewService(embedder Embedder) *Service {
	return &Service{embedder: embedder}
}

// Process handles file events one at a time until ctx is cancelled or events is closed.
func (s *Service) Process(ctx context.Context, events <-chan watcher.FileEvent) error {
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return nil
			}
			s.handle(ctx, event.Path)
		case <-ctx.Done():
			stats := s.Stats()
			slog.Info("Stopped watching", "processed", stats.Processed, "embedded", stats.Embedded, "skipped", stats.Skipped, "notFound", stats.NotFound, "failed", stats.Failed)
			return ctx.Err()
		}
	}
}

// ScanDir embeds lyrics into every supported file under dir, one file at a time.
// Files that already carry lyrics are skipped.
func (s *Service) ScanDir(ctx context.Context, dir string) (Stats, error) {
	slog.Info("Scanning directory", "path", dir)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Warn("Failed to access path", "path", path, "error", err)
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !watcher.IsSupportedFile(path) {
			return nil
		}
		s.handle(ctx, path)
		return nil
	})

	stats := s.Stats()
	slog.Info("Directory scan finished", "path", dir, "processed", stats.Processed, "embedded", stats.Embedded, "skipped", stats.Skipped, "notFound", stats.NotFound, "failed", stats.Failed)
	return stats, err
}

// Stats returns a snapshot of the counters.
func (s *Service) Stats() Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stats
}

func (s *Service) handle(ctx context.Context, path string) {
	err := s.embedder.EmbedFile(ctx, path)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stats.Processed++

	switch {
	case err == nil:
		s.stats.Embedded++
		slog.Info("Processed new file", "path", path)
	case errors.Is(err, lyrics.ErrHasLyrics):
		s.stats.Skipped++
	case errors.Is(err, lyrics.ErrNoLyrics):
		s.stats.NotFound++
		slog.Warn("No lyrics found for new file", "path", path)
	case errors.Is(err, context.Canceled):
	default:
		s.stats.Failed++
		slog.Error("Failed to embed lyrics into new file", "path", path, "error", err)
	}
}
