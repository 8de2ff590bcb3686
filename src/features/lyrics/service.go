package lyrics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/contre95/lyr/src/features/config"
	"github.com/contre95/lyr/src/features/metrics"
	"github.com/contre95/lyr/src/infra/fetchers"
	"github.com/contre95/lyr/src/music"
	"github.com/gosimple/unidecode"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	// ErrNoLyrics is returned when every configured source failed.
	ErrNoLyrics = errors.New("no lyrics found")
	// ErrInvalidTags is returned when a file lacks the title or artist needed for a lookup.
	ErrInvalidTags = errors.New("the provided file does not have a title or artist available")
	// ErrMissingInput is returned when neither title and artist nor an input file were given.
	ErrMissingInput = errors.New("an input file is required unless both title and artist are given")
	// ErrHasLyrics is returned by EmbedFile when the file already carries lyrics.
	ErrHasLyrics = errors.New("file already has lyrics")
)

// Result is a successful lookup.
type Result struct {
	Lyrics string
	Source string
}

// RunOptions describes one command-line invocation.
type RunOptions struct {
	Title   string
	Artist  string
	Input   string // Audio file to read tags from and embed into
	NoEmbed bool   // Do not embed into Input
	Output  string // Text file to write the lyrics to
	Stdout  io.Writer
}

// Service provides lyrics functionality
type Service struct {
	fetcher   Fetcher
	tagReader TagReader
	tagWriter TagWriter
	config    *config.Manager
	recorder  metrics.Recorder
}

// NewService creates a new lyrics service
func NewService(fetcher Fetcher, tagReader TagReader, tagWriter TagWriter, config *config.Manager, recorder metrics.Recorder) *Service {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &Service{
		fetcher:   fetcher,
		tagReader: tagReader,
		tagWriter: tagWriter,
		config:    config,
		recorder:  recorder,
	}
}

// NewSearchParams case-normalizes a title and artist for lookups.
// With transliterate set, both are folded to ASCII first.
func NewSearchParams(title, artist string, transliterate bool) music.LyricsSearchParams {
	if transliterate {
		title = unidecode.Unidecode(title)
		artist = unidecode.Unidecode(artist)
	}
	lower := cases.Lower(language.Und)
	return music.LyricsSearchParams{
		Title:  lower.String(strings.TrimSpace(title)),
		Artist: lower.String(strings.TrimSpace(artist)),
	}
}

// FetchFirstAvailable tries each source in order and returns the first non-empty lyrics.
// Per-source failures are logged and skipped; only one request is in flight at a time.
func (s *Service) FetchFirstAvailable(ctx context.Context, sourceIDs []string, params music.LyricsSearchParams) (Result, error) {
	lookupID := music.GenerateID()
	slog.Debug("Starting lyrics lookup", "lookupID", lookupID, "title", params.Title, "artist", params.Artist, "sources", sourceIDs)

	for _, sourceID := range sourceIDs {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		start := time.Now()
		lyrics, err := s.fetcher.Fetch(ctx, sourceID, params)
		if err == nil && strings.TrimSpace(lyrics) == "" {
			err = fetchers.ErrNoMatches
		}
		s.recorder.ObserveFetch(sourceID, classify(err), time.Since(start))

		if err != nil {
			slog.Warn("Failed to fetch lyrics with source", "lookupID", lookupID, "source", sourceID, "title", params.Title, "artist", params.Artist, "error", err.Error())
			continue
		}

		s.recorder.ObserveLookup(true)
		slog.Info("Found lyrics with source", "lookupID", lookupID, "source", sourceID, "lyricsLength", len(lyrics))
		return Result{Lyrics: lyrics, Source: sourceID}, nil
	}

	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	s.recorder.ObserveLookup(false)
	slog.Info("No lyrics found with any source", "lookupID", lookupID, "title", params.Title, "artist", params.Artist, "sources", len(sourceIDs))
	return Result{}, ErrNoLyrics
}

// Lookup finds lyrics for a title and artist using the configured sources.
func (s *Service) Lookup(ctx context.Context, title, artist string) (string, string, error) {
	if strings.TrimSpace(title) == "" || strings.TrimSpace(artist) == "" {
		return "", "", ErrMissingInput
	}
	cfg := s.config.Get()
	result, err := s.FetchFirstAvailable(ctx, cfg.Fetchers, NewSearchParams(title, artist, cfg.Lyrics.Transliterate))
	if err != nil {
		return "", "", err
	}
	return result.Lyrics, result.Source, nil
}

// Run resolves lyrics for one invocation and delivers them.
// Without an output file and without embedding, lyrics go to stdout. Nothing is written
// unless the lookup succeeds.
func (s *Service) Run(ctx context.Context, opts RunOptions) error {
	params, err := s.resolveParams(ctx, opts)
	if err != nil {
		return err
	}

	result, err := s.FetchFirstAvailable(ctx, s.config.Get().Fetchers, params)
	if err != nil {
		return err
	}

	embed := opts.Input != "" && !opts.NoEmbed
	if opts.Output == "" && !embed {
		stdout := opts.Stdout
		if stdout == nil {
			stdout = os.Stdout
		}
		return writeTerminated(stdout, result.Lyrics)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, []byte(result.Lyrics), 0644); err != nil {
			return fmt.Errorf("failed to write lyrics file: %w", err)
		}
		slog.Info("Wrote lyrics file", "path", opts.Output, "source", result.Source)
	}

	if embed {
		if err := s.tagWriter.WriteLyrics(ctx, opts.Input, result.Lyrics); err != nil {
			return fmt.Errorf("failed to embed lyrics: %w", err)
		}
	}
	return nil
}

// EmbedFile looks up lyrics for an audio file from its own tags and embeds them.
// Files that already carry lyrics are left untouched and reported with ErrHasLyrics.
func (s *Service) EmbedFile(ctx context.Context, path string) error {
	track, err := s.tagReader.ReadFileTags(ctx, path)
	if err != nil {
		return err
	}
	if !track.HasSearchableTags() {
		return fmt.Errorf("%w: %s", ErrInvalidTags, path)
	}
	if track.Lyrics != "" {
		slog.Debug("Track already has lyrics", "path", path)
		return ErrHasLyrics
	}

	cfg := s.config.Get()
	result, err := s.FetchFirstAvailable(ctx, cfg.Fetchers, NewSearchParams(track.Title, track.Artist, cfg.Lyrics.Transliterate))
	if err != nil {
		return err
	}

	if cfg.Watch.NoEmbed {
		slog.Info("Skipping embed, disabled in configuration", "path", path, "source", result.Source)
		return nil
	}
	if err := s.tagWriter.WriteLyrics(ctx, path, result.Lyrics); err != nil {
		return fmt.Errorf("failed to embed lyrics: %w", err)
	}
	return nil
}

// GetLyricsProvidersInfo lists the configured sources in the order they are tried.
func (s *Service) GetLyricsProvidersInfo() []music.LyricsProviderInfo {
	known := s.fetcher.Sources()
	infos := make([]music.LyricsProviderInfo, 0, len(known))
	for _, id := range s.config.Get().Fetchers {
		if info, ok := known[id]; ok {
			info.Enabled = true
			infos = append(infos, info)
		}
	}
	return infos
}

func (s *Service) resolveParams(ctx context.Context, opts RunOptions) (music.LyricsSearchParams, error) {
	transliterate := s.config.Get().Lyrics.Transliterate
	if opts.Title != "" && opts.Artist != "" {
		return NewSearchParams(opts.Title, opts.Artist, transliterate), nil
	}
	if opts.Input == "" {
		return music.LyricsSearchParams{}, ErrMissingInput
	}

	track, err := s.tagReader.ReadFileTags(ctx, opts.Input)
	if err != nil {
		return music.LyricsSearchParams{}, err
	}
	if !track.HasSearchableTags() {
		return music.LyricsSearchParams{}, ErrInvalidTags
	}
	return NewSearchParams(track.Title, track.Artist, transliterate), nil
}

func writeTerminated(w io.Writer, lyrics string) error {
	if !strings.HasSuffix(lyrics, "\n") {
		lyrics += "\n"
	}
	_, err := io.WriteString(w, lyrics)
	return err
}

func classify(err error) metrics.Outcome {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, fetchers.ErrEmptyResponse):
		return metrics.OutcomeEmptyResponse
	case errors.Is(err, fetchers.ErrNoMatches):
		return metrics.OutcomeNoMatches
	case errors.Is(err, fetchers.ErrTransport):
		return metrics.OutcomeTransportError
	default:
		return metrics.OutcomeError
	}
}
