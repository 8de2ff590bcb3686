package lyrics

import (
	"context"

	"github.com/contre95/lyr/src/music"
)

// Fetcher queries a single lyrics source.
type Fetcher interface {
	// Fetch returns the lyrics text from the source identified by sourceID.
	Fetch(ctx context.Context, sourceID string, params music.LyricsSearchParams) (string, error)

	// Sources describes every source the fetcher knows about, keyed by identifier.
	Sources() map[string]music.LyricsProviderInfo
}

// TagWriter interface for writing lyrics into audio files
type TagWriter interface {
	WriteLyrics(ctx context.Context, path string, lyrics string) error
}

// TagReader interface for reading tags
type TagReader interface {
	ReadFileTags(ctx context.Context, path string) (*music.Track, error)
}
