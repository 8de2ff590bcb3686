package tag

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/contre95/lyr/src/music"
	"github.com/dhowden/tag"
)

// TagReader reads the tags needed for lyrics lookups using the dhowden/tag library.
type TagReader struct{}

// NewTagReader creates a new TagReader
func NewTagReader() *TagReader {
	return &TagReader{}
}

// ReadFileTags reads title, artist, album and any embedded lyrics from a music file.
// Missing tags are returned as empty strings; callers decide whether that is fatal.
func (r *TagReader) ReadFileTags(ctx context.Context, filePath string) (*music.Track, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	tags, err := tag.ReadFrom(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read file tags: %w", err)
	}

	track := music.NewTrack(filePath, tags.Title(), tags.Artist())
	track.Album = tags.Album()
	track.Lyrics = tags.Lyrics()
	if track.Lyrics == "" {
		track.Lyrics = readRawLyrics(tags.Raw())
	}
	return track, nil
}

// readRawLyrics looks for lyrics under the field names used by the different tag formats.
func readRawLyrics(raw map[string]interface{}) string {
	for _, field := range []string{"LYRICS", "UNSYNCEDLYRICS", "lyrics", "unsyncedlyrics"} {
		switch value := raw[field].(type) {
		case string:
			if strings.TrimSpace(value) != "" {
				return value
			}
		case []byte:
			if len(value) > 0 {
				return string(value)
			}
		}
	}
	return ""
}
