package music

import (
	"path/filepath"
	"strings"
)

// Track represents a single audio file and the tags relevant to lyrics lookups.
type Track struct {
	Path   string
	Title  string
	Artist string
	Album  string
	Format string
	Lyrics string
}

// NewTrack builds a Track for the file at path, deriving the format from its extension.
func NewTrack(path, title, artist string) *Track {
	return &Track{
		Path:   path,
		Title:  strings.TrimSpace(title),
		Artist: strings.TrimSpace(artist),
		Format: strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), "."),
	}
}

// HasSearchableTags reports whether the track carries both a title and an artist.
func (t *Track) HasSearchableTags() bool {
	return strings.TrimSpace(t.Title) != "" && strings.TrimSpace(t.Artist) != ""
}
