package fetchers

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// ErrUnknownSource is returned when a source identifier is not registered.
var ErrUnknownSource = errors.New("unknown lyrics source")

// Source describes how a single lyrics provider is queried and scraped.
// Sources are immutable once built and safe to share between lookups.
type Source struct {
	ID            string
	DisplayName   string
	WordSeparator string
	Apostrophe    Apostrophe
	URLTemplate   string
	// Pattern captures the raw lyrics HTML in its first group. It may match several times.
	Pattern *regexp.Regexp
	// PostProcess reports whether the captured text still carries HTML to normalize.
	PostProcess bool
}

// URL builds the request URL for the given title and artist.
func (s Source) URL(title, artist string) string {
	return BuildURL(s.URLTemplate, s.WordSeparator, s.Apostrophe, title, artist)
}

var defaultSources = []Source{
	{
		ID:            "azlyrics",
		DisplayName:   "AZLyrics",
		WordSeparator: "",
		Apostrophe:    ApostropheStrip,
		URLTemplate:   "https://azlyrics.com/lyrics/%artist%/%title%.html",
		Pattern:       regexp.MustCompile(`(?s)<!-- Usage of azlyrics\.com content by any third-party lyrics provider is prohibited by our licensing agreement\. Sorry about that\. -->(.*?)</div>`),
		PostProcess:   true,
	},
	{
		ID:            "genius",
		DisplayName:   "Genius",
		WordSeparator: "-",
		Apostrophe:    ApostropheStrip,
		URLTemplate:   "https://genius.com/%artist%-%title%-lyrics",
		Pattern:       regexp.MustCompile(`(?s)<div[^>]*?class="(?:lyrics|Lyrics__Container)[^>]*>(.*?)</div>`),
		PostProcess:   true,
	},
	{
		ID:            "jahlyrics",
		DisplayName:   "Jah Lyrics",
		WordSeparator: "-",
		Apostrophe:    ApostropheStrip,
		URLTemplate:   "https://jah-lyrics.com/song/%artist%-%title%",
		Pattern:       regexp.MustCompile(`(?s)<div class="song-header">.*?</div>(.*?)<p class="disclaimer">`),
		PostProcess:   true,
	},
	{
		ID:            "musixmatch",
		DisplayName:   "Musixmatch",
		WordSeparator: "-",
		Apostrophe:    ApostropheReplaceWithSeparator,
		URLTemplate:   "https://www.musixmatch.com/lyrics/%artist%/%title%",
		Pattern:       regexp.MustCompile(`(?s)<span class="lyrics__content__[^>]*>(.*?)</span>`),
		PostProcess:   false,
	},
}

// DefaultSources returns the built-in lyrics sources.
func DefaultSources() []Source {
	out := make([]Source, len(defaultSources))
	copy(out, defaultSources)
	return out
}

// Registry indexes sources by identifier.
type Registry struct {
	sources map[string]Source
}

// NewRegistry builds a registry from the given sources. Identifiers must be unique and non-empty.
func NewRegistry(sources ...Source) (*Registry, error) {
	r := &Registry{sources: make(map[string]Source, len(sources))}
	for _, s := range sources {
		if s.ID == "" {
			return nil, fmt.Errorf("source has an empty identifier: %q", s.DisplayName)
		}
		if s.Pattern == nil {
			return nil, fmt.Errorf("source %s has no extraction pattern", s.ID)
		}
		if _, exists := r.sources[s.ID]; exists {
			return nil, fmt.Errorf("duplicate source identifier: %s", s.ID)
		}
		r.sources[s.ID] = s
	}
	return r, nil
}

// NewRegistryMust is like NewRegistry but panics on invalid input.
func NewRegistryMust(sources ...Source) *Registry {
	r, err := NewRegistry(sources...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the source registered under id.
func (r *Registry) Get(id string) (Source, error) {
	s, ok := r.sources[id]
	if !ok {
		return Source{}, fmt.Errorf("%w: %s", ErrUnknownSource, id)
	}
	return s, nil
}

// IDs returns every registered identifier, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.sources))
	for id := range r.sources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
