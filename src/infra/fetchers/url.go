package fetchers

import (
	"regexp"
	"strings"
)

// Apostrophe controls how a source's URL scheme treats apostrophes.
type Apostrophe int

const (
	// ApostropheStrip removes apostrophes: O'Brien -> OBrien.
	ApostropheStrip Apostrophe = iota
	// ApostropheReplaceWithSeparator swaps apostrophes for the word separator: O'Brien -> O-Brien.
	ApostropheReplaceWithSeparator
)

func (a Apostrophe) String() string {
	if a == ApostropheReplaceWithSeparator {
		return "replace"
	}
	return "strip"
}

var featuresRegex = regexp.MustCompile(` ?\((?:with|feat).*?\)`)

// BuildURL fills a source URL template with the given title and artist.
// No percent-encoding is performed; provider URL shapes are ASCII-safe in practice.
func BuildURL(template, separator string, apostrophe Apostrophe, title, artist string) string {
	if loc := featuresRegex.FindStringIndex(title); loc != nil {
		title = title[:loc[0]] + title[loc[1]:]
	}

	words := strings.NewReplacer("_", separator, "-", separator, " ", separator)
	quote := ""
	if apostrophe == ApostropheReplaceWithSeparator {
		quote = separator
	}

	title = words.Replace(strings.ReplaceAll(title, "'", quote))
	artist = words.Replace(strings.ReplaceAll(artist, "'", quote))

	url := strings.ReplaceAll(template, "%artist%", artist)
	return strings.ReplaceAll(url, "%title%", title)
}
