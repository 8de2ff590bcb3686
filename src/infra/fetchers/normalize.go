package fetchers

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrMalformedReference is returned when a numeric character reference does not name a valid code point.
var ErrMalformedReference = errors.New("malformed numeric character reference")

var (
	numericRefRegex = regexp.MustCompile(`&#(\d{1,5}|[xX][0-9A-Fa-f]{1,5});`)
	blockTagRegex   = regexp.MustCompile(`(?i)</?(?:br|p)(?:\s[^>]*)?/?>`)
	htmlTagRegex    = regexp.MustCompile(`<[^>]+>`)

	// Order matters: at each position the first listed entity that matches wins.
	entityReplacer = strings.NewReplacer(
		"&nbsp;", " ",
		"&lt;", "<",
		"&gt;", ">",
		"&amp;", "&",
		"&quot;", `"`,
		"&apos;", "'",
		"&cent;", "¢",
		"&pound;", "£",
		"&yen;", "¥",
		"&euro;", "€",
		"&copy;", "©",
		"&reg;", "®",
		"&ndash;", "–",
		"&mdash;", "—",
	)
)

// Normalize turns a scraped HTML fragment into plain line-oriented text.
// Numeric references are decoded first, <br> and <p> tags become newlines before the
// remaining markup is stripped, and named entities are decoded last.
func Normalize(raw string) (string, error) {
	text, err := decodeNumericReferences(raw)
	if err != nil {
		return "", err
	}

	text = blockTagRegex.ReplaceAllString(text, "\n")
	text = htmlTagRegex.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)

	return strings.TrimLeft(text, " \t\r\n"), nil
}

func decodeNumericReferences(text string) (string, error) {
	var firstErr error
	decoded := numericRefRegex.ReplaceAllStringFunc(text, func(ref string) string {
		if firstErr != nil {
			return ref
		}
		r, err := parseReference(numericRefRegex.FindStringSubmatch(ref)[1])
		if err != nil {
			firstErr = fmt.Errorf("%w: %s", err, ref)
			return ref
		}
		return string(r)
	})
	if firstErr != nil {
		return "", firstErr
	}
	return decoded, nil
}

func parseReference(body string) (rune, error) {
	digits, base := body, 10
	if body[0] == 'x' || body[0] == 'X' {
		digits, base = body[1:], 16
	}
	n, err := strconv.ParseUint(digits, base, 32)
	if err != nil {
		return 0, ErrMalformedReference
	}
	r := rune(n)
	if !utf8.ValidRune(r) {
		return 0, ErrMalformedReference
	}
	return r, nil
}
