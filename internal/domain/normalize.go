package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// normalizer strips combining marks so that accented and unaccented
// spellings of the same word map to one catalog key.
var normalizer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// NormalizeText produces the canonical catalog key for a piece of source
// text: surrounding whitespace is trimmed, inner whitespace runs collapse
// to a single space, combining marks are removed, and the result is
// lower-cased. Two requests whose input normalizes to the same string
// refer to the same shared card.
func NormalizeText(text string) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	stripped, _, err := transform.String(normalizer, collapsed)
	if err != nil {
		// The transform chain only fails on malformed UTF-8; fall back
		// to the collapsed input rather than dropping the request.
		stripped = collapsed
	}
	return strings.ToLower(stripped)
}
