// Package words owns the lexicon and the single normalization policy used
// for word comparison: upper-case, diacritics stripped. Every component that
// compares words (validator, used-word set, lexicon lookup) goes through
// Normalize so no two paths disagree on accents.
package words

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize returns the canonical form of a word: diacritics removed,
// upper-cased, surrounding whitespace trimmed. "éléphant" and "ELEPHANT"
// normalize to the same string.
func Normalize(word string) string {
	stripped, _, err := transform.String(stripMarks, word)
	if err != nil {
		stripped = word
	}
	return strings.ToUpper(strings.TrimSpace(stripped))
}
