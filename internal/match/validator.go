package match

import (
	"strings"
	"unicode/utf8"

	"github.com/boomparty/server/internal/words"
)

// Lexicon is the external word-existence oracle. Implementations must be
// safe for concurrent use and fast enough to call while the match lock is
// held (an in-memory set qualifies).
type Lexicon interface {
	Contains(word string) bool
}

const minWordLength = 4

// validateWord runs the validation pipeline in strict order, stopping at the
// first failure so the submitter always sees the highest-priority reason:
// length, fragment, novelty, existence. On success it returns the normalized
// word ready for insertion into the used set.
func validateWord(raw, fragment string, used map[string]struct{}, lexicon Lexicon) (string, *RejectionError) {
	normalized := words.Normalize(raw)

	if utf8.RuneCountInString(normalized) < minWordLength {
		return "", rejection(ReasonTooShort, "the word must be at least %d letters long", minWordLength)
	}
	if !strings.Contains(normalized, words.Normalize(fragment)) {
		return "", rejection(ReasonMissingFragment, "the word must contain %q", fragment)
	}
	if _, ok := used[normalized]; ok {
		return "", rejection(ReasonAlreadyUsed, "%q has already been used", normalized)
	}
	if !lexicon.Contains(normalized) {
		return "", rejection(ReasonNotAWord, "%q is not in the dictionary", normalized)
	}

	return normalized, nil
}
