package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boomparty/server/internal/words"
)

func testLexicon(entries ...string) *words.Lexicon {
	return words.NewLexicon(entries)
}

func TestValidateWordAccepts(t *testing.T) {
	lex := testLexicon("gravier", "éléphant")
	used := map[string]struct{}{}

	got, rej := validateWord("gravier", "RA", used, lex)
	require.Nil(t, rej)
	assert.Equal(t, "GRAVIER", got)
}

func TestValidateWordNormalizesAccents(t *testing.T) {
	lex := testLexicon("éléphant")
	used := map[string]struct{}{}

	got, rej := validateWord("ÉLÉPHANT", "LE", used, lex)
	require.Nil(t, rej)
	assert.Equal(t, "ELEPHANT", got)

	// The accent-free spelling of the same word is a duplicate.
	used[got] = struct{}{}
	_, rej = validateWord("elephant", "LE", used, lex)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonAlreadyUsed, rej.Reason)
}

func TestValidateWordOrderSensitive(t *testing.T) {
	lex := testLexicon("rat")
	used := map[string]struct{}{"RAT": {}}

	// A 3-letter word violating every rule reports TooShort, the first
	// pipeline stage.
	_, rej := validateWord("lu", "RA", used, lex)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonTooShort, rej.Reason)

	// Long enough but missing the fragment beats novelty and existence.
	_, rej = validateWord("maison", "RA", map[string]struct{}{"MAISON": {}}, lex)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonMissingFragment, rej.Reason)

	// Contains the fragment, already used, and unknown: AlreadyUsed wins.
	_, rej = validateWord("ratado", "RA", map[string]struct{}{"RATADO": {}}, lex)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonAlreadyUsed, rej.Reason)

	// Only the lexicon check left.
	_, rej = validateWord("ratado", "RA", map[string]struct{}{}, lex)
	require.NotNil(t, rej)
	assert.Equal(t, ReasonNotAWord, rej.Reason)
}

func TestValidateWordFragmentMatchingIsAccentInsensitive(t *testing.T) {
	lex := testLexicon("général")

	got, rej := validateWord("général", "GÉ", map[string]struct{}{}, lex)
	require.Nil(t, rej)
	assert.Equal(t, "GENERAL", got)
}

func TestValidateWordDeterministic(t *testing.T) {
	lex := testLexicon("gravier")
	used := map[string]struct{}{}

	for i := 0; i < 5; i++ {
		got, rej := validateWord("Gravier", "RA", used, lex)
		require.Nil(t, rej)
		assert.Equal(t, "GRAVIER", got)
	}
}
