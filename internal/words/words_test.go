package words

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"lowercase", "elephant", "ELEPHANT"},
		{"accented", "éléphant", "ELEPHANT"},
		{"mixed case accents", "ÉléPHant", "ELEPHANT"},
		{"cedilla", "français", "FRANCAIS"},
		{"circumflex and grave", "tempête à", "TEMPETE A"},
		{"surrounding space", "  mot  ", "MOT"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestNormalizeAgreesOnAccentVariants(t *testing.T) {
	assert.Equal(t, Normalize("ÉLÉPHANT"), Normalize("elephant"))
}

func TestLexiconContains(t *testing.T) {
	lex := NewLexicon([]string{"éléphant", "Tempête", "mot"})

	assert.True(t, lex.Contains("elephant"))
	assert.True(t, lex.Contains("ÉLÉPHANT"))
	assert.True(t, lex.Contains("tempete"))
	assert.False(t, lex.Contains("girafe"))
	assert.Equal(t, 3, lex.Size())
}

func TestLoadLexicon(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.txt")
	content := "# comment line\néléphant\n\nmaison\nMAISON\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lex, err := LoadLexicon(path)
	require.NoError(t, err)

	// Duplicates collapse after normalization.
	assert.Equal(t, 2, lex.Size())
	assert.True(t, lex.Contains("elephant"))
	assert.True(t, lex.Contains("maison"))
}

func TestLoadLexiconMissingFile(t *testing.T) {
	_, err := LoadLexicon(filepath.Join(t.TempDir(), "nope.txt"))
	require.Error(t, err)
}
