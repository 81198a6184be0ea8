package words

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Lexicon is the word-existence oracle. It is built once at startup and
// read-only afterwards, so it is safe to share across goroutines without
// locking.
type Lexicon struct {
	entries map[string]struct{}
}

// NewLexicon builds a lexicon from a word list. Entries are normalized on
// insertion.
func NewLexicon(entries []string) *Lexicon {
	l := &Lexicon{entries: make(map[string]struct{}, len(entries))}
	for _, w := range entries {
		if n := Normalize(w); n != "" {
			l.entries[n] = struct{}{}
		}
	}
	return l
}

// LoadLexicon reads a word list file, one word per line. Blank lines and
// lines starting with '#' are skipped.
func LoadLexicon(path string) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word list: %w", err)
	}
	defer f.Close()

	l := &Lexicon{entries: make(map[string]struct{})}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		l.entries[Normalize(line)] = struct{}{}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read word list: %w", err)
	}

	log.Info().Str("path", path).Int("words", len(l.entries)).Msg("lexicon loaded")
	return l, nil
}

// Contains reports whether the word exists, after normalization.
func (l *Lexicon) Contains(word string) bool {
	_, ok := l.entries[Normalize(word)]
	return ok
}

// Size returns the number of distinct entries.
func (l *Lexicon) Size() int {
	return len(l.entries)
}
