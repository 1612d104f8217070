// Package stem reduces string columns to their Snowball stems.
//
// Words are trimmed and lowercased before stemming, so "Running " and
// "running" share the stem "run".
package stem

import (
	"errors"
	"fmt"
	"slices"

	"github.com/kljensen/snowball"

	"github.com/hupe1980/sparsevec/column"
)

// ErrUnsupportedLanguage is returned for languages snowball has no stemmer for.
var ErrUnsupportedLanguage = errors.New("stem: unsupported language")

// Languages lists the supported stemmer languages.
var Languages = []string{"english", "spanish", "french", "russian", "swedish", "norwegian", "hungarian"}

// Supported reports whether language has a stemmer.
func Supported(language string) bool {
	return slices.Contains(Languages, language)
}

// Word returns the stem of a single word. Stop words are stemmed too.
func Word(word, language string) (string, error) {
	if !Supported(language) {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	return snowball.Stem(word, language, true)
}

// Stem returns a column holding the stem of every value of col. Null rows
// stay null. The language is checked before any row is read.
func Stem(col *column.Strings, language string) (*column.Strings, error) {
	if !Supported(language) {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}

	seen := make(map[string]string)
	b := column.NewStringsBuilder(col.Name(), col.Len())
	for i := range col.Len() {
		word, ok := col.Value(i)
		if !ok {
			b.AppendNull()
			continue
		}
		stemmed, hit := seen[word]
		if !hit {
			var err error
			if stemmed, err = snowball.Stem(word, language, true); err != nil {
				return nil, fmt.Errorf("stem: row %d: %w", i, err)
			}
			seen[word] = stemmed
		}
		b.Append(stemmed)
	}
	return b.Finish(), nil
}
