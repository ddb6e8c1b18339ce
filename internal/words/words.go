// internal/words/words.go
//
// Dictionary of fixed-length words used by the game engine.
//
// Responsibilities:
//   - Build a Dictionary from raw word strings (one per line in a source file).
//   - Keep an ordered list plus a set for O(1) membership checks.
//   - Supply RandomWord through a swappable Picker so tests can pin the secret.
//
// Constraints:
//   • Every word in one Dictionary has the same length.
//   • Words are normalized to uppercase; lookups are case-insensitive.
//   • A Dictionary is immutable once built and safe for concurrent readers.

package words

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrInconsistentLength is returned when a source mixes word lengths.
	ErrInconsistentLength = errors.New("words: inconsistent word lengths")
	// ErrEmptyDictionary is returned when a random word is requested from an empty dictionary.
	ErrEmptyDictionary = errors.New("words: dictionary is empty")
)

// Dictionary is a read-only list of uppercase words sharing one length.
type Dictionary struct {
	wordLength int
	words      []string            // uppercase, in source order
	set        map[string]struct{} // lookup set over words
	picker     Picker
}

// New builds a Dictionary from raw words. Surrounding whitespace is trimmed,
// blank entries and entries with anything but letters A–Z are skipped, and
// the rest are uppercased.
func New(raw []string) (*Dictionary, error) {
	d := &Dictionary{
		words:  make([]string, 0, len(raw)),
		set:    make(map[string]struct{}, len(raw)),
		picker: CryptoPicker{},
	}
	for _, r := range raw {
		w := normalize(r)
		if w == "" || !isAlpha(w) {
			continue
		}
		n := len([]rune(w))
		if len(d.words) == 0 {
			d.wordLength = n
		} else if n != d.wordLength {
			return nil, fmt.Errorf("%w: %q has %d letters, expected %d", ErrInconsistentLength, w, n, d.wordLength)
		}
		if _, dup := d.set[w]; dup {
			continue
		}
		d.words = append(d.words, w)
		d.set[w] = struct{}{}
	}
	return d, nil
}

// WithPicker returns a copy of d that selects random words through p.
// The word list and lookup set are shared, not copied.
func (d *Dictionary) WithPicker(p Picker) *Dictionary {
	cp := *d
	cp.picker = p
	return &cp
}

// HasWord reports whether w is in the dictionary, ignoring case.
// No other normalization is applied.
func (d *Dictionary) HasWord(w string) bool {
	_, ok := d.set[strings.ToUpper(w)]
	return ok
}

// RandomWord returns a uniformly chosen word.
func (d *Dictionary) RandomWord() (string, error) {
	if len(d.words) == 0 {
		return "", ErrEmptyDictionary
	}
	i := d.picker.Pick(len(d.words))
	if i < 0 || i >= len(d.words) {
		return "", fmt.Errorf("words: picker returned index %d for %d words", i, len(d.words))
	}
	return d.words[i], nil
}

// WordLength is the letter count shared by every word (0 when empty).
func (d *Dictionary) WordLength() int { return d.wordLength }

// Len returns the number of distinct words.
func (d *Dictionary) Len() int { return len(d.words) }

// Words returns a copy of the word list in source order.
func (d *Dictionary) Words() []string {
	return append([]string(nil), d.words...)
}

// normalize trims and uppercases a word for storage or lookup.
func normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// isAlpha reports whether s is all uppercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
