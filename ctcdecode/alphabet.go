// Package ctcdecode implements the lexicon- and language-model-
// constrained CTC beam search decoder (spec.md §4.E): an alphabet of
// tokens, a lexicon mapping words to token spellings, a smeared trie
// over those spellings, and the beam search itself.
package ctcdecode

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cuedspeech/lpcdecode/types"
)

// Required special tokens, injected at the front of any alphabet that
// doesn't already carry them, in this fixed order. Blank is guaranteed
// to land at index 0 regardless of where (or whether) it appeared in
// the source file.
var requiredSpecials = []string{"<BLANK>", "<UNK>", "<SOS>", "<EOS>", "<PAD>"}

// Alphabet is the bidirectional token<->index map the decoder and the
// lexicon both build on.
type Alphabet struct {
	tokens []string
	index  map[string]int
}

// BlankIndex is always 0, by construction.
const BlankIndex = 0

// LoadAlphabet reads path per spec.md §6's token file format: one token
// per line, UTF-8, leading/trailing whitespace stripped, the first
// occurrence of ',', ';', '\t' or '\r' ending the token field, empty
// lines ignored, duplicates dropped preserving first occurrence.
func LoadAlphabet(path string) (*Alphabet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewError(types.KindConfigError, fmt.Sprintf("opening alphabet file %q", path), err)
	}
	defer f.Close()

	var tokens []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		tok := firstField(scanner.Text())
		if tok == "" || seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, types.NewError(types.KindConfigError, fmt.Sprintf("reading alphabet file %q", path), err)
	}

	return newAlphabet(tokens), nil
}

// newAlphabet injects the required specials at the front (preserving
// relative order, skipping any already present elsewhere in tokens) and
// builds the index map, guaranteeing blank sits at index 0.
func newAlphabet(tokens []string) *Alphabet {
	present := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		present[t] = true
	}

	var ordered []string
	for _, sp := range requiredSpecials {
		if !present[sp] {
			ordered = append(ordered, sp)
		}
	}
	ordered = append(ordered, tokens...)

	// Guarantee <BLANK> is at index 0: if it was present in tokens
	// (not freshly injected), move it to the front.
	for i, t := range ordered {
		if t == "<BLANK>" && i != 0 {
			ordered = append(ordered[:i], ordered[i+1:]...)
			ordered = append([]string{"<BLANK>"}, ordered...)
			break
		}
	}

	a := &Alphabet{tokens: ordered, index: make(map[string]int, len(ordered))}
	for i, t := range ordered {
		a.index[t] = i
	}
	return a
}

// firstField truncates at the first occurrence of any of ',', ';',
// '\t', '\r', then trims whitespace from what remains.
func firstField(line string) string {
	cut := strings.IndexAny(line, ",;\t\r")
	if cut >= 0 {
		line = line[:cut]
	}
	return strings.TrimSpace(line)
}

// Len reports the alphabet size (vocabulary size V).
func (a *Alphabet) Len() int { return len(a.tokens) }

// Token returns the token string at idx, or "" if out of range.
func (a *Alphabet) Token(idx int) string {
	if idx < 0 || idx >= len(a.tokens) {
		return ""
	}
	return a.tokens[idx]
}

// Index returns the index of token, and whether it was found.
func (a *Alphabet) Index(token string) (int, bool) {
	i, ok := a.index[token]
	return i, ok
}

// IsSpecial reports whether idx names one of the sentinel tokens that
// never appear in a decoded phoneme sequence.
func (a *Alphabet) IsSpecial(idx int) bool {
	switch a.Token(idx) {
	case "<BLANK>", "<PAD>", "<SOS>", "<EOS>":
		return true
	}
	return false
}
