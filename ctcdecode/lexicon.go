package ctcdecode

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/cuedspeech/lpcdecode/types"
)

// Lexicon maps words to one or more accepted token spellings, per
// spec.md §6: each line is `word TAB|SPACE token token ...`. A spelling
// containing any token absent from the alphabet is rejected; a word
// left with no accepted spelling is dropped entirely.
type Lexicon struct {
	words      []string
	wordIndex  map[string]int
	spellings  map[int][][]int // word index -> accepted spellings, each a token-id sequence
}

// LoadLexicon reads path, validating every spelling's tokens against
// alphabet.
func LoadLexicon(path string, alphabet *Alphabet) (*Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewError(types.KindConfigError, fmt.Sprintf("opening lexicon file %q", path), err)
	}
	defer f.Close()

	lex := &Lexicon{
		wordIndex: make(map[string]int),
		spellings: make(map[int][][]int),
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		word := fields[0]
		spellingTokens := fields[1:]

		ids := make([]int, 0, len(spellingTokens))
		ok := true
		for _, tok := range spellingTokens {
			idx, found := alphabet.Index(tok)
			if !found {
				ok = false
				break
			}
			ids = append(ids, idx)
		}
		if !ok {
			continue
		}

		wi, exists := lex.wordIndex[word]
		if !exists {
			wi = len(lex.words)
			lex.wordIndex[word] = wi
			lex.words = append(lex.words, word)
		}
		lex.spellings[wi] = append(lex.spellings[wi], ids)
	}
	if err := scanner.Err(); err != nil {
		return nil, types.NewError(types.KindConfigError, fmt.Sprintf("reading lexicon file %q", path), err)
	}

	return lex, nil
}

// Len reports the number of distinct words with at least one accepted
// spelling.
func (l *Lexicon) Len() int { return len(l.words) }

// Word returns the word string at index wi.
func (l *Lexicon) Word(wi int) string {
	if wi < 0 || wi >= len(l.words) {
		return ""
	}
	return l.words[wi]
}

// WordIndex returns the index of word, and whether it is known.
func (l *Lexicon) WordIndex(word string) (int, bool) {
	wi, ok := l.wordIndex[word]
	return wi, ok
}

// Spellings returns every accepted token-id spelling for word index wi.
func (l *Lexicon) Spellings(wi int) [][]int {
	return l.spellings[wi]
}

// Words returns every word with at least one accepted spelling, in
// registration order.
func (l *Lexicon) Words() []string {
	return append([]string(nil), l.words...)
}
