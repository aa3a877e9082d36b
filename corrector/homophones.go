// Package corrector implements the sentence corrector (spec.md §4.F):
// homophone class lookup plus a word-level n-gram beam search that
// turns a LIAPHON phoneme sequence into a capitalized French sentence.
package corrector

import (
	"bufio"
	"fmt"
	"os"

	"github.com/bytedance/sonic"
	"github.com/cuedspeech/lpcdecode/types"
)

// homophoneLine is the raw JSON shape of one line of the homophones
// file (spec.md §6): {"ipa": "...", "words": [...]}. words is optional;
// when absent the IPA string itself is the only homophone.
type homophoneLine struct {
	IPA   string   `json:"ipa"`
	Words []string `json:"words"`
}

// Table maps an IPA string to its homophone class, preserving file
// encounter order for words within a class.
type Table struct {
	classes map[string][]string
}

// LoadHomophones parses a JSON-lines file at path (spec.md §6), using
// sonic for the per-line decode the way the wider example pack reaches
// for sonic over encoding/json whenever many small documents are parsed
// in a hot loop.
func LoadHomophones(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, types.NewError(types.KindConfigError, fmt.Sprintf("opening homophones file %q", path), err)
	}
	defer f.Close()

	t := &Table{classes: make(map[string][]string)}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var line homophoneLine
		if err := sonic.Unmarshal(raw, &line); err != nil {
			return nil, types.NewError(types.KindConfigError,
				fmt.Sprintf("parsing homophones file %q line %d", path, lineNo), err)
		}
		if line.IPA == "" {
			continue
		}
		words := line.Words
		if len(words) == 0 {
			words = []string{line.IPA}
		}
		t.classes[line.IPA] = words
	}
	if err := scanner.Err(); err != nil {
		return nil, types.NewError(types.KindConfigError, fmt.Sprintf("reading homophones file %q", path), err)
	}
	return t, nil
}

// NewTable builds a Table directly from a class map, bypassing the file
// format — used by tests that want to seed exact homophone classes.
func NewTable(classes map[string][]string) *Table {
	return &Table{classes: classes}
}

// ClassFor returns the homophone class for token, or the identity
// fallback [token] if token is unknown to the table (spec.md §4.F step
// 3).
func (t *Table) ClassFor(token string) []string {
	if words, ok := t.classes[token]; ok {
		return words
	}
	return []string{token}
}
