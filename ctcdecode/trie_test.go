package ctcdecode

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cuedspeech/lpcdecode/ngramlm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// S2: lexicon {bonjour: [[b, o~, z^, u, r]]}, LM start score for
// "bonjour" = -8.0. After insertion the trie has a single path of
// length 5, the accepting node carries score -8.0, and after
// MAX-smearing every ancestor carries -8.0.
func TestTrieS2BuildAndSmear(t *testing.T) {
	alphabetPath := writeFile(t, "tokens.txt", "b\no~\nz^\nu\nr\n")
	alphabet, err := LoadAlphabet(alphabetPath)
	require.NoError(t, err)

	lexiconPath := writeFile(t, "lexicon.txt", "bonjour b o~ z^ u r\n")
	lexicon, err := LoadLexicon(lexiconPath, alphabet)
	require.NoError(t, err)
	require.Equal(t, 1, lexicon.Len())

	wi, ok := lexicon.WordIndex("bonjour")
	require.True(t, ok)

	lm := ngramlm.NewMemoryModel(lexicon.Len(), map[int]float64{wi: -8.0}, nil)
	trie := BuildTrie(lexicon, lm)

	spelling := lexicon.Spellings(wi)[0]
	require.Len(t, spelling, 5)

	node := RootNode
	visited := []int{node}
	for _, tid := range spelling {
		child, ok := trie.Child(node, tid)
		require.True(t, ok)
		node = child
		visited = append(visited, node)
	}

	gotWi, score, isWord := trie.WordAt(node)
	require.True(t, isWord)
	assert.Equal(t, wi, gotWi)
	assert.Equal(t, -8.0, score)

	for _, n := range visited {
		assert.Equal(t, -8.0, trie.MaxScore(n))
	}
}
