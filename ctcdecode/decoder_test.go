package ctcdecode

import (
	"math"
	"testing"

	"github.com/cuedspeech/lpcdecode/ngramlm"
	"github.com/cuedspeech/lpcdecode/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTestDecoder(t *testing.T) (*Decoder, *Alphabet) {
	t.Helper()
	tokensPath := writeFile(t, "tokens.txt", "a\nb\n_\n")
	alphabet, err := LoadAlphabet(tokensPath)
	require.NoError(t, err)

	lexiconPath := writeFile(t, "lexicon.txt", "ab a b\n")
	lexicon, err := LoadLexicon(lexiconPath, alphabet)
	require.NoError(t, err)

	lm := ngramlm.NewMemoryModel(lexicon.Len(), nil, nil)
	trie := BuildTrie(lexicon, lm)

	cfg := Config{NBest: 1, BeamSize: 10, BeamSizeToken: -1, BeamThreshold: 50, LMWeight: 1, SilScore: 0}
	return NewDecoder(alphabet, lexicon, trie, lm, cfg, "_", "<UNK>"), alphabet
}

// S6: runSearch already collapses blanks and repeats during the search
// itself, so by the time a beam's token sequence reaches IdxsToTokens it
// holds only real, already-collapsed phoneme indices — never a
// <SOS>/<EOS> bookend pair. IdxsToTokens's own job is just to dedupe any
// adjacent repeats still present and trim trailing silence.
func TestIdxsToTokensS6(t *testing.T) {
	d, alphabet := buildTestDecoder(t)
	aIdx, _ := alphabet.Index("a")
	bIdx, _ := alphabet.Index("b")
	silIdx, _ := alphabet.Index("_")

	got := d.IdxsToTokens([]int{aIdx, aIdx, bIdx, silIdx, silIdx})
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestIdxsToTokensDropsSpecialsAndEmpties(t *testing.T) {
	d, alphabet := buildTestDecoder(t)
	blankIdx := BlankIndex
	aIdx, _ := alphabet.Index("a")

	got := d.IdxsToTokens([]int{blankIdx, aIdx, blankIdx})
	assert.Equal(t, []string{"a"}, got)
}

// A one- or two-token decode is a complete, valid result on its own —
// there is no sentinel pair to strip it down from.
func TestIdxsToTokensShortInputNotStripped(t *testing.T) {
	d, alphabet := buildTestDecoder(t)
	aIdx, _ := alphabet.Index("a")
	bIdx, _ := alphabet.Index("b")

	assert.Equal(t, []string{"a"}, d.IdxsToTokens([]int{aIdx}))
	assert.Equal(t, []string{"a", "b"}, d.IdxsToTokens([]int{aIdx, bIdx}))
}

func TestIdxsToTokensEmptyInputReturnsNil(t *testing.T) {
	d, _ := buildTestDecoder(t)
	assert.Nil(t, d.IdxsToTokens(nil))
	assert.Nil(t, d.IdxsToTokens([]int{}))
}

func TestDecodeUninitializedReturnsEmpty(t *testing.T) {
	var d Decoder
	hyps, err := d.Decode(types.LogitSlice{{0, 0}})
	assert.NoError(t, err)
	assert.Nil(t, hyps)
}

func TestDecodeEmptyLogitsReturnsEmpty(t *testing.T) {
	d, _ := buildTestDecoder(t)
	hyps, err := d.Decode(types.LogitSlice{})
	assert.NoError(t, err)
	assert.Nil(t, hyps)
}

// Re-running decode on the same logits and the same config returns the
// same hypothesis list (spec.md §8 round-trip property): the search has
// no source of randomness, so this holds by construction as long as map
// iteration order never leaks into the result — asserted here directly.
func TestDecodeIsDeterministic(t *testing.T) {
	d, alphabet := buildTestDecoder(t)
	aIdx, _ := alphabet.Index("a")
	bIdx, _ := alphabet.Index("b")

	v := alphabet.Len()
	logits := make(types.LogitSlice, 4)
	for t2 := range logits {
		row := make([]float64, v)
		for i := range row {
			row[i] = -10
		}
		logits[t2] = row
	}
	logits[0][BlankIndex] = 5
	logits[1][aIdx] = 5
	logits[2][bIdx] = 5
	logits[3][BlankIndex] = 5

	first, err := d.Decode(logits)
	require.NoError(t, err)
	second, err := d.Decode(logits)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Tokens, second[i].Tokens)
		assert.InDelta(t, first[i].Score, second[i].Score, 1e-12)
	}
}

func TestLogSoftmaxAppliedTwiceEqualsOnce(t *testing.T) {
	logits := types.LogitSlice{{1, 2, 3}, {0, 0, 0}}
	once := logSoftmax(logits)
	twice := logSoftmax(once)
	for t2 := range once {
		for i := range once[t2] {
			assert.InDelta(t, once[t2][i], twice[t2][i], 1e-5)
		}
	}
}

func TestLogSoftmaxRowsSumToOneInProbSpace(t *testing.T) {
	logits := types.LogitSlice{{3, 1, 0.2}}
	out := logSoftmax(logits)
	sum := 0.0
	for _, v := range out[0] {
		sum += math.Exp(v)
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
