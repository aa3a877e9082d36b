package ctcdecode

import (
	"math"
	"sort"

	"github.com/cuedspeech/lpcdecode/ngramlm"
	"github.com/cuedspeech/lpcdecode/types"
)

// logSoftmax applies a numerically stable log-softmax to every row of
// logits independently: subtract the row max, exponentiate, sum, take
// the log, subtract back (spec.md §4.E "per-decode" step).
func logSoftmax(logits types.LogitSlice) types.LogitSlice {
	out := make(types.LogitSlice, len(logits))
	for t, row := range logits {
		max := math.Inf(-1)
		for _, v := range row {
			if v > max {
				max = v
			}
		}
		var sum float64
		exps := make([]float64, len(row))
		for i, v := range row {
			e := math.Exp(v - max)
			exps[i] = e
			sum += e
		}
		logSum := math.Log(sum)
		outRow := make([]float64, len(row))
		for i := range row {
			outRow[i] = (row[i] - max) - logSum
		}
		out[t] = outRow
	}
	return out
}

// beamKey identifies beams eligible to be merged: same trie position and
// same "last emitted non-blank token" collapse state.
type beamKey struct {
	trieNode  int
	lastToken int
}

// beam is one active hypothesis in the prefix beam search.
type beam struct {
	trieNode  int
	lastToken int // -1: no non-blank token emitted since the last blank/word boundary
	score     float64
	lmState   ngramlm.State
	pendingWI int // word index sitting at an accepting trie node, not yet finalized; -1 if none
	tokens    []int
	words     []int
	timesteps []int
}

func (b beam) clone() beam {
	nb := b
	nb.tokens = append([]int(nil), b.tokens...)
	nb.words = append([]int(nil), b.words...)
	nb.timesteps = append([]int(nil), b.timesteps...)
	return nb
}

// topKTokens returns the indices of the k highest-scoring entries of
// row, descending. k<=0 or k>=len(row) returns every index.
func topKTokens(row []float64, k int) []int {
	idxs := make([]int, len(row))
	for i := range idxs {
		idxs[i] = i
	}
	sort.Slice(idxs, func(i, j int) bool { return row[idxs[i]] > row[idxs[j]] })
	if k > 0 && k < len(idxs) {
		idxs = idxs[:k]
	}
	return idxs
}
