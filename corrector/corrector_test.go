package corrector

import (
	"testing"

	"github.com/cuedspeech/lpcdecode/ngramlm"
	"github.com/stretchr/testify/assert"
)

// S5: IPA tokens ["se", "la"], table {se: [c'est, s'est, ses, ces], la:
// [la, là, l'a]}, corrector LM giving highest bigram score to ("c'est",
// "la"). Output: "C'est la."
func TestCorrectorS5HomophoneSelection(t *testing.T) {
	table := NewTable(map[string][]string{
		"se": {"c'est", "s'est", "ses", "ces"},
		"la": {"la", "là", "l'a"},
	})

	words := []string{"c'est", "s'est", "ses", "ces", "la", "là", "l'a"}
	index := make(map[string]int, len(words))
	for i, w := range words {
		index[w] = i
	}
	wordIndex := func(w string) (int, bool) {
		i, ok := index[w]
		return i, ok
	}

	unigram := map[int]float64{0: -0.5, 1: -1, 2: -1, 3: -1, 4: -2, 5: -2, 6: -2}
	bigram := map[[2]int]float64{{0, 4}: -0.1}
	lm := ngramlm.NewMemoryModel(len(words), unigram, bigram)

	c := New(table, lm)

	// LIAPHON input "s e <space> l a" concatenates, via the phoneme
	// codec, into the IPA string "se la" (the space token passes
	// through unchanged since it isn't in the phoneme table).
	got := c.Correct([]string{"s", "e", " ", "l", "a"}, wordIndex)
	assert.Equal(t, "C'est la.", got)
}

func TestCorrectorUnknownTokenFallsBackToIdentity(t *testing.T) {
	table := NewTable(map[string][]string{})
	lm := ngramlm.NewMemoryModel(1, nil, nil)
	c := New(table, lm)

	got := c.Correct([]string{"b", "o", "~"}, func(string) (int, bool) { return -1, false })
	assert.True(t, len(got) > 0)
	assert.Contains(t, got, ".")
}

func TestCorrectorEmptyInputReturnsEmptySentence(t *testing.T) {
	table := NewTable(nil)
	lm := ngramlm.NewMemoryModel(1, nil, nil)
	c := New(table, lm)

	got := c.Correct(nil, func(string) (int, bool) { return -1, false })
	assert.Equal(t, "", got)
}
