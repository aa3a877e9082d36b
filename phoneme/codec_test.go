package phoneme

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLiaphonToIPAConcatenatesAndPassesThroughUnknown(t *testing.T) {
	got := LiaphonToIPA([]string{"b", "o~", "z^", "u", "r"})
	assert.Equal(t, "bɔ̃ʒuʁ", got)
}

func TestLiaphonToIPAUnknownTokenPassesThrough(t *testing.T) {
	got := LiaphonToIPA([]string{"b", "???", "a"})
	assert.Equal(t, "b???a", got)
}

func TestIPAToLiaphonLongestMatch(t *testing.T) {
	got := IPAToLiaphon("bɔ̃ʒuʁ")
	assert.Equal(t, []string{"b", "o~", "z^", "u", "r"}, got)
}

// Round-trip property (spec.md §8): for sequences composed entirely of
// single-character LIAPHON entries, ipa_to_liaphon(liaphon_to_ipa(x)) == x.
func TestRoundTripSingleCharEntries(t *testing.T) {
	x := []string{"b", "a", "t", "o", "r"}
	ipa := LiaphonToIPA(x)
	got := IPAToLiaphon(ipa)
	assert.Equal(t, x, got)
}

func TestIPAToLiaphonUnmatchedRunePassesThrough(t *testing.T) {
	got := IPAToLiaphon("a#e")
	assert.Equal(t, []string{"a", "#", "e"}, got)
}
