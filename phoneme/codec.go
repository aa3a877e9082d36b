// Package phoneme implements the static bidirectional IPA/LIAPHON codec
// (spec.md §4.A): LIAPHON is the 7-bit-ASCII phoneme alphabet the
// lexicon and acoustic model tokens are written in; IPA is used at the
// corrector boundary and for external reporting.
package phoneme

import (
	"sort"

	"golang.org/x/text/unicode/norm"
)

// pair is one entry of the static phoneme table: a LIAPHON token (ASCII,
// possibly multi-character, e.g. "an", "z^") and its IPA equivalent
// (possibly multiple Unicode code points, e.g. a nasal vowel's base
// letter plus combining tilde). Both maps below are built from this one
// list so the two directions never drift apart.
type pair struct {
	liaphon string
	ipa     string
}

// table is the full LIAPHON<->IPA correspondence. French Cued Speech
// corpora conventionally write LIAPHON with ASCII digraphs for sounds
// IPA spells with diacritics or dedicated letters (e.g. nasal vowels as
// "in", "an", "un" and "o~").
var table = []pair{
	{"p", "p"}, {"t", "t"}, {"k", "k"},
	{"b", "b"}, {"d", "d"}, {"g", "g"},
	{"f", "f"}, {"s", "s"}, {"S", "ʃ"},
	{"v", "v"}, {"z", "z"}, {"z^", "ʒ"},
	{"m", "m"}, {"n", "n"}, {"gn", "ɲ"},
	{"l", "l"}, {"r", "ʁ"}, {"j", "j"}, {"w", "w"}, {"h", "h"},
	{"a", "a"}, {"A", "ɑ"},
	{"e", "e"}, {"E", "ɛ"},
	{"i", "i"},
	{"o", "o"}, {"O", "ɔ"},
	{"u", "u"}, {"y", "y"},
	{"2", "ø"}, {"9", "œ"}, {"°", "ə"},
	{"in", "ɛ̃"}, {"an", "ɑ̃"}, {"o~", "ɔ̃"}, {"un", "œ̃"},
}

var liaphonToIPA map[string]string
var ipaToLiaphon map[string]string
var ipaKeysByLenDesc []string // longest-match order over table's IPA keys

func init() {
	liaphonToIPA = make(map[string]string, len(table))
	ipaToLiaphon = make(map[string]string, len(table))
	for _, p := range table {
		liaphonToIPA[p.liaphon] = p.ipa
		ipaToLiaphon[p.ipa] = p.liaphon
	}
	ipaKeysByLenDesc = make([]string, 0, len(ipaToLiaphon))
	for k := range ipaToLiaphon {
		ipaKeysByLenDesc = append(ipaKeysByLenDesc, k)
	}
	sort.Slice(ipaKeysByLenDesc, func(i, j int) bool {
		return len([]rune(ipaKeysByLenDesc[i])) > len([]rune(ipaKeysByLenDesc[j]))
	})
}

// LiaphonToIPA concatenates the IPA equivalent of each LIAPHON token in
// seq. A token absent from the table passes through unchanged.
func LiaphonToIPA(seq []string) string {
	var out []rune
	for _, tok := range seq {
		if ipa, ok := liaphonToIPA[tok]; ok {
			out = append(out, []rune(ipa)...)
		} else {
			out = append(out, []rune(tok)...)
		}
	}
	return string(out)
}

// IPAToLiaphon performs longest-match tokenization of s over the
// IPA->LIAPHON table: at each position, the longest table key matching
// the remaining input is consumed and replaced by its LIAPHON token;
// runes with no match pass through as single-rune tokens unchanged.
//
// s is normalized to NFC first: an external IPA source may spell a nasal
// vowel as a base letter followed by a combining tilde (NFD) rather than
// the single precomposed rune this package's table keys on, and the two
// forms must tokenize identically.
func IPAToLiaphon(s string) []string {
	runes := []rune(norm.NFC.String(s))
	var out []string
	i := 0
	for i < len(runes) {
		matched := false
		for _, key := range ipaKeysByLenDesc {
			klen := len([]rune(key))
			if i+klen > len(runes) {
				continue
			}
			if string(runes[i:i+klen]) == key {
				out = append(out, ipaToLiaphon[key])
				i += klen
				matched = true
				break
			}
		}
		if !matched {
			out = append(out, string(runes[i]))
			i++
		}
	}
	return out
}
