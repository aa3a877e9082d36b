package corrector

import (
	"sort"
	"strings"

	"github.com/cuedspeech/lpcdecode/ngramlm"
	"github.com/cuedspeech/lpcdecode/phoneme"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// beamWidth is the number of candidate word sequences the corrector's
// beam search keeps at each position (spec.md §4.F step 4).
const beamWidth = 20

// Corrector turns a LIAPHON phoneme sequence into a capitalized French
// sentence by looking up each token's homophone class and picking the
// best word sequence under a word-level n-gram LM (spec.md §4.F).
type Corrector struct {
	table *Table
	lm    ngramlm.Model
	caser cases.Caser
}

// New builds a Corrector over an already-loaded homophone table and LM.
func New(table *Table, lm ngramlm.Model) *Corrector {
	return &Corrector{table: table, lm: lm, caser: cases.Title(language.French)}
}

type candidateBeam struct {
	state ngramlm.State
	score float64
	words []string
}

// Correct runs the full pipeline: LIAPHON -> IPA -> whitespace split ->
// per-token homophone class -> beam search -> capitalized sentence with
// a trailing period.
func (c *Corrector) Correct(phonemes []string, wordIndex func(string) (int, bool)) string {
	ipa := phoneme.LiaphonToIPA(phonemes)
	tokens := strings.Fields(ipa)
	if len(tokens) == 0 && ipa != "" {
		tokens = []string{ipa}
	}
	if len(tokens) == 0 {
		return ""
	}

	beams := []candidateBeam{{state: c.lm.Start(), score: 0, words: nil}}

	for _, tok := range tokens {
		classWords := c.table.ClassFor(tok)
		next := make([]candidateBeam, 0, len(beams)*len(classWords))
		for _, b := range beams {
			for _, w := range classWords {
				wi, _ := wordIndex(w)
				nextState, delta := c.lm.Score(b.state, wi)
				nb := candidateBeam{
					state: nextState,
					score: b.score + delta,
					words: append(append([]string(nil), b.words...), w),
				}
				next = append(next, nb)
			}
		}
		sort.Slice(next, func(i, j int) bool { return next[i].score > next[j].score })
		if len(next) > beamWidth {
			next = next[:beamWidth]
		}
		beams = next
	}

	if len(beams) == 0 {
		return ""
	}
	best := beams[0]
	sentence := strings.Join(best.words, " ")
	if sentence == "" {
		return ""
	}
	runes := []rune(sentence)
	sentence = c.caser.String(string(runes[0])) + string(runes[1:])
	if !strings.HasSuffix(sentence, ".") {
		sentence += "."
	}
	return sentence
}
