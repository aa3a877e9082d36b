package ctcdecode

import (
	"math"
	"sort"

	"github.com/cuedspeech/lpcdecode/cnf"
	"github.com/cuedspeech/lpcdecode/ngramlm"
	"github.com/cuedspeech/lpcdecode/types"
)

// Config mirrors the numeric beam-search knobs of cnf.DecoderConfig.
// ConfigFromCnf builds it from a loaded cnf.DecoderConfig; NewDecoder
// takes it as is, with the silence token and unknown word passed
// separately.
type Config struct {
	NBest         int
	BeamSize      int
	BeamSizeToken int
	BeamThreshold float64
	LMWeight      float64
	WordScore     float64
	UnkScore      float64
	SilScore      float64
	LogAdd        bool
}

// ConfigFromCnf projects the beam-search knobs out of a loaded
// cnf.DecoderConfig.
func ConfigFromCnf(c *cnf.DecoderConfig) Config {
	return Config{
		NBest:         c.Nbest,
		BeamSize:      c.BeamSize,
		BeamSizeToken: c.BeamSizeToken,
		BeamThreshold: c.BeamThreshold,
		LMWeight:      c.LMWeight,
		WordScore:     c.WordScore,
		UnkScore:      c.UnkScore,
		SilScore:      c.SilScore,
		LogAdd:        c.LogAdd,
	}
}

// Decoder is the lexicon- and LM-constrained CTC beam search decoder
// (spec.md §4.E). Read-only after construction; safe to share across
// streams (spec.md §5).
type Decoder struct {
	alphabet *Alphabet
	lexicon  *Lexicon
	trie     *Trie
	lm       ngramlm.Model
	cfg      Config

	blankIdx   int
	silIdx     int
	unkWordIdx int
}

// NewDecoder wires an already-loaded alphabet, lexicon, trie and LM
// into a Decoder ready for Decode calls. silToken/unkWord name the
// special alphabet token and lexicon word the config designates.
func NewDecoder(alphabet *Alphabet, lexicon *Lexicon, trie *Trie, lm ngramlm.Model, cfg Config, silToken, unkWord string) *Decoder {
	d := &Decoder{
		alphabet:   alphabet,
		lexicon:    lexicon,
		trie:       trie,
		lm:         lm,
		cfg:        cfg,
		blankIdx:   BlankIndex,
		unkWordIdx: -1,
	}
	if idx, ok := alphabet.Index(silToken); ok {
		d.silIdx = idx
	} else {
		d.silIdx = -1
	}
	if wi, ok := lexicon.WordIndex(unkWord); ok {
		d.unkWordIdx = wi
	}
	return d
}

// IsInitialized reports whether Decode is ready to run (spec.md §7's
// DecoderUninitialized condition is the negation of this).
func (d *Decoder) IsInitialized() bool {
	return d != nil && d.alphabet != nil && d.trie != nil && d.lm != nil
}

// Decode runs one full CTC beam search over logits (already raw
// model output; log-softmax is applied internally) and returns up to
// cfg.NBest hypotheses sorted best-first. An uninitialized decoder or
// an empty input returns a nil, nil result rather than an error — per
// spec.md §7, decode never throws across the core boundary.
func (d *Decoder) Decode(logits types.LogitSlice) ([]types.Hypothesis, error) {
	if !d.IsInitialized() || logits.Rows() == 0 {
		return nil, nil
	}

	logProbs := logSoftmax(logits)
	beams := d.runSearch(logProbs)
	if len(beams) == 0 {
		return nil, nil
	}

	sort.Slice(beams, func(i, j int) bool { return beams[i].score > beams[j].score })
	n := d.cfg.NBest
	if n <= 0 {
		n = 1
	}
	if n > len(beams) {
		n = len(beams)
	}

	hyps := make([]types.Hypothesis, n)
	for i, b := range beams[:n] {
		hyps[i] = types.Hypothesis{
			Tokens:    append([]int(nil), b.tokens...),
			Words:     d.resolveWords(b.words),
			Score:     b.score,
			Timesteps: append([]int(nil), b.timesteps...),
		}
	}
	return hyps, nil
}

func (d *Decoder) resolveWords(wordIdxs []int) []string {
	out := make([]string, len(wordIdxs))
	for i, wi := range wordIdxs {
		if wi == d.unkWordIdx {
			out[i] = d.lexiconUnkWordString()
			continue
		}
		out[i] = d.lexicon.Word(wi)
	}
	return out
}

func (d *Decoder) lexiconUnkWordString() string {
	if d.unkWordIdx >= 0 {
		return d.lexicon.Word(d.unkWordIdx)
	}
	return "<UNK>"
}

// runSearch is the lexicon-constrained CTC prefix beam search itself.
// Beams are keyed by (trie position, last-emitted-non-blank-token) so
// that acoustically distinct paths reaching the same lexical state can
// be merged (or kept as the max, per cfg.LogAdd) rather than tracked
// separately forever.
func (d *Decoder) runSearch(logProbs types.LogitSlice) []beam {
	beams := map[beamKey]beam{
		{trieNode: RootNode, lastToken: -1}: {
			trieNode: RootNode, lastToken: -1, lmState: d.lm.Start(), pendingWI: -1,
		},
	}

	beamSizeToken := d.cfg.BeamSizeToken
	if beamSizeToken <= 0 {
		beamSizeToken = logProbs.Cols()
	}

	for t, row := range logProbs {
		next := make(map[beamKey]beam)
		candidates := topKTokens(row, beamSizeToken)

		for _, b := range beams {
			for _, c := range candidates {
				logp := row[c]
				d.expand(b, c, t, logp, next)
			}
		}

		beams = d.prune(next)
	}

	out := make([]beam, 0, len(beams))
	for _, b := range beams {
		out = append(out, b)
	}
	return out
}

// expand extends beam b by one candidate token c observed at timestep
// t with log-probability logp, inserting (or merging into) next.
func (d *Decoder) expand(b beam, c, t int, logp float64, next map[beamKey]beam) {
	switch {
	case c == d.blankIdx:
		nb := b.clone()
		nb.lastToken = -1
		nb.score = b.score + logp
		d.finalizePendingIfAny(&nb)
		upsert(next, beamKey{trieNode: nb.trieNode, lastToken: -1}, nb, d.cfg.LogAdd)

	case c == d.silIdx:
		nb := b.clone()
		nb.lastToken = -1
		nb.score = b.score + logp + d.cfg.SilScore
		d.finalizePendingIfAny(&nb)
		upsert(next, beamKey{trieNode: nb.trieNode, lastToken: -1}, nb, d.cfg.LogAdd)

	case c == b.lastToken:
		// Repeated non-blank emission without an intervening blank:
		// CTC collapse rule, no new token appended.
		nb := b.clone()
		nb.score = b.score + logp
		upsert(next, beamKey{trieNode: nb.trieNode, lastToken: nb.lastToken}, nb, d.cfg.LogAdd)

	default:
		child, ok := d.trie.Child(b.trieNode, c)
		if !ok {
			return // not a legal continuation of any accepted spelling
		}
		nb := b.clone()
		bonus := d.cfg.LMWeight * (d.trie.MaxScore(child) - d.trie.MaxScore(b.trieNode))
		if math.IsInf(bonus, 0) || math.IsNaN(bonus) {
			bonus = 0
		}
		nb.trieNode = child
		nb.lastToken = c
		nb.score = b.score + logp + bonus
		nb.tokens = append(nb.tokens, c)
		nb.timesteps = append(nb.timesteps, t)
		if wi, _, ok := d.trie.WordAt(child); ok {
			nb.pendingWI = wi
		}
		upsert(next, beamKey{trieNode: nb.trieNode, lastToken: nb.lastToken}, nb, d.cfg.LogAdd)
	}
}

// finalizePendingIfAny applies the LM score and word_score to a pending
// word (one whose trie traversal reached an accepting node) once a
// blank or silence confirms the word boundary, per spec.md §4.E ("a
// word completes when the trie traversal reaches an accepting node and
// the next emission is blank or silence").
func (d *Decoder) finalizePendingIfAny(b *beam) {
	if b.pendingWI < 0 {
		return
	}
	wi := b.pendingWI
	score := d.cfg.WordScore
	if wi == d.unkWordIdx {
		score += d.cfg.UnkScore
	} else {
		next, lp := d.lm.Score(b.lmState, wi)
		b.lmState = next
		score += d.cfg.LMWeight * lp
	}
	b.score += score
	b.words = append(b.words, wi)
	b.trieNode = RootNode
	b.pendingWI = -1
}

// upsert merges candidate into dst under key: if key is unoccupied,
// candidate is stored outright; otherwise the incumbent is kept unless
// candidate scores higher, or (with log_add) the two scores are
// combined via log-sum-exp.
func upsert(dst map[beamKey]beam, key beamKey, candidate beam, logAdd bool) {
	incumbent, ok := dst[key]
	if !ok {
		dst[key] = candidate
		return
	}
	if logAdd {
		combined := logAddExp(incumbent.score, candidate.score)
		if candidate.score > incumbent.score {
			incumbent = candidate // keep the higher-scoring path's history
		}
		incumbent.score = combined
		dst[key] = incumbent
		return
	}
	if candidate.score > incumbent.score {
		dst[key] = candidate
	}
}

func logAddExp(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	m := math.Max(a, b)
	return m + math.Log(math.Exp(a-m)+math.Exp(b-m))
}

// prune keeps at most cfg.BeamSize beams, dropping any scoring more
// than cfg.BeamThreshold below the best (spec.md §4.E).
func (d *Decoder) prune(in map[beamKey]beam) map[beamKey]beam {
	if len(in) == 0 {
		return in
	}
	list := make([]beam, 0, len(in))
	best := math.Inf(-1)
	for _, b := range in {
		list = append(list, b)
		if b.score > best {
			best = b.score
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].score > list[j].score })

	limit := d.cfg.BeamSize
	if limit <= 0 || limit > len(list) {
		limit = len(list)
	}
	out := make(map[beamKey]beam, limit)
	for _, b := range list[:limit] {
		if best-b.score > d.cfg.BeamThreshold {
			continue
		}
		out[beamKey{trieNode: b.trieNode, lastToken: b.lastToken}] = b
	}
	return out
}

// IdxsToTokens post-processes a beam's collapsed token index sequence
// into the final phoneme list (spec.md §4.E): drop empty strings and
// special tokens, deduplicate consecutive repeats, strip trailing
// silences. runSearch already collapses blanks and repeats during the
// search itself, so ids holds only real, already-collapsed token
// indices with no <SOS>/<EOS> bookend to strip (see DESIGN.md §9).
func (d *Decoder) IdxsToTokens(ids []int) []string {
	var out []string
	for _, id := range ids {
		tok := d.alphabet.Token(id)
		if tok == "" || d.alphabet.IsSpecial(id) {
			continue
		}
		if len(out) > 0 && out[len(out)-1] == tok {
			continue
		}
		out = append(out, tok)
	}

	silToken := d.alphabet.Token(d.silIdx)
	for len(out) > 0 && silToken != "" && out[len(out)-1] == silToken {
		out = out[:len(out)-1]
	}
	return out
}
