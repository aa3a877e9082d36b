// Package window implements the overlap-save streaming commit pattern
// (spec.md §4.D): features are pushed one at a time, fixed-size windows
// are handed to the acoustic model as enough frames accumulate, and a
// central, fully-contexted slice of each window's logits is committed to
// a growing matrix that is redecoded after every commit.
package window

import (
	"github.com/cuedspeech/lpcdecode/types"
	"github.com/rs/zerolog/log"
)

// Window geometry constants (spec.md §4.D). Commit + LeftContext +
// RightContext == Window: every committed row sits at least LeftContext
// frames from the left edge and RightContext frames from the right edge
// of the window it was scored in.
const (
	Window       = 100
	Commit       = 50
	LeftContext  = 25
	RightContext = 25
)

// A stream of exactly N=Window valid frames still produces two commits
// (ProcessWindow's [0, Commit-1], then Finalize's [Commit, N-1]) rather
// than the single commit the "N <= WINDOW => exactly one commit"
// boundary case describes: nextWindowNeeded (initially Window) is
// reached on the Nth frame, so ProcessWindow fires once before Finalize
// ever runs. Both commits are correct and non-overlapping; only the
// commit count departs from that boundary description.

// Model is the subset of model.SequenceModel the processor needs. Kept
// local to avoid an import cycle between window and model.
type Model interface {
	Infer(frames []types.FrameFeatures, windowSize int) (types.LogitSlice, error)
}

// Decoder is the subset of ctcdecode.Decoder the processor needs.
type Decoder interface {
	Decode(logits types.LogitSlice) ([]types.Hypothesis, error)
	IdxsToTokens(ids []int) []string
}

// Processor is a single stream's overlap-save state machine. It is
// single-owner: push_frame, process_window and finalize must be called
// in order from one logical caller (spec.md §5).
type Processor struct {
	model   Model
	decoder Decoder

	validFeatures []types.FrameFeatures
	allLogits     []types.LogitSlice

	chunkIdx           int
	nextWindowNeeded    int
	effectiveVocabSize int
	frameCount         int
	totalFramesSeen    int
	chunksProcessed    int
}

// NewProcessor builds a Processor bound to a loaded model and an
// initialized decoder, ready to accept frames.
func NewProcessor(model Model, decoder Decoder) *Processor {
	p := &Processor{model: model, decoder: decoder}
	p.Reset()
	return p
}

// Reset clears all stream state, as if the Processor had just been
// constructed.
func (p *Processor) Reset() {
	p.validFeatures = nil
	p.allLogits = nil
	p.chunkIdx = 0
	p.nextWindowNeeded = Window
	p.effectiveVocabSize = 0
	p.frameCount = 0
	p.totalFramesSeen = 0
	p.chunksProcessed = 0
}

// PushFrame records one detector frame. valid reports whether the
// caller's feature extraction succeeded for this frame (spec.md §4.B);
// an invalid frame is counted toward total frames seen but otherwise
// silently dropped. The return value reports whether enough valid
// frames have now accumulated to call ProcessWindow.
func (p *Processor) PushFrame(frame types.FrameFeatures, valid bool) bool {
	p.totalFramesSeen++
	if !valid {
		return false
	}
	p.validFeatures = append(p.validFeatures, frame)
	p.frameCount++
	return len(p.validFeatures) >= p.nextWindowNeeded
}

// TotalFramesSeen reports every frame pushed, valid or not.
func (p *Processor) TotalFramesSeen() int { return p.totalFramesSeen }

// FrameCount reports the number of valid frames accumulated so far.
func (p *Processor) FrameCount() int { return p.frameCount }

// commitRange computes the window and commit bounds for chunkIdx given
// N valid frames accumulated so far, per the table in spec.md §4.D.
// All upper bounds are clamped to N-1.
func commitRange(chunkIdx, n int) (windowStart, windowEnd, commitStart, commitEnd, nextNeeded int) {
	switch chunkIdx {
	case 0:
		windowStart = 0
		windowEnd = Window - 1
		commitStart = 0
		commitEnd = Commit - 1
		nextNeeded = LeftContext + Window
	case 1:
		windowStart = LeftContext
		windowEnd = LeftContext + Window - 1
		commitStart = Commit
		commitEnd = Commit + LeftContext - 1
		nextNeeded = Commit + Window
	default:
		k := chunkIdx
		windowStart = Commit * (k - 1)
		windowEnd = windowStart + Window - 1
		commitStart = windowStart + LeftContext
		commitEnd = commitStart + Commit - 1
		nextNeeded = Commit*k + Window
	}
	if windowEnd > n-1 {
		windowEnd = n - 1
	}
	if commitEnd > n-1 {
		commitEnd = n - 1
	}
	return
}

// ProcessWindow runs one overlap-save step: infer over the window chosen
// for the current chunk_idx, commit its fully-contexted central slice,
// and redecode the entire accumulated matrix so far.
//
// effective_vocab_size is fixed on the first successful inference. A
// later window reporting a different vocabulary size is treated as an
// InferenceFailed condition for that window (spec.md §9's open question
// on vocab drift resolved fail-fast here, rather than silently
// overwriting and continuing): the window is skipped and chunk_idx still
// advances.
func (p *Processor) ProcessWindow() types.RecognitionResult {
	n := len(p.validFeatures)
	windowStart, windowEnd, commitStart, commitEnd, nextNeeded := commitRange(p.chunkIdx, n)
	p.nextWindowNeeded = nextNeeded
	chunkIdx := p.chunkIdx
	p.chunkIdx++
	p.chunksProcessed++

	if windowEnd < windowStart {
		return p.decodeAccumulated()
	}

	windowFrames := p.validFeatures[windowStart : windowEnd+1]
	logits, err := p.model.Infer(windowFrames, Window)
	if err != nil {
		log.Warn().Err(err).Int("chunk_idx", chunkIdx).Msg("window inference failed, skipping window")
		return p.decodeAccumulated()
	}

	v := logits.Cols()
	if p.effectiveVocabSize == 0 {
		p.effectiveVocabSize = v
	} else if v != p.effectiveVocabSize {
		log.Error().Int("chunk_idx", chunkIdx).Int("expected_vocab", p.effectiveVocabSize).
			Int("got_vocab", v).Msg("effective vocab size changed between windows, skipping window")
		return p.decodeAccumulated()
	}

	p.commitSlice(logits, windowStart, commitStart, commitEnd)
	return p.decodeAccumulated()
}

// Finalize flushes whatever final, partial window is needed to commit
// the remaining valid frames, then returns the last decoded result. It
// must be called exactly once, after the stream has ended.
func (p *Processor) Finalize() types.RecognitionResult {
	n := len(p.validFeatures)

	var framesCommitted int
	switch p.chunkIdx {
	case 0:
		framesCommitted = 0
	case 1:
		framesCommitted = Commit
	default:
		framesCommitted = Commit + LeftContext + (p.chunkIdx-2)*Commit
	}
	if framesCommitted >= n {
		return types.RecognitionResult{}
	}

	var windowStart, commitStart int
	switch p.chunkIdx {
	case 0:
		windowStart = 0
		commitStart = 0
		if n > 0 {
			log.Warn().Int("valid_frames", n).Msg(
				"finalizing a short stream with a single zero-padded window; " +
					"acoustic model end-of-stream padding behavior is unverified")
		}
	case 1:
		windowStart = LeftContext
		commitStart = Commit
	default:
		windowStart = Commit * (p.chunkIdx - 1)
		commitStart = windowStart + LeftContext
	}
	commitEnd := n - 1

	if p.chunkIdx != 0 && n-windowStart < LeftContext {
		return types.RecognitionResult{}
	}
	if commitStart > commitEnd {
		return types.RecognitionResult{}
	}

	windowFrames := p.validFeatures[windowStart:n]
	logits, err := p.model.Infer(windowFrames, Window)
	if err != nil {
		log.Warn().Err(err).Msg("finalize inference failed, returning prior decode")
		return p.decodeAccumulated()
	}

	v := logits.Cols()
	if p.effectiveVocabSize == 0 {
		p.effectiveVocabSize = v
	}
	if v == p.effectiveVocabSize {
		p.commitSlice(logits, windowStart, commitStart, commitEnd)
	} else {
		log.Error().Int("expected_vocab", p.effectiveVocabSize).Int("got_vocab", v).
			Msg("effective vocab size changed during finalize, skipping final commit")
	}

	return p.decodeAccumulated()
}

// commitSlice maps [commitStart, commitEnd] (absolute valid-frame
// indices) into indices relative to windowStart, clamps them to the
// inferred matrix's actual row count, and appends the resulting rows to
// the committed-logits accumulator.
func (p *Processor) commitSlice(logits types.LogitSlice, windowStart, commitStart, commitEnd int) {
	relStart := clampInt(commitStart-windowStart, 0, logits.Rows()-1)
	relEnd := clampInt(commitEnd-windowStart, 0, logits.Rows()-1)
	if relEnd < relStart {
		return
	}
	committed := make(types.LogitSlice, relEnd-relStart+1)
	copy(committed, logits[relStart:relEnd+1])
	p.allLogits = append(p.allLogits, committed)
}

// decodeAccumulated concatenates every committed slice into one
// [T_total x V] matrix and runs the decoder over it, producing a
// monotone refinement of whatever was returned from the previous commit
// (spec.md §4.D rationale).
func (p *Processor) decodeAccumulated() types.RecognitionResult {
	total := p.concatLogits()
	if len(total) == 0 {
		return types.RecognitionResult{FrameNumber: p.frameCount}
	}
	hyps, err := p.decoder.Decode(total)
	if err != nil || len(hyps) == 0 {
		return types.RecognitionResult{FrameNumber: p.frameCount}
	}
	best := hyps[0]
	return types.RecognitionResult{
		FrameNumber: p.frameCount,
		Phonemes:    p.decoder.IdxsToTokens(best.Tokens),
		Confidence:  best.Score,
	}
}

func (p *Processor) concatLogits() types.LogitSlice {
	total := make(types.LogitSlice, 0, len(p.allLogits)*Commit)
	for _, rows := range p.allLogits {
		total = append(total, rows...)
	}
	return total
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
