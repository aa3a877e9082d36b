// Package model defines the acoustic model adapter contract (spec.md
// §4.C): load a sequence-to-sequence model from file and, given a
// fixed-size window of 33-d frames, produce a [T'xV] logit matrix. The
// model's training and internals are a black box; this package depends
// only on the SequenceModel interface, never on a concrete backend.
package model

import (
	"github.com/cuedspeech/lpcdecode/types"
)

// SequenceModel is the contract every acoustic model backend must
// satisfy. A single instance must serialize concurrent Infer calls
// internally (spec.md §5) — callers may share one instance across
// streams but will observe queueing.
type SequenceModel interface {
	// Load reads a model from path. Returns a KindModelLoadFailed or
	// KindModelShapeMismatch *types.Error on failure.
	Load(path string) error

	// Infer runs the model over exactly windowSize frames (padding with
	// types.ZeroFrame() or truncating as needed) and returns the
	// resulting [T'xV] logit matrix. Returns a KindInferenceFailed
	// *types.Error on a runtime failure.
	Infer(frames []types.FrameFeatures, windowSize int) (types.LogitSlice, error)

	// VocabSize reports V from the most recent successful Infer call, or
	// 0 if none has succeeded yet.
	VocabSize() int

	// LastSequenceLength reports T' from the most recent successful
	// Infer call, or 0 if none has succeeded yet.
	LastSequenceLength() int

	// IsLoaded reports whether Load has succeeded.
	IsLoaded() bool
}
