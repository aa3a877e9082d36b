// Package types holds the shared contracts passed between the geometric
// feature extractor, the window processor, the CTC decoder and the
// sentence corrector. They are intentionally free of behavior: each
// component owns its own logic, but the data records that cross package
// boundaries live here to avoid import cycles.
package types

import "math"

// Landmark is a single 3-D point produced by a face/hand/pose detector.
// Non-finite components (NaN or +/-Inf in either X, Y or Z) mark the
// landmark as invalid; IsFinite reports that in one place so callers
// don't re-derive it.
type Landmark struct {
	X, Y, Z float64
}

// IsFinite reports whether all three coordinates are finite numbers.
func (l Landmark) IsFinite() bool {
	return isFinite(l.X) && isFinite(l.Y) && isFinite(l.Z)
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// LandmarkTuple is the raw per-frame output of the (external) detector:
// three ordered landmark lists. Pose is optional and currently unused by
// the feature extractor but carried through for forward compatibility.
type LandmarkTuple struct {
	Face []Landmark
	Hand []Landmark
	Pose []Landmark
}

// MinFaceLandmarks is the minimum number of indexed face landmarks a
// LandmarkTuple must carry for the feature extractor's indices to be
// addressable.
const MinFaceLandmarks = 455

// MinHandLandmarks is the number of indexed hand landmarks a
// LandmarkTuple must carry.
const MinHandLandmarks = 21

// FrameFeatures is the fixed-shape 33-d feature vector computed by the
// feature extractor for a single frame. Once produced it is immutable;
// it is only ever appended to a window processor's buffer or sliced into
// a FeatureWindow.
type FrameFeatures struct {
	HandShape    [7]float64
	HandPosition [18]float64
	Lips         [8]float64
}

// Valid reports whether every component of the feature vector is finite.
// The fixed-size arrays already guarantee the prescribed lengths, so
// validity here reduces to finiteness.
func (f FrameFeatures) Valid() bool {
	for _, v := range f.HandShape {
		if !isFinite(v) {
			return false
		}
	}
	for _, v := range f.HandPosition {
		if !isFinite(v) {
			return false
		}
	}
	for _, v := range f.Lips {
		if !isFinite(v) {
			return false
		}
	}
	return true
}

// ZeroFrame returns the zero FrameFeatures used to pad short windows.
func ZeroFrame() FrameFeatures {
	return FrameFeatures{}
}

// LogitSlice is a dense [Tc x V] matrix of per-timestep log-probabilities
// (or raw logits, prior to log-softmax, depending on where it is
// produced) owned by the window processor's accumulator.
type LogitSlice [][]float64

// Rows reports the number of timesteps in the slice.
func (s LogitSlice) Rows() int { return len(s) }

// Cols reports the vocabulary size, or 0 for an empty slice.
func (s LogitSlice) Cols() int {
	if len(s) == 0 {
		return 0
	}
	return len(s[0])
}

// Hypothesis is a single CTC beam-search output: a token index sequence,
// its resolved word sequence (when the decode traversed complete lexicon
// entries), a score in log space, and the timestep at which each token
// index was emitted.
type Hypothesis struct {
	Tokens    []int
	Words     []string
	Score     float64
	Timesteps []int
}

// RecognitionResult is the unit of output the window processor emits
// after every commit and after finalize: the best decoded phoneme
// sequence so far, optionally corrected into a French sentence.
type RecognitionResult struct {
	FrameNumber    int      `json:"frameNumber"`
	Phonemes       []string `json:"phonemes"`
	FrenchSentence string   `json:"frenchSentence,omitempty"`
	Confidence     float64  `json:"confidence"`
}

// Empty reports whether this result carries no decoded content, the
// shape returned when no hypothesis could be produced (spec.md §7).
func (r RecognitionResult) Empty() bool {
	return len(r.Phonemes) == 0 && r.FrenchSentence == "" && r.Confidence == 0
}
