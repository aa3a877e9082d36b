package model

import (
	"encoding/gob"
	"fmt"
	"os"
	"sync"

	"github.com/cuedspeech/lpcdecode/types"
)

// GobWeights is the on-disk representation of a GobModel: per-feature-
// group linear weights plus a bias, one row per vocabulary entry. Using
// encoding/gob keeps the acoustic model format Go-native and dependency
// free, the same choice temporal-IPA/tipa's pkg/phono/gob_loader.go makes
// for its own binary dictionary format.
type GobWeights struct {
	// VocabSize is V, the number of rows in every weight matrix below.
	VocabSize int

	// Tokens, when non-empty, names each row; purely informational.
	Tokens []string

	WLips         [][]float64 // [V][8]
	WHandShape    [][]float64 // [V][7]
	WHandPosition [][]float64 // [V][18]
	Bias          []float64   // [V]
}

func (w *GobWeights) validate() error {
	if w.VocabSize <= 0 {
		return fmt.Errorf("vocabSize must be positive, got %d", w.VocabSize)
	}
	checks := []struct {
		name string
		rows [][]float64
		cols int
	}{
		{"wLips", w.WLips, 8},
		{"wHandShape", w.WHandShape, 7},
		{"wHandPosition", w.WHandPosition, 18},
	}
	for _, c := range checks {
		if len(c.rows) != w.VocabSize {
			return fmt.Errorf("%s has %d rows, want %d (vocabSize)", c.name, len(c.rows), w.VocabSize)
		}
		for i, row := range c.rows {
			if len(row) != c.cols {
				return fmt.Errorf("%s row %d has %d columns, want %d", c.name, i, len(row), c.cols)
			}
		}
	}
	if len(w.Bias) != w.VocabSize {
		return fmt.Errorf("bias has %d entries, want %d (vocabSize)", len(w.Bias), w.VocabSize)
	}
	return nil
}

// GobModel is a SequenceModel implementation backed by a gob-encoded
// GobWeights file: per-timestep logits are a fixed linear combination of
// the three feature groups. It is deliberately simple — the spec treats
// the acoustic model's internals as an opaque black box (spec.md §1);
// this adapter exists to give SequenceModel a concrete, testable,
// dependency-free implementation without requiring an external ML
// runtime this pack does not provide.
type GobModel struct {
	mu sync.Mutex

	weights *GobWeights
	lastT   int
}

var _ SequenceModel = (*GobModel)(nil)

// NewGobModel returns an unloaded adapter; call Load before Infer.
func NewGobModel() *GobModel {
	return &GobModel{}
}

func (m *GobModel) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return types.NewError(types.KindModelLoadFailed, fmt.Sprintf("opening model %q", path), err)
	}
	defer f.Close()

	var w GobWeights
	if err := gob.NewDecoder(f).Decode(&w); err != nil {
		return types.NewError(types.KindModelLoadFailed, "decoding gob model", err)
	}
	if err := w.validate(); err != nil {
		return types.NewError(types.KindModelShapeMismatch, "validating model weights", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.weights = &w
	return nil
}

func (m *GobModel) IsLoaded() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.weights != nil
}

// Infer runs the linear model over exactly windowSize frames (the
// FrameFeatures slice is read left to right; missing entries beyond
// len(frames) are treated as the zero frame, matching spec.md §4.C's
// "missing frames are filled with the zero FrameFeatures").
func (m *GobModel) Infer(frames []types.FrameFeatures, windowSize int) (types.LogitSlice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.weights == nil {
		return nil, types.NewError(types.KindModelLoadFailed, "infer called before load", nil)
	}
	if windowSize <= 0 {
		return nil, types.NewError(types.KindInvalidArguments, "windowSize must be positive", nil)
	}

	v := m.weights.VocabSize
	out := make(types.LogitSlice, windowSize)
	for t := 0; t < windowSize; t++ {
		var frame types.FrameFeatures
		if t < len(frames) {
			frame = frames[t]
		}
		row := make([]float64, v)
		for i := 0; i < v; i++ {
			sum := m.weights.Bias[i]
			for k, x := range frame.Lips {
				sum += x * m.weights.WLips[i][k]
			}
			for k, x := range frame.HandShape {
				sum += x * m.weights.WHandShape[i][k]
			}
			for k, x := range frame.HandPosition {
				sum += x * m.weights.WHandPosition[i][k]
			}
			row[i] = sum
		}
		out[t] = row
	}

	m.lastT = windowSize
	return out, nil
}

func (m *GobModel) VocabSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.weights == nil || m.lastT == 0 {
		return 0
	}
	return m.weights.VocabSize
}

func (m *GobModel) LastSequenceLength() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastT
}
