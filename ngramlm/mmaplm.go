package ngramlm

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"golang.org/x/sys/unix"
)

// mmapLMMagic identifies the dense-bigram binary LM format mmapModel
// reads. There is no public reference format for this domain's n-gram
// LM, so this package defines its own: a fixed-size header followed by
// a row-major float64 matrix, loaded by mmap rather than a full read so
// large vocabularies don't require copying the whole table into the
// process heap up front.
const mmapLMMagic = 0x4c504d4c // "LPML"

// mmapModel is a dense bigram language model memory-mapped from disk.
// Binary layout: magic(4) | vocabSize(4) | (vocabSize+1)*vocabSize
// float64 entries, row-major. Row 0 is the unigram (start-state) row;
// rows 1..vocabSize are the bigram row for previous-word index row-1.
type mmapModel struct {
	data      []byte
	vocabSize int
}

var _ Model = (*mmapModel)(nil)

// OpenMmapModel mmaps path and validates its header against vocabSize.
// Registered under "mmap" in Backends.
func OpenMmapModel(path string, vocabSize int) (Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lm file %q: %w", path, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat lm file %q: %w", path, err)
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(stat.Size()), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap lm file %q: %w", path, err)
	}

	if len(data) < 8 {
		unix.Munmap(data)
		return nil, fmt.Errorf("lm file %q too short for header", path)
	}
	magic := binary.LittleEndian.Uint32(data[0:4])
	fileVocab := int(binary.LittleEndian.Uint32(data[4:8]))
	if magic != mmapLMMagic {
		unix.Munmap(data)
		return nil, fmt.Errorf("lm file %q has bad magic", path)
	}
	if fileVocab != vocabSize {
		unix.Munmap(data)
		return nil, fmt.Errorf("lm file %q vocab size %d does not match expected %d", path, fileVocab, vocabSize)
	}
	wantLen := 8 + (vocabSize+1)*vocabSize*8
	if len(data) != wantLen {
		unix.Munmap(data)
		return nil, fmt.Errorf("lm file %q has %d bytes, want %d", path, len(data), wantLen)
	}

	return &mmapModel{data: data, vocabSize: vocabSize}, nil
}

func (m *mmapModel) Start() State { return State(-1) }

// Score looks up the (context row, wordIndex) cell directly out of the
// mmapped byte slice. An out-of-vocabulary wordIndex scores -Inf.
func (m *mmapModel) Score(state State, wordIndex int) (State, float64) {
	if wordIndex < 0 || wordIndex >= m.vocabSize {
		return state, math.Inf(-1)
	}
	row := int(state) + 1
	if row < 0 || row > m.vocabSize {
		row = 0
	}
	offset := 8 + (row*m.vocabSize+wordIndex)*8
	bits := binary.LittleEndian.Uint64(m.data[offset : offset+8])
	return State(wordIndex), math.Float64frombits(bits)
}

func (m *mmapModel) Close() error {
	if m.data == nil {
		return nil
	}
	data := m.data
	m.data = nil
	return unix.Munmap(data)
}
