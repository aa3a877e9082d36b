package ngramlm

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// unigramFloor is the log-probability MemoryModel reports for any
// (state, wordIndex) pair absent from its table — a finite but heavily
// penalized score, rather than -Inf, so a beam search using it can still
// rank surviving hypotheses against each other instead of zeroing them
// all identically.
const unigramFloor = -1e6

// MemoryModel is a small in-process n-gram LM: a flat map from (context,
// wordIndex) to a log-probability, loaded from a plain-text table.
// It exists for tests and for small closed-vocabulary deployments where
// the mmap backend's binary format is unnecessary ceremony.
//
// File format, one entry per non-empty, non-comment (#) line:
//
//	<context> <wordIndex> <logProb>
//
// context is either "-" (the start state) or a previous word index.
// Both context and wordIndex are integers assigned by the same vocabulary
// the caller (ctcdecode's word index or the corrector's homophone word
// list) uses; MemoryModel never sees word strings.
type MemoryModel struct {
	vocabSize int
	unigram   map[int]float64
	bigram    map[[2]int]float64
}

var _ Model = (*MemoryModel)(nil)

// LoadMemoryModel parses path into a MemoryModel. Registered under
// "memory" in Backends.
func LoadMemoryModel(path string, vocabSize int) (*MemoryModel, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening lm table %q: %w", path, err)
	}
	defer f.Close()

	m := &MemoryModel{
		vocabSize: vocabSize,
		unigram:   make(map[int]float64),
		bigram:    make(map[[2]int]float64),
	}

	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 3 {
			return nil, fmt.Errorf("lm table %q line %d: want 3 fields, got %d", path, lineNo, len(fields))
		}
		score, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("lm table %q line %d: bad score %q: %w", path, lineNo, fields[2], err)
		}
		wordIdx, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("lm table %q line %d: bad word index %q: %w", path, lineNo, fields[1], err)
		}
		if fields[0] == "-" {
			m.unigram[wordIdx] = score
			continue
		}
		prevIdx, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("lm table %q line %d: bad context %q: %w", path, lineNo, fields[0], err)
		}
		m.bigram[[2]int{prevIdx, wordIdx}] = score
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading lm table %q: %w", path, err)
	}
	return m, nil
}

// NewMemoryModel builds a MemoryModel directly from in-memory tables,
// bypassing the file format — used by tests that want to seed exact
// scores (e.g. spec.md §8 scenario S2's "bonjour" unigram score).
func NewMemoryModel(vocabSize int, unigram map[int]float64, bigram map[[2]int]float64) *MemoryModel {
	if unigram == nil {
		unigram = map[int]float64{}
	}
	if bigram == nil {
		bigram = map[[2]int]float64{}
	}
	return &MemoryModel{vocabSize: vocabSize, unigram: unigram, bigram: bigram}
}

func (m *MemoryModel) Start() State { return State(-1) }

func (m *MemoryModel) Score(state State, wordIndex int) (State, float64) {
	if state == State(-1) {
		if s, ok := m.unigram[wordIndex]; ok {
			return State(wordIndex), s
		}
		return State(wordIndex), unigramFloor
	}
	if s, ok := m.bigram[[2]int{int(state), wordIndex}]; ok {
		return State(wordIndex), s
	}
	if s, ok := m.unigram[wordIndex]; ok {
		return State(wordIndex), s
	}
	return State(wordIndex), unigramFloor
}

func (m *MemoryModel) Close() error { return nil }
