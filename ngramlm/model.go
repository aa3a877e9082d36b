// Package ngramlm provides the n-gram language model contract used by
// both the CTC decoder (spec.md §4.E) and the sentence corrector (§4.F).
// Two independent Model instances are typically live at once, loaded
// from different files through the same Backends registry — mirroring
// czcorpus-vert-tagextract's db/colgen.FuncList pattern of a named
// function registry, generalized here to constructor functions.
package ngramlm

import "fmt"

// State is an opaque n-gram context handle. Its only valid uses are as
// an argument to Model.Score or as the return value of Model.Start; its
// numeric representation is backend-specific.
type State int64

// Model is the n-gram scoring primitive spec.md §4.E step 3 and §4.F
// both depend on: an initial state, and a transition that advances the
// state by one word and reports that word's log-probability.
type Model interface {
	// Start returns the initial state (empty context / sentence start).
	Start() State

	// Score advances state by consuming wordIndex, returning the next
	// state and the log-probability of wordIndex given the context
	// state represented.
	Score(state State, wordIndex int) (State, float64)

	// Close releases any resources (e.g. an mmapped file) the model
	// holds. Safe to call on a Model that owns no such resources.
	Close() error
}

// Backend constructs a Model from a path. Registered under a name in
// Backends; selected by DecoderConfig/corrector configuration at load
// time so callers never import a concrete backend package directly.
type Backend func(path string, vocabSize int) (Model, error)

// Backends is the named registry of LM backend constructors, in the
// spirit of db/colgen.FuncList: a flat map from name to constructor,
// looked up once at load time rather than branching on type switches
// scattered through the codebase.
var Backends = map[string]Backend{
	"mmap":   OpenMmapModel,
	"memory": openMemoryModel,
}

// Open loads a Model using the named backend. Returns an error naming
// the unknown backend if name isn't registered.
func Open(name, path string, vocabSize int) (Model, error) {
	b, ok := Backends[name]
	if !ok {
		return nil, fmt.Errorf("unknown language model backend %q", name)
	}
	return b(path, vocabSize)
}

func openMemoryModel(path string, vocabSize int) (Model, error) {
	return LoadMemoryModel(path, vocabSize)
}
