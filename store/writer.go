// Package store implements the optional, off-by-default decode-history
// recorder (SPEC_FULL.md §2.3): persisting every types.RecognitionResult a
// window.Processor emits, keyed by (stream_id, frame_number), so a caller
// can audit or replay a session after the fact. It is not part of the
// core recognition contract — having no Writer at all (recording
// disabled) is the normal default.
//
// The shape mirrors the reference corpus-extraction pipeline's db.Writer:
// one small interface, several concrete backends selected by a factory
// from a config string.
package store

import (
	"database/sql"
	"errors"
	"strings"
)

var errNoWriter = errors.New("no valid recognition-result writer configured")

// Writer persists recognition results for one stream. Initialize must run
// before any PrepareInsert call; Commit or Rollback ends the writer's
// single transaction.
type Writer interface {
	DatabaseExists() bool
	Initialize(appendMode bool) error
	PrepareInsert() (InsertOperation, error)
	Commit() error
	Rollback() error
	Close()
}

// InsertOperation writes one recognition_result row.
type InsertOperation interface {
	Exec(streamID string, frameNumber int, phonemes []string, frenchSentence string, confidence float64) error
}

// Insert wraps a prepared INSERT statement, shared by every concrete
// backend (mirrors db.Insert's role of being the one InsertOperation
// implementation both sqlite and mysql writers hand back).
type Insert struct {
	Stmt *sql.Stmt
}

func (ins *Insert) Exec(streamID string, frameNumber int, phonemes []string, frenchSentence string, confidence float64) error {
	_, err := ins.Stmt.Exec(streamID, frameNumber, strings.Join(phonemes, ","), frenchSentence, confidence)
	return err
}

// NullWriter is what factory.NewWriter returns for an unrecognized
// backend type: every method fails loudly rather than silently
// discarding recognition results.
type NullWriter struct{}

func (nw *NullWriter) DatabaseExists() bool { return false }

func (nw *NullWriter) Initialize(appendMode bool) error {
	return errNoWriter
}

func (nw *NullWriter) PrepareInsert() (InsertOperation, error) {
	return nil, errNoWriter
}

func (nw *NullWriter) Commit() error { return errNoWriter }

func (nw *NullWriter) Rollback() error { return errNoWriter }

func (nw *NullWriter) Close() {}
