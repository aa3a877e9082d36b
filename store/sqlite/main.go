// Package sqlite is the store.Writer backend for a local sqlite3 file,
// grounded on db/sqlite/main.go and db/sqlite/operations.go from the
// reference corpus-extraction pipeline: same Writer shape, schema setup
// run once at Initialize, one long-lived transaction per session.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/cuedspeech/lpcdecode/fs"
	"github.com/cuedspeech/lpcdecode/store"

	_ "github.com/mattn/go-sqlite3" // load the driver
)

const tableName = "recognition_result"

// Writer persists recognition results to a sqlite3 file at Path.
type Writer struct {
	database *sql.DB
	tx       *sql.Tx
	Path     string
}

func (w *Writer) DatabaseExists() bool {
	return fs.IsFile(w.Path)
}

func openDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recognition-result db: %w", err)
	}
	return db, nil
}

func createSchema(database *sql.DB) error {
	_, err := database.Exec(fmt.Sprintf(
		`CREATE TABLE %s (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			stream_id TEXT NOT NULL,
			frame_number INTEGER NOT NULL,
			phonemes TEXT,
			french_sentence TEXT,
			confidence REAL
		)`, tableName))
	if err != nil {
		return fmt.Errorf("failed to create table %q: %w", tableName, err)
	}
	_, err = database.Exec(fmt.Sprintf(
		"CREATE INDEX %s_stream_idx ON %s(stream_id, frame_number)", tableName, tableName))
	if err != nil {
		return fmt.Errorf("failed to create index on %q: %w", tableName, err)
	}
	return nil
}

func dropExisting(database *sql.DB) error {
	_, err := database.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName))
	if err != nil {
		return fmt.Errorf("failed to drop table %q: %w", tableName, err)
	}
	return nil
}

// Initialize opens the database, optionally dropping and recreating the
// schema, and starts the writer's single transaction.
func (w *Writer) Initialize(appendMode bool) error {
	var err error
	existed := w.DatabaseExists()
	w.database, err = openDatabase(w.Path)
	if err != nil {
		return err
	}

	if !appendMode {
		if existed {
			log.Info().Str("path", w.Path).Msg("recognition-result db already exists, dropping")
			if err := dropExisting(w.database); err != nil {
				return err
			}
		}
		if err := createSchema(w.database); err != nil {
			return err
		}
	}

	w.database.Exec("PRAGMA synchronous = OFF")
	w.database.Exec("PRAGMA journal_mode = MEMORY")
	w.tx, err = w.database.Begin()
	return err
}

func (w *Writer) PrepareInsert() (store.InsertOperation, error) {
	if w.tx == nil {
		return nil, fmt.Errorf("cannot prepare insert - no transaction active")
	}
	stmt, err := w.tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (stream_id, frame_number, phonemes, french_sentence, confidence) VALUES (?, ?, ?, ?, ?)",
		tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert into %q: %w", tableName, err)
	}
	return &store.Insert{Stmt: stmt}, nil
}

func (w *Writer) Commit() error { return w.tx.Commit() }

func (w *Writer) Rollback() error { return w.tx.Rollback() }

func (w *Writer) Close() {
	if err := w.database.Close(); err != nil {
		log.Warn().Err(err).Msg("error closing recognition-result db")
	}
}

var _ store.Writer = (*Writer)(nil)
