// Package mysql is the store.Writer backend for a shared MySQL database,
// grounded on db/mysql/main.go from the reference corpus-extraction
// pipeline: same Writer shape, one fixed recognition_result table in a
// shared database rather than sqlite's one-file-per-db model.
package mysql

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	gomysql "github.com/go-sql-driver/mysql"

	"github.com/cuedspeech/lpcdecode/store"
)

const tableName = "recognition_result"

// Config names the connection parameters, mirroring cnf.StoreConfig.
type Config struct {
	Host     string
	User     string
	Password string
	DBName   string
}

// Writer persists recognition results to a MySQL table.
type Writer struct {
	database *sql.DB
	tx       *sql.Tx
	dbName   string
}

// NewWriter opens a connection (but starts no transaction yet; call
// Initialize for that).
func NewWriter(conf Config) (*Writer, error) {
	mconf := gomysql.NewConfig()
	mconf.Net = "tcp"
	mconf.Addr = conf.Host
	mconf.User = conf.User
	mconf.Passwd = conf.Password
	mconf.DBName = conf.DBName
	mconf.ParseTime = true
	mconf.Loc = time.Local
	db, err := sql.Open("mysql", mconf.FormatDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open recognition-result db: %w", err)
	}
	return &Writer{database: db, dbName: conf.DBName}, nil
}

func (w *Writer) DatabaseExists() bool {
	row := w.database.QueryRow(
		`SELECT COUNT(*) > 0 FROM information_schema.TABLES WHERE TABLE_SCHEMA = ? AND TABLE_NAME = ?`,
		w.dbName, tableName,
	)
	var ans bool
	if err := row.Scan(&ans); err != nil {
		log.Error().Err(err).Msg("failed to test recognition-result table existence")
		return false
	}
	return ans
}

func (w *Writer) createSchema() error {
	_, err := w.database.Exec(fmt.Sprintf(
		`CREATE TABLE %s (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			stream_id VARCHAR(128) NOT NULL,
			frame_number INT NOT NULL,
			phonemes TEXT,
			french_sentence TEXT,
			confidence DOUBLE,
			INDEX stream_idx (stream_id, frame_number)
		)`, tableName))
	if err != nil {
		return fmt.Errorf("failed to create table %q: %w", tableName, err)
	}
	return nil
}

func (w *Writer) dropExisting() error {
	_, err := w.database.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", tableName))
	if err != nil {
		return fmt.Errorf("failed to drop table %q: %w", tableName, err)
	}
	return nil
}

func (w *Writer) Initialize(appendMode bool) error {
	existed := w.DatabaseExists()
	if !appendMode {
		if existed {
			log.Warn().Str("table", tableName).Msg("recognition-result table already exists, dropping")
			if err := w.dropExisting(); err != nil {
				return err
			}
		}
		if err := w.createSchema(); err != nil {
			return err
		}
	}
	var err error
	w.tx, err = w.database.Begin()
	return err
}

func (w *Writer) PrepareInsert() (store.InsertOperation, error) {
	if w.tx == nil {
		return nil, fmt.Errorf("cannot prepare insert into %s - no transaction active", tableName)
	}
	stmt, err := w.tx.Prepare(fmt.Sprintf(
		"INSERT INTO %s (stream_id, frame_number, phonemes, french_sentence, confidence) VALUES (?, ?, ?, ?, ?)",
		tableName))
	if err != nil {
		return nil, fmt.Errorf("failed to prepare insert into %s: %w", tableName, err)
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
