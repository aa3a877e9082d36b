package sqlite

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"

	_ "github.com/mattn/go-sqlite3"
)

func createDatabase(t *testing.T) *sql.DB {
	database, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	return database
}

func TestCreateSchema(t *testing.T) {
	database := createDatabase(t)
	assert.NoError(t, createSchema(database))

	res, err := database.Query("PRAGMA table_info(recognition_result)")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
	cols := make(map[string]bool)
	for res.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dflt interface{}
		if err := res.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			t.Fatal(err)
		}
		cols[name] = true
	}
	assert.Contains(t, cols, "stream_id")
	assert.Contains(t, cols, "frame_number")
	assert.Contains(t, cols, "phonemes")
	assert.Contains(t, cols, "french_sentence")
	assert.Contains(t, cols, "confidence")
	assert.Equal(t, 6, len(cols))
}

func TestDropExisting(t *testing.T) {
	database := createDatabase(t)
	if _, err := database.Exec("CREATE TABLE recognition_result (id INTEGER PRIMARY KEY)"); err != nil {
		t.Fatal(err)
	}
	assert.NoError(t, dropExisting(database))

	res, err := database.Query("SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'recognition_result'")
	if err != nil {
		t.Fatal(err)
	}
	defer res.Close()
	assert.False(t, res.Next())
}

func TestInsertAndQueryRoundtrip(t *testing.T) {
	w := &Writer{Path: ":memory:"}
	assert.NoError(t, w.Initialize(false))
	defer w.Close()

	insert, err := w.PrepareInsert()
	if err != nil {
		t.Fatal(err)
	}
	assert.NoError(t, insert.Exec("stream-1", 3, []string{"s", "e"}, "", 0.92))
	assert.NoError(t, w.Commit())

	var streamID, phonemes string
	var frameNumber int
	var confidence float64
	row := w.database.QueryRow(
		"SELECT stream_id, frame_number, phonemes, confidence FROM recognition_result WHERE stream_id = ?",
		"stream-1")
	if err := row.Scan(&streamID, &frameNumber, &phonemes, &confidence); err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, "stream-1", streamID)
	assert.Equal(t, 3, frameNumber)
	assert.Equal(t, "s,e", phonemes)
	assert.Equal(t, 0.92, confidence)
}

func TestPrepareInsertWithoutInitializeFails(t *testing.T) {
	w := &Writer{Path: ":memory:"}
	_, err := w.PrepareInsert()
	assert.Error(t, err)
}
