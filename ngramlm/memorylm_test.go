package ngramlm

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryModelUnigramAndBigramLookup(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lm.txt")
	content := "# comment\n- 3 -8.0\n3 5 -1.2\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m, err := LoadMemoryModel(path, 10)
	require.NoError(t, err)

	start := m.Start()
	next, score := m.Score(start, 3)
	assert.Equal(t, -8.0, score)

	_, score2 := m.Score(next, 5)
	assert.Equal(t, -1.2, score2)

	_, score3 := m.Score(next, 9)
	assert.Equal(t, unigramFloor, score3)
}

func TestMemoryModelViaBackendRegistry(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lm.txt")
	require.NoError(t, os.WriteFile(path, []byte("- 0 -2.0\n"), 0o644))

	m, err := Open("memory", path, 5)
	require.NoError(t, err)
	_, score := m.Score(m.Start(), 0)
	assert.Equal(t, -2.0, score)
	assert.NoError(t, m.Close())
}

func TestOpenUnknownBackend(t *testing.T) {
	_, err := Open("bogus", "", 1)
	assert.Error(t, err)
}

func TestNewMemoryModelSeeded(t *testing.T) {
	m := NewMemoryModel(3, map[int]float64{0: -8.0}, nil)
	_, score := m.Score(m.Start(), 0)
	assert.Equal(t, -8.0, score)
}
