package cnf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func touch(t *testing.T, dir, name string) string {
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestApplyDefaults(t *testing.T) {
	var c DecoderConfig
	c.ApplyDefaults()
	assert.Equal(t, DefaultBlankToken, c.BlankToken)
	assert.Equal(t, DefaultSilToken, c.SilToken)
	assert.Equal(t, DefaultUnkWord, c.UnkWord)
	assert.Equal(t, DefaultNbest, c.Nbest)
	assert.Equal(t, DefaultBeamSize, c.BeamSize)
	assert.Equal(t, DefaultBeamSizeTok, c.BeamSizeToken)
	assert.Equal(t, DefaultThreshold, c.BeamThreshold)
	assert.Equal(t, DefaultLMWeight, c.LMWeight)
	assert.Equal(t, DefaultLMBackend, c.LMBackend)
	assert.Equal(t, DefaultLMBackend, c.CorrectorLMBackend)
}

func TestApplyDefaultsDoesNotOverrideSetFields(t *testing.T) {
	c := DecoderConfig{BeamSize: 7, LMBackend: "memory"}
	c.ApplyDefaults()
	assert.Equal(t, 7, c.BeamSize)
	assert.Equal(t, "memory", c.LMBackend)
}

func TestValidateRequiresExistingPaths(t *testing.T) {
	dir := t.TempDir()
	lexicon := touch(t, dir, "lexicon.txt")
	tokens := touch(t, dir, "tokens.txt")
	lm := touch(t, dir, "lm.bin")

	c := DecoderConfig{
		LexiconPath: lexicon,
		TokensPath:  tokens,
		LMPath:      lm,
		BeamSize:    40,
	}
	assert.NoError(t, c.Validate())
}

func TestValidateRejectsMissingRequiredField(t *testing.T) {
	c := DecoderConfig{BeamSize: 40}
	err := c.Validate()
	assert.Error(t, err)
}

func TestValidateRejectsNonexistentPath(t *testing.T) {
	dir := t.TempDir()
	c := DecoderConfig{
		LexiconPath: filepath.Join(dir, "missing.txt"),
		TokensPath:  touch(t, dir, "tokens.txt"),
		LMPath:      touch(t, dir, "lm.bin"),
		BeamSize:    40,
	}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsNonPositiveBeamSize(t *testing.T) {
	dir := t.TempDir()
	c := DecoderConfig{
		LexiconPath: touch(t, dir, "lexicon.txt"),
		TokensPath:  touch(t, dir, "tokens.txt"),
		LMPath:      touch(t, dir, "lm.bin"),
		BeamSize:    0,
	}
	assert.Error(t, c.Validate())
}

func TestValidateRejectsMissingOptionalPath(t *testing.T) {
	dir := t.TempDir()
	c := DecoderConfig{
		LexiconPath:    touch(t, dir, "lexicon.txt"),
		TokensPath:     touch(t, dir, "tokens.txt"),
		LMPath:         touch(t, dir, "lm.bin"),
		BeamSize:       40,
		HomophonesPath: filepath.Join(dir, "missing-homophones.jsonl"),
	}
	assert.Error(t, c.Validate())
}

func TestStoreConfigEnabled(t *testing.T) {
	assert.False(t, StoreConfig{}.Enabled())
	assert.True(t, StoreConfig{DBType: "sqlite"}.Enabled())
}

func TestLoadConfRoundtrip(t *testing.T) {
	dir := t.TempDir()
	lexicon := touch(t, dir, "lexicon.txt")
	tokens := touch(t, dir, "tokens.txt")
	lm := touch(t, dir, "lm.bin")
	confPath := filepath.Join(dir, "conf.json")
	body := `{"lexiconPath":"` + lexicon + `","tokensPath":"` + tokens + `","lmPath":"` + lm + `","beamSize":12}`
	if err := os.WriteFile(confPath, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	c, err := LoadConf(confPath)
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, 12, c.BeamSize)
	assert.Equal(t, DefaultLMBackend, c.LMBackend)
}

func TestLoadConfMissingFile(t *testing.T) {
	_, err := LoadConf(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}
