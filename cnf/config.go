// Package cnf holds the configuration contract for the recognition core:
// DecoderConfig (spec.md §4.G). It is loaded once at process start and is
// read-only afterwards, the same way cnf.VTEConf worked in the reference
// extraction pipeline this module grew from.
package cnf

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cuedspeech/lpcdecode/fs"
	"github.com/cuedspeech/lpcdecode/types"
)

// Default values for the fields spec.md §4.G documents as defaulted.
const (
	DefaultBlankToken  = "<BLANK>"
	DefaultSilToken    = "_"
	DefaultUnkWord     = "<UNK>"
	DefaultNbest       = 1
	DefaultBeamSize    = 40
	DefaultBeamSizeTok = -1 // -1 => V
	DefaultThreshold   = 50.0
	DefaultLMWeight    = 3.23
	DefaultWordScore   = 0.0
	DefaultSilScore    = 0.0
	DefaultLMBackend   = "mmap"
)

// DecoderConfig enumerates every knob the CTC decoder and its lexicon/LM
// loading need, per spec.md §4.G.
type DecoderConfig struct {
	LexiconPath string `json:"lexiconPath"`
	TokensPath  string `json:"tokensPath"`
	LMPath      string `json:"lmPath"`
	LMDictPath  string `json:"lmDictPath,omitempty"`

	// LMBackend names the ngramlm.Backends entry used to open LMPath
	// ("mmap" or "memory"). Defaults to "mmap".
	LMBackend string `json:"lmBackend,omitempty"`

	Nbest          int     `json:"nbest"`
	BeamSize       int     `json:"beamSize"`
	BeamSizeToken  int     `json:"beamSizeToken"`
	BeamThreshold  float64 `json:"beamThreshold"`
	LMWeight       float64 `json:"lmWeight"`
	WordScore      float64 `json:"wordScore"`
	UnkScore       float64 `json:"unkScore"`
	SilScore       float64 `json:"silScore"`
	LogAdd         bool    `json:"logAdd"`
	BlankToken     string  `json:"blankToken,omitempty"`
	SilToken       string  `json:"silToken,omitempty"`
	UnkWord        string  `json:"unkWord,omitempty"`

	// ModelPath points at the gob-encoded acoustic model weights
	// consumed by the model package's adapter (outside spec.md's core
	// contract, but every demonstrator needs a concrete path to load).
	ModelPath string `json:"modelPath"`

	// HomophonesPath points at the JSON-lines homophone table consumed
	// by the corrector (spec.md §4.F, §6).
	HomophonesPath string `json:"homophonesPath,omitempty"`

	// CorrectorLMPath is the word-level n-gram LM used by the
	// corrector, kept separate from LMPath per spec.md §6 ("Two
	// separate LMs are used").
	CorrectorLMPath string `json:"correctorLmPath,omitempty"`

	// CorrectorLMBackend names the ngramlm.Backends entry used to open
	// CorrectorLMPath. Defaults to "mmap".
	CorrectorLMBackend string `json:"correctorLmBackend,omitempty"`

	// Store configures the optional decode-history recorder
	// (SPEC_FULL.md §2.3). A zero-value Store (empty DBType) leaves
	// recording disabled.
	Store StoreConfig `json:"store,omitempty"`
}

// StoreConfig selects and configures the optional store.Writer backend,
// mirroring db.Conf's {type, name, host, user, password} shape.
type StoreConfig struct {
	// DBType is "sqlite", "mysql", or "" (disabled).
	DBType   string `json:"dbType,omitempty"`
	Path     string `json:"path,omitempty"`
	Host     string `json:"host,omitempty"`
	User     string `json:"user,omitempty"`
	Password string `json:"password,omitempty"`
	Name     string `json:"name,omitempty"`
}

// Enabled reports whether a concrete store backend was configured.
func (c StoreConfig) Enabled() bool {
	return c.DBType != ""
}

// ApplyDefaults fills in the zero-value fields spec.md §4.G documents a
// default for. It mirrors NgramConf.UpgradeLegacy's role of normalizing a
// freshly-unmarshaled config before it is used.
func (c *DecoderConfig) ApplyDefaults() {
	if c.BlankToken == "" {
		c.BlankToken = DefaultBlankToken
	}
	if c.SilToken == "" {
		c.SilToken = DefaultSilToken
	}
	if c.UnkWord == "" {
		c.UnkWord = DefaultUnkWord
	}
	if c.Nbest == 0 {
		c.Nbest = DefaultNbest
	}
	if c.BeamSize == 0 {
		c.BeamSize = DefaultBeamSize
	}
	if c.BeamSizeToken == 0 {
		c.BeamSizeToken = DefaultBeamSizeTok
	}
	if c.BeamThreshold == 0 {
		c.BeamThreshold = DefaultThreshold
	}
	if c.LMWeight == 0 {
		c.LMWeight = DefaultLMWeight
	}
	if c.LMBackend == "" {
		c.LMBackend = DefaultLMBackend
	}
	if c.CorrectorLMBackend == "" {
		c.CorrectorLMBackend = DefaultLMBackend
	}
}

// Validate checks the presence of required paths, returning a
// KindConfigError wrapping the first problem found.
func (c *DecoderConfig) Validate() error {
	required := map[string]string{
		"lexiconPath": c.LexiconPath,
		"tokensPath":  c.TokensPath,
		"lmPath":      c.LMPath,
	}
	for name, path := range required {
		if path == "" {
			return types.WrapConfigError(fmt.Sprintf("missing required config field %q", name), nil)
		}
		if !fs.IsFile(path) {
			return types.WrapConfigError(fmt.Sprintf("%s %q does not exist or is not a regular file", name, path), nil)
		}
	}
	if c.BeamSize <= 0 {
		return types.WrapConfigError("beamSize must be positive", nil)
	}
	optional := map[string]string{
		"homophonesPath":  c.HomophonesPath,
		"correctorLmPath": c.CorrectorLMPath,
	}
	for name, path := range optional {
		if path != "" && !fs.IsFile(path) {
			return types.WrapConfigError(fmt.Sprintf("%s %q does not exist or is not a regular file", name, path), nil)
		}
	}
	return nil
}

// LoadConf reads a DecoderConfig from a JSON document at confPath,
// applies defaults and validates it.
func LoadConf(confPath string) (*DecoderConfig, error) {
	rawData, err := os.ReadFile(confPath)
	if err != nil {
		return nil, types.WrapConfigError(fmt.Sprintf("reading config %q", confPath), err)
	}
	var conf DecoderConfig
	if err := json.Unmarshal(rawData, &conf); err != nil {
		return nil, types.WrapConfigError("parsing config JSON", err)
	}
	conf.ApplyDefaults()
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &conf, nil
}
