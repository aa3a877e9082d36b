// Command lpcstream is a thin demonstrator wiring the recognition core
// end to end: geometric feature extraction, the overlap-save window
// processor, the CTC beam-search decoder and the sentence corrector,
// fed by a JSON-lines fixture of landmark tuples. It is not part of the
// core recognition contract (SPEC_FULL.md keeps CLI surface, config
// loading and model provisioning out of the core); it exists only to
// exercise the pipeline as a real program would, in the flag-driven,
// signal-aware style of vte.go/cmd/udex/udex.go.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/czcorpus/cnc-gokit/collections"

	"github.com/cuedspeech/lpcdecode/cnf"
	"github.com/cuedspeech/lpcdecode/corrector"
	"github.com/cuedspeech/lpcdecode/ctcdecode"
	"github.com/cuedspeech/lpcdecode/feature"
	"github.com/cuedspeech/lpcdecode/model"
	"github.com/cuedspeech/lpcdecode/ngramlm"
	"github.com/cuedspeech/lpcdecode/phoneme"
	"github.com/cuedspeech/lpcdecode/store"
	"github.com/cuedspeech/lpcdecode/store/factory"
	"github.com/cuedspeech/lpcdecode/types"
	"github.com/cuedspeech/lpcdecode/window"
)

// landmarkLine is the JSON-lines fixture row shape: a flat [x,y,z] list
// per face/hand landmark, one line per detector frame.
type landmarkLine struct {
	Face [][3]float64 `json:"face"`
	Hand [][3]float64 `json:"hand"`
}

func toTuple(l landmarkLine) types.LandmarkTuple {
	face := make([]types.Landmark, len(l.Face))
	for i, p := range l.Face {
		face[i] = types.Landmark{X: p[0], Y: p[1], Z: p[2]}
	}
	hand := make([]types.Landmark, len(l.Hand))
	for i, p := range l.Hand {
		hand[i] = types.Landmark{X: p[0], Y: p[1], Z: p[2]}
	}
	return types.LandmarkTuple{Face: face, Hand: hand}
}

// phonemeToken lets a distinct-phoneme summary be collected in a
// collections.BinTree the way udex.go collects and deduplicates parsed
// token-feature variants before reporting them.
type phonemeToken string

func (p phonemeToken) Compare(other collections.Comparable) int {
	o, ok := other.(phonemeToken)
	if !ok {
		return -1
	}
	return strings.Compare(string(p), string(o))
}

func run(confPath, fixturePath, streamID string) error {
	conf, err := cnf.LoadConf(confPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	acoustic := model.NewGobModel()
	if err := acoustic.Load(conf.ModelPath); err != nil {
		return fmt.Errorf("loading acoustic model: %w", err)
	}

	alphabet, err := ctcdecode.LoadAlphabet(conf.TokensPath)
	if err != nil {
		return fmt.Errorf("loading alphabet: %w", err)
	}
	lexicon, err := ctcdecode.LoadLexicon(conf.LexiconPath, alphabet)
	if err != nil {
		return fmt.Errorf("loading lexicon: %w", err)
	}
	decoderLM, err := ngramlm.Open(conf.LMBackend, conf.LMPath, lexicon.Len())
	if err != nil {
		return fmt.Errorf("loading decoder LM: %w", err)
	}
	defer decoderLM.Close()
	trie := ctcdecode.BuildTrie(lexicon, decoderLM)
	decoder := ctcdecode.NewDecoder(alphabet, lexicon, trie, decoderLM,
		ctcdecode.ConfigFromCnf(conf), conf.SilToken, conf.UnkWord)

	var corr *corrector.Corrector
	var correctorLM ngramlm.Model
	if conf.HomophonesPath != "" && conf.CorrectorLMPath != "" {
		table, err := corrector.LoadHomophones(conf.HomophonesPath)
		if err != nil {
			return fmt.Errorf("loading homophones: %w", err)
		}
		correctorLM, err = ngramlm.Open(conf.CorrectorLMBackend, conf.CorrectorLMPath, lexicon.Len())
		if err != nil {
			return fmt.Errorf("loading corrector LM: %w", err)
		}
		defer correctorLM.Close()
		corr = corrector.New(table, correctorLM)
	}

	var writer store.Writer
	if conf.Store.Enabled() {
		writer, err = factory.NewWriter(conf.Store)
		if err != nil {
			return fmt.Errorf("opening result store: %w", err)
		}
		if err := writer.Initialize(true); err != nil {
			return fmt.Errorf("initializing result store: %w", err)
		}
		defer writer.Close()
	}

	proc := window.NewProcessor(acoustic, decoder)

	f, err := os.Open(fixturePath)
	if err != nil {
		return fmt.Errorf("opening landmark fixture: %w", err)
	}
	defer f.Close()

	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, os.Interrupt, syscall.SIGTERM)

	seenPhonemes := new(collections.BinTree[phonemeToken])
	seenPhonemes.UniqValues = true

	var results []types.RecognitionResult
	var insert store.InsertOperation
	if writer != nil {
		insert, err = writer.PrepareInsert()
		if err != nil {
			return fmt.Errorf("preparing result insert: %w", err)
		}
	}

	var history []types.LandmarkTuple
	scanner := bufio.NewScanner(f)
scanLoop:
	for scanner.Scan() {
		select {
		case <-signalChan:
			zlog.Warn().Str("stream_id", streamID).Msg("interrupted, finalizing early")
			break scanLoop
		default:
		}

		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}
		var line landmarkLine
		if err := sonic.Unmarshal(raw, &line); err != nil {
			return fmt.Errorf("parsing landmark line: %w", err)
		}
		history = append(history, toTuple(line))

		var (
			feats types.FrameFeatures
			valid bool
		)
		if len(history) >= 3 {
			n := len(history)
			feats, valid = feature.Extract(feature.Frames{
				Prev2: history[n-3], Prev1: history[n-2], Cur: history[n-1],
			})
		}

		if proc.PushFrame(feats, valid) {
			recordResult(proc.ProcessWindow(), streamID, &results, seenPhonemes, insert)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading landmark fixture: %w", err)
	}

	recordResult(proc.Finalize(), streamID, &results, seenPhonemes, insert)

	if writer != nil {
		if err := writer.Commit(); err != nil {
			return fmt.Errorf("committing result store: %w", err)
		}
	}

	final := lastNonEmpty(results)
	if !final.Empty() {
		fmt.Printf("phonemes: %s\n", strings.Join(final.Phonemes, " "))
		fmt.Printf("ipa:      %s\n", phoneme.LiaphonToIPA(final.Phonemes))
		if corr != nil {
			sentence := corr.Correct(final.Phonemes, func(w string) (int, bool) { return lexicon.WordIndex(w) })
			fmt.Printf("sentence: %s\n", sentence)
		}
	}
	fmt.Printf("distinct phonemes seen: %s\n", joinTokens(seenPhonemes.ToSlice()))
	return nil
}

// recordResult emits r as a JSON line on stdout (the demonstrator's
// stand-in for a subtitle writer, SPEC_FULL.md §6), accumulates it for
// the final summary, and persists it if a result store is configured.
func recordResult(r types.RecognitionResult, streamID string, results *[]types.RecognitionResult,
	seen *collections.BinTree[phonemeToken], insert store.InsertOperation) {
	if r.Empty() {
		return
	}
	*results = append(*results, r)
	for _, p := range r.Phonemes {
		seen.Add(phonemeToken(p))
	}

	if line, err := sonic.Marshal(r); err != nil {
		zlog.Error().Err(err).Str("stream_id", streamID).Msg("failed to marshal recognition result")
	} else {
		fmt.Println(string(line))
	}

	if insert != nil {
		if err := insert.Exec(streamID, r.FrameNumber, r.Phonemes, r.FrenchSentence, r.Confidence); err != nil {
			zlog.Error().Err(err).Str("stream_id", streamID).Msg("failed to persist recognition result")
		}
	}
}

func lastNonEmpty(results []types.RecognitionResult) types.RecognitionResult {
	for i := len(results) - 1; i >= 0; i-- {
		if !results[i].Empty() {
			return results[i]
		}
	}
	return types.RecognitionResult{}
}

func joinTokens(toks []phonemeToken) string {
	out := make([]string, len(toks))
	for i, t := range toks {
		out[i] = string(t)
	}
	return strings.Join(out, " ")
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	flag.Usage = func() {
		fmt.Println("lpcstream - decode a JSON-lines landmark fixture into phonemes and a French sentence")
		fmt.Println("\nUsage:")
		fmt.Println("  lpcstream -conf config.json -fixture frames.jsonl [-stream-id id]")
		flag.PrintDefaults()
	}
	confPath := flag.String("conf", "", "path to a DecoderConfig JSON document")
	fixturePath := flag.String("fixture", "", "path to a JSON-lines file of landmark frames")
	streamID := flag.String("stream-id", "", "correlation id for this stream (default: a fresh uuid)")
	flag.Parse()

	if *confPath == "" || *fixturePath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *streamID == "" {
		*streamID = uuid.NewString()
	}

	if err := run(*confPath, *fixturePath, *streamID); err != nil {
		log.Fatal("FATAL: ", err)
	}
}
