package conversion

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"subcorpus/internal/assembler"
	"subcorpus/internal/charset"
	"subcorpus/internal/config"
	"subcorpus/internal/document"
	"subcorpus/internal/langid"
	"subcorpus/internal/language"
	"subcorpus/internal/logging"
	"subcorpus/internal/spellcheck"
	"subcorpus/internal/subtitles"
	"subcorpus/internal/tokenize"
)

// Options wire the collaborators of a Converter. A Converter holds no
// per-document state and may convert several documents concurrently.
type Options struct {
	Registry     *language.Registry
	Tokenizers   tokenize.Factory
	Dictionaries *spellcheck.Cache
	// DictionaryPath resolves a language's dictionary file name.
	DictionaryPath func(name string) string
	Identifier     langid.Identifier
	// Detector is consulted for unknown and difficult languages. Nil
	// disables detection.
	Detector    *charset.Detector
	Policy      assembler.Policy
	AlwaysSplit bool
	Logger      *slog.Logger
}

// Request describes one document conversion.
type Request struct {
	// ID overrides the document id derived from the first input name.
	ID       string
	Inputs   []subtitles.Source
	Language *language.Language
	// Encoding is tried before the language's own encodings.
	Encoding string

	Output    io.Writer
	RawOutput io.Writer
	// SecondOutput and SecondRawOutput receive the second language of
	// bilingual subtitles. The second language is discarded when
	// SecondOutput is nil.
	SecondOutput    io.Writer
	SecondRawOutput io.Writer

	// Metadata holds caller-provided sections copied into every output.
	Metadata *document.Metadata
}

// Result summarizes one converted document.
type Result struct {
	DocumentID string
	Language   string
	Sentences  int
	Tokens     int
	// Blocks is the id of the last block written.
	Blocks int
	// Duration is the end time of the last block, in seconds.
	Duration       float64
	Encoding       string
	IgnoredBlocks  int
	UnknownWords   int
	CorrectedWords int
	Dictionary     bool
	Confidence     float64
	CDs            int
	// Second summarizes the second-language document of bilingual input.
	Second *Result
}

// Converter turns subtitle files into corpus documents.
type Converter struct {
	opts   Options
	logger *slog.Logger
}

// New returns a converter. Missing collaborators get in-process defaults.
func New(opts Options) *Converter {
	if opts.Tokenizers == nil {
		opts.Tokenizers = tokenize.NewFactory(tokenize.Options{Backend: tokenize.BackendBuiltin})
	}
	if opts.Dictionaries == nil {
		opts.Dictionaries = spellcheck.NewCache()
	}
	if opts.DictionaryPath == nil {
		opts.DictionaryPath = func(name string) string { return name }
	}
	if opts.Identifier == nil {
		opts.Identifier = langid.ScriptScorer{}
	}
	if opts.Policy == nil {
		opts.Policy = assembler.Threshold{Limits: assembler.DefaultLimits()}
	}
	return &Converter{opts: opts, logger: logging.NewComponentLogger(opts.Logger, "converter")}
}

// NewFromConfig builds a converter from configuration.
func NewFromConfig(cfg *config.Config, registry *language.Registry, logger *slog.Logger) (*Converter, error) {
	policy, err := assembler.NewPolicy(cfg.Conversion.ContinuationPolicy, assembler.Limits{
		PauseShort: cfg.Conversion.PauseShortSeconds,
		PauseLong:  cfg.Conversion.PauseLongSeconds,
		MaxWords:   cfg.Conversion.MaxSentenceWords,
		MaxAnchors: cfg.Conversion.MaxSentenceAnchors,
	})
	if err != nil {
		return nil, err
	}
	return New(Options{
		Registry: registry,
		Tokenizers: tokenize.NewFactory(tokenize.Options{
			Backend:     cfg.Tokenizer.Backend,
			PerlBinary:  cfg.Tokenizer.PerlBinary,
			MosesScript: cfg.Tokenizer.MosesScript,
			KyteaBinary: cfg.Tokenizer.KyteaBinary,
			KyteaModels: cfg.Tokenizer.KyteaModels,
			Logger:      logger,
		}),
		Dictionaries:   spellcheck.NewCache(),
		DictionaryPath: cfg.DictionaryPath,
		Identifier:     langid.ScriptScorer{},
		Detector: &charset.Detector{
			SampleBytes:   cfg.Encoding.DetectSampleBytes,
			MinConfidence: cfg.Encoding.MinConfidence,
		},
		Policy:      policy,
		AlwaysSplit: cfg.Conversion.AlwaysSplit,
		Logger:      logger,
	}), nil
}

// Convert converts one document. Errors are *Error values classified by
// FailureKind; outputs may hold a partial document after a failure.
func (c *Converter) Convert(ctx context.Context, req Request) (*Result, error) {
	if len(req.Inputs) == 0 {
		return nil, wrap(KindInput, "convert", errors.New("no input sources"))
	}
	if req.Output == nil {
		return nil, wrap(KindOutput, "convert", errors.New("no output"))
	}
	docID := DocumentID(req.ID, req.Inputs[0].Name)
	ctx = logging.WithDocumentID(ctx, docID)
	logger := logging.WithContext(ctx, c.logger)

	inputs := slices.Clone(req.Inputs)
	candidates, err := c.seedEncodings(inputs, req.Encoding, req.Language, logger)
	if err != nil {
		return nil, err
	}
	reader := subtitles.NewReader(inputs, candidates, logger)

	sides, err := c.openSides(ctx, req, logger)
	defer closeSides(sides, logger)
	if err != nil {
		return nil, err
	}
	for _, s := range sides {
		if err := s.begin(docID); err != nil {
			return nil, err
		}
	}

	spurious := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil, wrap(KindCanceled, "convert", err)
		}
		block, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if errors.Is(err, charset.ErrExhausted) {
				return nil, wrap(KindEncoding, "read subtitles", err)
			}
			return nil, wrap(KindInput, "read subtitles", err)
		}
		if reason := block.Spurious(); reason != "" {
			spurious++
			logger.Debug("spurious block dropped",
				logging.Int("block", block.ID),
				logging.Int(logging.FieldLine, block.SourceLine),
				logging.String("reason", reason),
				logging.String("text", block.Text()),
			)
			continue
		}
		if err := routeBlock(sides, block); err != nil {
			return nil, wrap(KindTokenizer, fmt.Sprintf("block %d", block.ID), err)
		}
	}

	result := &Result{}
	for i, s := range sides {
		if err := s.state.Flush(); err != nil {
			return nil, wrap(KindTokenizer, "flush", err)
		}
		r := s.result(c.opts.Identifier)
		r.DocumentID = docID
		r.Encoding = reader.Encoding()
		r.IgnoredBlocks = reader.IgnoredBlocks() + spurious
		r.CDs = reader.Parts()
		if err := s.end(buildMetadata(req.Metadata, r)); err != nil {
			return nil, err
		}
		if i == 0 {
			result = r
		} else {
			result.Second = r
		}
	}
	logger.Info("document converted",
		logging.String(logging.FieldEventType, "document_converted"),
		logging.Int("sentences", result.Sentences),
		logging.Int("tokens", result.Tokens),
		logging.String("encoding", result.Encoding),
		logging.Int("ignored_blocks", result.IgnoredBlocks),
	)
	return result, nil
}

// DocumentID returns id, or the base name of the first input up to its
// first dot.
func DocumentID(id, firstInput string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	if firstInput == "" {
		return ""
	}
	base := filepath.Base(firstInput)
	if i := strings.Index(base, "."); i >= 0 {
		base = base[:i]
	}
	return base
}
