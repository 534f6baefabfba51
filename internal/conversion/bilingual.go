package conversion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	"subcorpus/internal/assembler"
	"subcorpus/internal/document"
	"subcorpus/internal/langid"
	"subcorpus/internal/language"
	"subcorpus/internal/logging"
	"subcorpus/internal/spellcheck"
	"subcorpus/internal/subtitles"
	"subcorpus/internal/tokenize"
)

// maxSample bounds the text kept per output for language identification.
const maxSample = 64 << 10

// side is one output document: its assembler state, tokenizer, writers
// and language sample. Bilingual conversions hold two sides.
type side struct {
	lang      *language.Language
	tokenizer tokenize.Tokenizer
	state     *assembler.State
	writers   []*document.Writer
	sample    strings.Builder
}

func (c *Converter) openSides(ctx context.Context, req Request, logger *slog.Logger) ([]*side, error) {
	if !req.Language.Bilingual() {
		primary, err := c.openSide(ctx, req.Language, "", req.Output, req.RawOutput, logger)
		return []*side{primary}, err
	}

	if c.opts.Registry == nil {
		return nil, wrap(KindInput, "bilingual", errors.New("no language registry for second language"))
	}
	second, err := c.opts.Registry.Second(req.Language)
	if err != nil {
		return nil, wrap(KindInput, "bilingual", err)
	}
	out, raw := req.SecondOutput, req.SecondRawOutput
	if out == nil {
		logging.WarnWithContext(logger, "second language output not set", "second_output_missing",
			logging.String("language", second.Name),
			logging.String(logging.FieldErrorHint, "pass --second-output to keep the second language"),
			logging.String(logging.FieldImpact, "second language lines are discarded"),
		)
		out, raw = io.Discard, nil
	}

	primary, err := c.openSide(ctx, req.Language, "1", req.Output, req.RawOutput, logger)
	if err != nil {
		return []*side{primary}, err
	}
	other, err := c.openSide(ctx, second, "2", out, raw, logger)
	return []*side{primary, other}, err
}

func (c *Converter) openSide(ctx context.Context, lang *language.Language, tag string, out, raw io.Writer, logger *slog.Logger) (*side, error) {
	tok, err := c.opts.Tokenizers.New(ctx, lang)
	if err != nil {
		return nil, wrap(KindTokenizer, "start tokenizer", err)
	}
	s := &side{lang: lang, tokenizer: tok}

	s.writers = append(s.writers, document.NewWriter(out))
	if raw != nil {
		s.writers = append(s.writers, document.NewRawWriter(raw))
	}
	sinks := make([]assembler.Sink, 0, len(s.writers))
	for _, w := range s.writers {
		sinks = append(sinks, w)
	}
	tee := document.Tee(sinks...)

	corrector := c.corrector(lang, logger)
	state, err := assembler.NewState(assembler.Options{
		Policy:      c.opts.Policy,
		AlwaysSplit: c.opts.AlwaysSplit,
		Unicase:     lang != nil && lang.Unicase,
		Lang:        tag,
		Tokenizer:   tok,
		Corrector:   corrector,
		Sink: assembler.SinkFunc(func(sentence *assembler.Sentence) error {
			return wrap(KindOutput, "write sentence", tee.WriteSentence(sentence))
		}),
		Logger: logger,
	})
	if err != nil {
		return s, wrap(KindInternal, "assembler", err)
	}
	s.state = state
	return s, nil
}

func (c *Converter) corrector(lang *language.Language, logger *slog.Logger) spellcheck.Corrector {
	if lang == nil || lang.Dictionary == "" {
		return spellcheck.Nop{}
	}
	path := c.opts.DictionaryPath(lang.Dictionary)
	corr, err := c.opts.Dictionaries.Corrector(path, logger)
	if err != nil {
		logging.WarnWithContext(logger, "dictionary unavailable", "dictionary_unavailable",
			logging.String("language", lang.Name),
			logging.String("path", path),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.dictionary_dir"),
			logging.String(logging.FieldImpact, "words are not spell-checked"),
		)
		return spellcheck.Nop{}
	}
	return corr
}

// routeBlock feeds a block to the sides. With two sides, line i is a
// sentence of side i%2.
func routeBlock(sides []*side, block *subtitles.Block) error {
	if len(sides) == 1 {
		sides[0].keep(block.Text())
		return sides[0].state.AddBlock(block)
	}
	for i, line := range block.Lines {
		s := sides[i%2]
		s.keep(line)
		if err := s.state.AddLine(block, i); err != nil {
			return err
		}
	}
	return nil
}

func (s *side) keep(text string) {
	if s.sample.Len() >= maxSample {
		return
	}
	if s.sample.Len() > 0 {
		s.sample.WriteByte(' ')
	}
	s.sample.WriteString(text)
}

func (s *side) begin(id string) error {
	for _, w := range s.writers {
		if err := w.Begin(id); err != nil {
			return wrap(KindOutput, "begin document", err)
		}
	}
	return nil
}

func (s *side) end(meta *document.Metadata) error {
	for _, w := range s.writers {
		if err := w.End(meta); err != nil {
			return wrap(KindOutput, "end document", err)
		}
	}
	return nil
}

func (s *side) result(identifier langid.Identifier) *Result {
	stats := s.state.Stats()
	corr := s.state.Corrector().Stats()
	r := &Result{
		Sentences:      stats.Sentences,
		Tokens:         stats.Tokens,
		UnknownWords:   corr.Unknown,
		CorrectedWords: corr.Corrected,
		Dictionary:     s.state.Corrector().HasDictionary(),
	}
	if s.lang != nil {
		r.Language = s.lang.Name
		r.Confidence = identifier.Confidence(s.sample.String(), s.lang)
	}
	if a, ok := s.state.LastAnchor(); ok {
		r.Blocks = anchorBlock(a.Label)
		r.Duration = a.Value
	}
	return r
}

func closeSides(sides []*side, logger *slog.Logger) {
	for _, s := range sides {
		if s == nil || s.tokenizer == nil {
			continue
		}
		if err := s.tokenizer.Close(); err != nil {
			logging.WarnWithContext(logger, "tokenizer close failed", "tokenizer_close_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "tokenizer process may linger"),
			)
		}
	}
}
