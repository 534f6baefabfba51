package assembler

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"subcorpus/internal/logging"
	"subcorpus/internal/spellcheck"
	"subcorpus/internal/subtitles"
	"subcorpus/internal/tokenize"
)

// Sink receives flushed sentences in order.
type Sink interface {
	WriteSentence(s *Sentence) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(s *Sentence) error

func (f SinkFunc) WriteSentence(s *Sentence) error { return f(s) }

// Options configure a State.
type Options struct {
	Policy      Policy
	AlwaysSplit bool
	// Unicase disables case-based boundary checks.
	Unicase bool
	// Lang tags every sentence of this state (bilingual documents).
	Lang      string
	Tokenizer tokenize.Tokenizer
	Corrector spellcheck.Corrector
	Sink      Sink
	Logger    *slog.Logger
}

// Stats summarizes the sentences flushed so far.
type Stats struct {
	Sentences int
	Tokens    int
}

// State assembles the sentences of one output document.
type State struct {
	opts   Options
	logger *slog.Logger

	buffer []Token
	raw    strings.Builder

	stats      Stats
	lastAnchor TimeAnchor
	anchored   bool
}

// NewState returns a State writing to opts.Sink. A missing policy,
// tokenizer or corrector falls back to Threshold, Builtin and Nop.
func NewState(opts Options) (*State, error) {
	if opts.Sink == nil {
		return nil, errors.New("assembler: sink is required")
	}
	if opts.Policy == nil {
		opts.Policy = Threshold{Limits: DefaultLimits()}
	}
	if opts.Tokenizer == nil {
		opts.Tokenizer = tokenize.Builtin{}
	}
	if opts.Corrector == nil {
		opts.Corrector = spellcheck.Nop{}
	}
	return &State{
		opts:   opts,
		logger: logging.NewComponentLogger(opts.Logger, "assembler"),
	}, nil
}

// Stats returns the sentence and word totals.
func (s *State) Stats() Stats { return s.stats }

// Corrector returns the corrector bound to this state.
func (s *State) Corrector() spellcheck.Corrector { return s.opts.Corrector }

// LastAnchor returns the most recent time anchor recorded, flushed or not.
func (s *State) LastAnchor() (TimeAnchor, bool) { return s.lastAnchor, s.anchored }

// AddBlock appends a block to the open sentence, or to a new one when the
// policy decides the block does not continue it.
func (s *State) AddBlock(b *subtitles.Block) error {
	if !s.continues(b) {
		if err := s.Flush(); err != nil {
			return err
		}
	}
	s.appendAnchor(startAnchor(b))
	for i := range b.Lines {
		if s.raw.Len() > 0 {
			s.raw.WriteByte(' ')
		}
		if err := s.recordLine(b, i, i == len(b.Lines)-1); err != nil {
			return err
		}
	}
	s.appendAnchor(endAnchor(b))
	return nil
}

// AddLine writes line i of b as a complete sentence bounded by the block's
// anchors. Anything left in the buffer is discarded.
func (s *State) AddLine(b *subtitles.Block, i int) error {
	s.buffer = s.buffer[:0]
	s.raw.Reset()
	s.appendAnchor(startAnchor(b))
	if err := s.recordLine(b, i, true); err != nil {
		return err
	}
	s.appendAnchor(endAnchor(b))
	return s.Flush()
}

// Flush hands the open sentence to the sink. Without word tokens it does
// nothing and keeps the buffered anchors. Ellipses that only bridge two
// blocks are dropped from the flushed tokens.
func (s *State) Flush() error {
	if countWords(s.buffer) == 0 {
		return nil
	}
	tokens := dropBridgingEllipses(s.buffer)
	raw := strings.TrimSpace(s.raw.String())
	s.buffer = s.buffer[:0]
	s.raw.Reset()

	words := countWords(tokens)
	if words == 0 {
		s.logger.Debug("sentence without words dropped", logging.String("raw", raw))
		return nil
	}
	s.stats.Sentences++
	s.stats.Tokens += words
	sentence := &Sentence{
		ID:     s.stats.Sentences,
		Tokens: tokens,
		Lang:   s.opts.Lang,
		Raw:    raw,
	}
	if err := s.opts.Sink.WriteSentence(sentence); err != nil {
		return fmt.Errorf("write sentence %d: %w", sentence.ID, err)
	}
	return nil
}

func (s *State) continues(b *subtitles.Block) bool {
	if len(s.buffer) == 0 || len(b.Lines) == 0 {
		return true
	}
	if s.opts.AlwaysSplit {
		return false
	}
	c := Context{Line: b.Lines[0], Unicase: s.opts.Unicase}
	lastTime, timed := 0.0, false
	for i := len(s.buffer) - 1; i >= 0; i-- {
		switch tok := s.buffer[i].(type) {
		case Word:
			if c.LastWord == "" {
				c.LastWord = tok.Text
			}
			c.Words++
		case TimeAnchor:
			if !timed {
				lastTime, timed = tok.Value, true
			}
			c.Anchors++
		}
	}
	if timed {
		c.Pause = b.Start - lastTime
	}
	cont := s.opts.Policy.Continues(c)
	s.logger.Debug("continuation decided",
		logging.Int("block", b.ID),
		logging.String("policy", s.opts.Policy.Name()),
		logging.Bool("continues", cont),
	)
	return cont
}

func (s *State) appendAnchor(a TimeAnchor) {
	s.buffer = append(s.buffer, a)
	s.lastAnchor, s.anchored = a, true
}

func startAnchor(b *subtitles.Block) TimeAnchor {
	return TimeAnchor{Label: fmt.Sprintf("T%dS", b.ID), Value: b.Start}
}

func endAnchor(b *subtitles.Block) TimeAnchor {
	return TimeAnchor{Label: fmt.Sprintf("T%dE", b.ID), Value: b.End}
}

// dropBridgingEllipses returns a copy of tokens without the "..." words
// that touch a time anchor inside the sentence.
func dropBridgingEllipses(tokens []Token) []Token {
	interiorAnchor := func(i int) bool {
		if i <= 0 || i >= len(tokens)-1 {
			return false
		}
		_, ok := tokens[i].(TimeAnchor)
		return ok
	}
	out := make([]Token, 0, len(tokens))
	for i, tok := range tokens {
		if w, ok := tok.(Word); ok && w.Text == "..." && (interiorAnchor(i-1) || interiorAnchor(i+1)) {
			continue
		}
		out = append(out, tok)
	}
	return out
}
