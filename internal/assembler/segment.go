package assembler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"subcorpus/internal/subtitles"
)

// recordLine tokenizes line i of b into the open sentence, flushing at
// dialogue dashes and stop punctuation. final marks the last line of the
// unit; its last token never flushes since the end anchor closes it.
func (s *State) recordLine(b *subtitles.Block, i int, final bool) error {
	line := b.Lines[i]
	raw, err := s.opts.Tokenizer.Tokenize(line)
	if err != nil {
		return fmt.Errorf("tokenize block %d: %w", b.ID, err)
	}
	tokens := splitDashes(raw)

	cursor := 0
	for k, tok := range tokens {
		last := k == len(tokens)-1
		pos := cursor
		if idx := strings.Index(line[cursor:], tok); idx >= 0 {
			pos = cursor + idx
			cursor = pos + len(tok)
		} else {
			cursor = min(len(line), cursor+len(tok))
		}

		if tok == "-" && !last && (s.opts.Unicase || startsUpper(tokens[k+1])) {
			if err := s.Flush(); err != nil {
				return err
			}
		} else {
			s.appendWord(tok, b.Emphasised(i, pos))
		}
		cursor = s.copySpace(line, cursor)

		if final && last {
			continue
		}
		if isStop(tok) && (last || s.opts.Unicase || startsUpper(tokens[k+1])) {
			if err := s.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (s *State) appendWord(tok string, emphasised bool) {
	corrected := s.opts.Corrector.Correct(tok)
	w := Word{Text: corrected, Emphasised: emphasised}
	if corrected != tok {
		w.Original = tok
	}
	s.buffer = append(s.buffer, w)
	s.raw.WriteString(corrected)
}

// copySpace copies the whitespace run at line[cursor:] into the raw text
// and returns the position after it.
func (s *State) copySpace(line string, cursor int) int {
	for cursor < len(line) {
		r, size := utf8.DecodeRuneInString(line[cursor:])
		if !unicode.IsSpace(r) {
			break
		}
		if s.raw.Len() > 0 {
			s.raw.WriteRune(r)
		}
		cursor += size
	}
	return cursor
}

// splitDashes moves a leading dash of a token into a token of its own.
func splitDashes(tokens []string) []string {
	out := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		if len(tok) > 1 && tok[0] == '-' {
			out = append(out, "-", tok[1:])
			continue
		}
		if tok != "" {
			out = append(out, tok)
		}
	}
	return out
}
