package subtitles

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"subcorpus/internal/charset"
	"subcorpus/internal/logging"
	"subcorpus/internal/timecode"
)

var (
	indexRe  = regexp.MustCompile(`^\s*(\d+)\s*$`)
	timingRe = regexp.MustCompile(`^\s*(-?\d+[:,\s.]\s?-?\d+[:,\s.]\s?-?\d+(?:[:,\s.،]\s?\d+)?)\s*-[-\s]?>\s*(-?\d+[:,\s.]\s?-?\d+[:,\s.]\s?-?\d+(?:[:,\s.،]\s?\d+)?)`)
)

var utf8BOM = []byte{0xef, 0xbb, 0xbf}

// Source is one named input part.
type Source struct {
	Name string
	R    io.Reader
}

// Reader yields blocks from an ordered list of sources. It owns the list
// and discards each source once it is exhausted.
type Reader struct {
	sources    []Source
	in         *bufio.Reader
	candidates *charset.Candidates
	logger     *slog.Logger

	cur     string
	hasCur  bool
	started bool
	lineNo  int
	part    int

	prev          *Block
	lastEnd       float64
	offset        float64
	offsetPending bool
	ignored       int
}

// NewReader creates a reader over sources, decoding lines with candidates.
func NewReader(sources []Source, candidates *charset.Candidates, logger *slog.Logger) *Reader {
	if candidates == nil {
		candidates = charset.NewCandidates(charset.UTF8)
	}
	return &Reader{
		sources:    append([]Source(nil), sources...),
		candidates: candidates,
		logger:     logging.NewComponentLogger(logger, "reader"),
	}
}

// Encoding returns the encoding currently used to decode lines.
func (r *Reader) Encoding() string {
	return r.candidates.Current()
}

// IgnoredBlocks returns the number of blocks skipped for unparseable timing.
func (r *Reader) IgnoredBlocks() int {
	return r.ignored
}

// Parts returns the number of input parts opened so far.
func (r *Reader) Parts() int {
	return r.part
}

// Next returns the next block. It returns io.EOF once every source is
// exhausted; any other error is fatal for the document.
func (r *Reader) Next() (*Block, error) {
	if !r.started {
		r.started = true
		if err := r.openNext(); err != nil {
			return nil, err
		}
	}
	for {
		if err := r.skipBlank(); err != nil {
			return nil, err
		}
		if !r.hasCur {
			if len(r.sources) == 0 {
				return nil, io.EOF
			}
			if err := r.openNext(); err != nil {
				return nil, err
			}
			continue
		}

		block := &Block{Part: r.part}
		if m := indexRe.FindStringSubmatch(r.cur); m != nil {
			id, err := strconv.Atoi(m[1])
			if err != nil {
				id = r.nextID()
			}
			block.ID = id
			if err := r.advance(); err != nil {
				return nil, err
			}
			if err := r.skipBlank(); err != nil {
				return nil, err
			}
		} else {
			block.ID = r.nextID()
		}
		if !r.hasCur {
			r.ignore(block, "block truncated at end of input")
			continue
		}

		m := timingRe.FindStringSubmatch(r.cur)
		if m == nil {
			r.ignore(block, "cannot parse timing")
			if err := r.discardBody(); err != nil {
				return nil, err
			}
			continue
		}
		block.SourceLine = r.lineNo
		r.setTiming(block, m[1], m[2])
		if err := r.advance(); err != nil {
			return nil, err
		}

		for r.hasCur && !isBlank(r.cur) {
			block.AddLine(r.cur)
			if err := r.advance(); err != nil {
				return nil, err
			}
		}
		for r.hasCur && !indexRe.MatchString(r.cur) && !timingRe.MatchString(r.cur) {
			block.AddLine(r.cur)
			if err := r.advance(); err != nil {
				return nil, err
			}
		}

		r.link(block)
		return block, nil
	}
}

func (r *Reader) nextID() int {
	if r.prev != nil {
		return r.prev.ID + 1
	}
	return 1
}

func (r *Reader) ignore(block *Block, reason string) {
	r.ignored++
	text := ""
	if r.hasCur {
		text = r.cur
	}
	logging.WarnWithContext(r.logger, reason, "block_skipped",
		logging.Int(logging.FieldPart, r.part),
		logging.Int(logging.FieldLine, r.lineNo),
		logging.Int("block", block.ID),
		logging.String("text", text),
		logging.String(logging.FieldImpact, "block dropped from output"),
	)
}

func (r *Reader) setTiming(block *Block, startText, endText string) {
	start := timecode.Parse(startText)
	end := timecode.Parse(endText)
	if r.offsetPending {
		r.offsetPending = false
		if start < r.lastEnd {
			r.offset = r.lastEnd
			r.logger.Debug("shifting part timestamps",
				logging.Int(logging.FieldPart, r.part),
				logging.String("offset", timecode.Format(r.offset)),
			)
		}
	}
	if block.SetTiming(start+r.offset, end+r.offset) {
		r.logger.Debug("block ends before it starts",
			logging.Int(logging.FieldLine, r.lineNo),
			logging.Int("block", block.ID),
		)
	}
}

func (r *Reader) link(block *Block) {
	if r.prev != nil {
		r.prev.Previous = nil
	}
	block.Previous = r.prev
	r.prev = block
	if block.Timed && block.End > r.lastEnd {
		r.lastEnd = block.End
	}
}

// discardBody skips the offending line and the text lines that follow it,
// stopping at a blank line or at anything that opens a new block.
func (r *Reader) discardBody() error {
	if err := r.advance(); err != nil {
		return err
	}
	for r.hasCur && !isBlank(r.cur) && !indexRe.MatchString(r.cur) && !timingRe.MatchString(r.cur) {
		if err := r.advance(); err != nil {
			return err
		}
	}
	return nil
}

func (r *Reader) skipBlank() error {
	for r.hasCur && isBlank(r.cur) {
		if err := r.advance(); err != nil {
			return err
		}
	}
	return nil
}

// openNext pops the next source and loads its first line.
func (r *Reader) openNext() error {
	for len(r.sources) > 0 {
		src := r.sources[0]
		r.sources = r.sources[1:]
		r.part++
		r.lineNo = 0
		r.in = bufio.NewReader(src.R)
		r.offset = 0
		r.offsetPending = r.part > 1
		if r.part > 1 {
			r.logger.Debug("continuing with next part",
				logging.Int(logging.FieldPart, r.part),
				logging.String("source", src.Name),
			)
		}
		if err := r.advance(); err != nil {
			return err
		}
		if r.hasCur {
			return nil
		}
	}
	return nil
}

// advance loads the next decoded line of the current source into cur.
func (r *Reader) advance() error {
	r.hasCur = false
	if r.in == nil {
		return nil
	}
	raw, err := r.in.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("read part %d: %w", r.part, err)
	}
	if len(raw) == 0 && err != nil {
		r.in = nil
		return nil
	}
	r.lineNo++
	if r.lineNo == 1 {
		raw = bytes.TrimPrefix(raw, utf8BOM)
	}
	raw = bytes.TrimRight(raw, "\r\n")

	before := r.candidates.Current()
	text, decodeErr := r.candidates.Decode(raw)
	if decodeErr != nil {
		return fmt.Errorf("decode line %d of part %d (encoding %s): %w", r.lineNo, r.part, before, decodeErr)
	}
	if after := r.candidates.Current(); after != before {
		logging.WarnWithContext(r.logger, "switching encoding", "encoding_fallback",
			logging.String("from", before),
			logging.String("to", after),
			logging.Int(logging.FieldPart, r.part),
			logging.Int(logging.FieldLine, r.lineNo),
			logging.String(logging.FieldErrorHint, "pass an explicit encoding if the output looks garbled"),
		)
	}
	if r.lineNo == 1 {
		text = strings.TrimPrefix(text, "\ufeff")
	}
	r.cur = text
	r.hasCur = true
	return nil
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
