package subtitles

import (
	"strings"
)

// EmphasisMark records an emphasis tag found in a block line. Offset is a
// byte offset into the normalized line.
type EmphasisMark struct {
	Line   int
	Offset int
	Open   bool
}

// Block is one timed subtitle unit.
type Block struct {
	ID    int
	Start float64
	End   float64
	// Timed is false when the block never received a valid timing line.
	Timed    bool
	Lines    []string
	Emphasis []EmphasisMark
	// Previous is the block read immediately before this one. It is not
	// owned and is cleared when the next block is read.
	Previous *Block
	// Part is the 1-based input part the block came from.
	Part int
	// SourceLine is the line number of the timing line within its part.
	SourceLine int
}

// SetTiming assigns start and end times, clamping End to Start when the
// source has them inverted. It reports whether clamping happened.
func (b *Block) SetTiming(start, end float64) bool {
	b.Start, b.End, b.Timed = start, end, true
	if b.End < b.Start {
		b.End = b.Start
		return true
	}
	return false
}

// AddLine normalizes raw and appends it unless nothing visible remains.
func (b *Block) AddLine(raw string) {
	text, marks := normalizeLine(raw)
	if text == "" {
		return
	}
	line := len(b.Lines)
	for _, mark := range marks {
		b.Emphasis = append(b.Emphasis, EmphasisMark{Line: line, Offset: mark.offset, Open: mark.open})
	}
	b.Lines = append(b.Lines, text)
}

// Text joins the block lines with single spaces.
func (b *Block) Text() string {
	return strings.Join(b.Lines, " ")
}

// Emphasised reports whether the byte position offset of line lies inside
// an emphasis span: the closest mark at or before the position must be an
// opening one, and a closing mark must follow the position somewhere in
// the block. Unbalanced trailing opens emphasise nothing.
func (b *Block) Emphasised(line, offset int) bool {
	var nearest *EmphasisMark
	for i := range b.Emphasis {
		mark := &b.Emphasis[i]
		if !atOrBefore(mark, line, offset) {
			break
		}
		nearest = mark
	}
	if nearest == nil || !nearest.Open {
		return false
	}
	for i := range b.Emphasis {
		mark := &b.Emphasis[i]
		if !mark.Open && !atOrBefore(mark, line, offset) {
			return true
		}
	}
	return false
}

func atOrBefore(mark *EmphasisMark, line, offset int) bool {
	if mark.Line != line {
		return mark.Line < line
	}
	return mark.Offset <= offset
}
