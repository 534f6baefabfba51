package subtitles

import "testing"

func newBlock(lines ...string) *Block {
	b := &Block{ID: 1}
	b.SetTiming(1, 2)
	for _, line := range lines {
		b.AddLine(line)
	}
	return b
}

func TestBlockDropsEmptyLines(t *testing.T) {
	b := newBlock("", "  ", "<i></i>", "Hello")
	if len(b.Lines) != 1 || b.Lines[0] != "Hello" {
		t.Fatalf("Lines = %q", b.Lines)
	}
}

func TestSetTimingClampsInvertedRange(t *testing.T) {
	b := &Block{}
	if !b.SetTiming(5, 3) {
		t.Fatal("expected clamping to be reported")
	}
	if b.Start != 5 || b.End != 5 || !b.Timed {
		t.Fatalf("unexpected timing %v-%v", b.Start, b.End)
	}
}

func TestEmphasised(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		line   int
		offset int
		want   bool
	}{
		{"microdvd start", []string{"{y:i}emphasised text"}, 0, 0, true},
		{"microdvd second word", []string{"{y:i}emphasised text"}, 0, 11, true},
		{"inside span", []string{"<i>Hello</i> world"}, 0, 0, true},
		{"after close", []string{"<i>Hello</i> world"}, 0, 6, false},
		{"before open", []string{"Say <i>hi</i>"}, 0, 0, false},
		{"across lines", []string{"<i>Hello", "world</i>"}, 1, 0, true},
		{"unmatched open", []string{"<i>Hello world"}, 0, 6, false},
		{"no marks", []string{"plain"}, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBlock(tt.lines...)
			if got := b.Emphasised(tt.line, tt.offset); got != tt.want {
				t.Fatalf("Emphasised(%d, %d) = %v, want %v (marks %v)", tt.line, tt.offset, got, tt.want, b.Emphasis)
			}
		})
	}
}

func TestSpurious(t *testing.T) {
	tests := []struct {
		name     string
		previous []string
		lines    []string
		untimed  bool
		want     string
	}{
		{"dialogue", nil, []string{"Hello there."}, false, ""},
		{"untimed", nil, []string{"Hello"}, true, ReasonUntimed},
		{"url", nil, []string{"Visit www.example.org"}, false, ReasonAdvertisement},
		{"opensubtitles", nil, []string{"Support us at OpenSubtitles"}, false, ReasonAdvertisement},
		{"dot com", nil, []string{"subs from example.com"}, false, ReasonAdvertisement},
		{"credit", nil, []string{"Subtitles by Team X"}, false, ReasonAdvertisement},
		{"one trailing char", []string{"Hello world"}, []string{"Hello world."}, false, ReasonNearDuplicate},
		{"two trailing chars", []string{"Hello"}, []string{"Hello!?"}, false, ReasonNearDuplicate},
		{"exact duplicate", []string{"Hello world"}, []string{"Hello world"}, false, ReasonNearDuplicate},
		{"three trailing chars", []string{"Hello"}, []string{"Hello you"}, false, ""},
		{"multi line duplicate", []string{"Hello", "world"}, []string{"Hello", "world."}, false, ReasonNearDuplicate},
		{"empty previous", []string{}, []string{"a"}, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newBlock(tt.lines...)
			if tt.untimed {
				b.Timed = false
			}
			if tt.previous != nil {
				b.Previous = newBlock(tt.previous...)
			}
			if got := b.Spurious(); got != tt.want {
				t.Fatalf("Spurious() = %q, want %q", got, tt.want)
			}
		})
	}
}
