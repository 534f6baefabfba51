package subtitles

import (
	"slices"
	"testing"
)

func TestNormalizeLine(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		want  string
		marks []lineMark
	}{
		{"quotes", "“Hello” ‘world’ «x» ``y''", `"Hello" 'world' "x" "y"`, nil},
		{"apostrophe", "don’t", "don't", nil},
		{"ellipsis", "Wait…  what‥", "Wait... what...", nil},
		{"collapse punctuation", "What??!! Yes,, no;;", "What?! Yes, no;", nil},
		{"keeps dots", "So.... yes", "So.... yes", nil},
		{"font tag", `<font color="#ff0000">Red</font> car`, "Red car", nil},
		{"stray symbols", "#hashtag 50% off @home", "hashtag 50 off home", nil},
		{"ass override", `{\an8}Top line`, "Top line", nil},
		{"microdvd italic", "{y:i}emphasised text", "emphasised text", []lineMark{{0, true}, {15, false}}},
		{"microdvd upper", "{Y:i}Hi", "Hi", []lineMark{{0, true}, {2, false}}},
		{"braced italic", "{i}Hi{/i} there", "Hi there", []lineMark{{0, true}, {2, false}}},
		{"ass italic", `{\i1}Hi{\i0} there`, "Hi there", []lineMark{{0, true}, {2, false}}},
		{"html italic", "<i>Hello</i> world", "Hello world", []lineMark{{0, true}, {5, false}}},
		{"bold and em", "<b>a</b> <em>b</em>", "a b", []lineMark{{0, true}, {1, false}, {2, true}, {3, false}}},
		{"leading space after tag", "  <i> spaced</i>", "spaced", []lineMark{{0, true}, {6, false}}},
		{"only tags", "<i></i>", "", nil},
		{"blank", "   ", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, marks := normalizeLine(tt.raw)
			if got != tt.want {
				t.Fatalf("normalizeLine(%q) = %q, want %q", tt.raw, got, tt.want)
			}
			if tt.want != "" && !slices.Equal(marks, tt.marks) {
				t.Fatalf("marks = %v, want %v", marks, tt.marks)
			}
		})
	}
}
