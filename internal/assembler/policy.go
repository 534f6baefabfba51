package assembler

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Continuation policy names.
const (
	PolicyThreshold = "threshold"
	PolicyBalance   = "balance"
)

// Limits bound the length of a sentence and interpret pauses between
// blocks. A zero MaxAnchors selects the policy's own anchor limit.
type Limits struct {
	PauseShort float64
	PauseLong  float64
	MaxWords   int
	MaxAnchors int
}

// DefaultLimits returns the limits used when none are configured.
func DefaultLimits() Limits {
	return Limits{PauseShort: 1, PauseLong: 3, MaxWords: 40}
}

func (l Limits) anchors(fallback int) int {
	if l.MaxAnchors > 0 {
		return l.MaxAnchors
	}
	return fallback
}

// Context describes the open sentence and the block being considered.
type Context struct {
	// Line is the first line of the new block.
	Line string
	// LastWord is the last word of the open sentence.
	LastWord string
	// Pause is the time between the last anchor of the open sentence and
	// the start of the new block, in seconds.
	Pause   float64
	Anchors int
	Words   int
	Unicase bool
}

// Policy decides whether a block continues the open sentence.
type Policy interface {
	Name() string
	Continues(c Context) bool
}

// NewPolicy returns the named policy.
func NewPolicy(name string, limits Limits) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", PolicyThreshold:
		return Threshold{Limits: limits}, nil
	case PolicyBalance:
		return Balance{Limits: limits}, nil
	default:
		return nil, fmt.Errorf("unknown continuation policy %q", name)
	}
}

// Threshold accumulates break evidence and splits once the score reaches
// 3. Without enough evidence, an uppercase start still splits.
type Threshold struct {
	Limits Limits
}

func (Threshold) Name() string { return PolicyThreshold }

func (p Threshold) Continues(c Context) bool {
	if c.LastWord == "..." && (strings.HasPrefix(c.Line, "...") || isLowercase(c.Line)) {
		return true
	}
	if strings.HasPrefix(c.Line, "-") {
		return false
	}

	score := 1
	if isStop(c.LastWord) {
		score = 3
	}
	if c.Pause > p.Limits.PauseShort {
		score++
	}
	if c.Pause > p.Limits.PauseLong {
		score++
	}
	if c.Anchors > p.Limits.anchors(2) {
		score++
	}
	if c.Words > p.Limits.MaxWords {
		score++
	}
	if score >= 3 {
		return false
	}

	if r := leadingRune(c.Line); unicode.IsUpper(r) || r == '¿' || r == '¡' {
		return false
	}
	if r := significantRune(c.Line); score >= 2 && (unicode.IsUpper(r) || unicode.IsNumber(r) || r == '(' || r == '[') {
		return false
	}
	return true
}

// Balance weighs continuation evidence against break evidence and
// continues while the total stays positive.
type Balance struct {
	Limits Limits
}

func (Balance) Name() string { return PolicyBalance }

func (p Balance) Continues(c Context) bool {
	score := 1
	switch {
	case c.LastWord == "...":
		score += 3
	case isStop(c.LastWord) || isClosingQuote(c.LastWord):
		score -= 3
	}

	line := strings.TrimLeftFunc(c.Line, unicode.IsSpace)
	if first, _ := utf8.DecodeRuneInString(line); strings.ContainsRune(`-"'¿¡«`, first) {
		score -= 2
	}
	r := significantRune(line)
	switch {
	case unicode.IsLower(r):
		score += 2
	case unicode.IsUpper(r):
		score--
	}
	if unicode.IsDigit(r) || c.Unicase {
		score++
	}

	if c.Pause > p.Limits.PauseShort {
		score--
	}
	if c.Pause > p.Limits.PauseLong {
		score--
	}
	if c.Anchors > p.Limits.anchors(3) {
		score--
	}
	if c.Words > p.Limits.MaxWords {
		score--
	}
	return score > 0
}

var stopPunctuation = []rune{'.', '!', '?', ':', ';', '。', '！', '？', '；', '：', '؟', '।'}

// isStop reports whether token starts with sentence-ending punctuation.
func isStop(token string) bool {
	r, size := utf8.DecodeRuneInString(token)
	if size == 0 {
		return false
	}
	for _, stop := range stopPunctuation {
		if r == stop {
			return true
		}
	}
	return false
}

func isClosingQuote(token string) bool {
	return token == `"` || token == "'" || token == "»"
}

// isLowercase reports whether s has cased letters and all of them are
// lower case.
func isLowercase(s string) bool {
	cased := false
	for _, r := range s {
		switch {
		case unicode.IsUpper(r) || unicode.IsTitle(r):
			return false
		case unicode.IsLower(r):
			cased = true
		}
	}
	return cased
}

func startsUpper(token string) bool {
	r, _ := utf8.DecodeRuneInString(token)
	return unicode.IsUpper(r)
}

// leadingRune returns the first rune of line after leading spaces and at
// most one opening quote or bracket.
func leadingRune(line string) rune {
	return afterOpener(strings.TrimLeftFunc(line, unicode.IsSpace))
}

// significantRune is leadingRune that also skips dialogue dashes and
// leftover markup characters.
func significantRune(line string) rune {
	line = strings.TrimLeftFunc(line, unicode.IsSpace)
	line = strings.TrimLeft(line, "-#*'")
	return afterOpener(strings.TrimLeftFunc(line, unicode.IsSpace))
}

func afterOpener(line string) rune {
	first, size := utf8.DecodeRuneInString(line)
	if size == 0 {
		return utf8.RuneError
	}
	if strings.ContainsRune(`"'[`, first) {
		if next, n := utf8.DecodeRuneInString(line[size:]); n > 0 {
			return next
		}
	}
	return first
}
