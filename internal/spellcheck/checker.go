package spellcheck

import (
	"cmp"
	"log/slog"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"subcorpus/internal/logging"
)

// Corrector corrects individual word tokens.
type Corrector interface {
	Correct(token string) string
	Stats() Stats
	HasDictionary() bool
}

// Stats counts dictionary misses and applied corrections.
type Stats struct {
	Unknown   int
	Corrected int
}

// Nop leaves every token untouched.
type Nop struct{}

func (Nop) Correct(token string) string { return token }
func (Nop) Stats() Stats                { return Stats{} }
func (Nop) HasDictionary() bool         { return false }

// ocrSubstitution replaces one occurrence of from with to.
type ocrSubstitution struct {
	from, to    string
	initialOnly bool
}

var ocrSubstitutions = []ocrSubstitution{
	{from: "ii", to: "ll"},
	{from: "II", to: "ll"},
	{from: "l", to: "I", initialOnly: true},
	{from: "i", to: "l"},
	{from: "I", to: "l"},
	{from: "l", to: "i"},
	{from: "0", to: "O"},
}

// Checker corrects lower-case alphabetic words missing from its dictionary.
type Checker struct {
	dict   *Dictionary
	logger *slog.Logger
	stats  Stats
}

// NewChecker returns a checker backed by dict.
func NewChecker(dict *Dictionary, logger *slog.Logger) *Checker {
	return &Checker{dict: dict, logger: logging.NewComponentLogger(logger, "spellcheck")}
}

func (c *Checker) HasDictionary() bool { return c.dict != nil }

func (c *Checker) Stats() Stats { return c.stats }

// Correct returns the corrected form of token, or token itself when it is
// known, not a lower-case word, or no correction applies.
func (c *Checker) Correct(token string) string {
	if c.dict == nil || !correctable(token) || c.dict.Contains(token) {
		return token
	}
	c.stats.Unknown++
	corrected := c.correct(token)
	if corrected != token {
		c.stats.Corrected++
		c.logger.Debug("word corrected", logging.String("word", token), logging.String("correction", corrected))
	}
	return corrected
}

func correctable(token string) bool {
	first, _ := utf8.DecodeRuneInString(token)
	if first == utf8.RuneError || !unicode.IsLower(first) {
		return false
	}
	for _, r := range token {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

func (c *Checker) correct(word string) string {
	var candidates []string
	for _, sub := range ocrSubstitutions {
		for pos := 0; pos < len(word); {
			idx := strings.Index(word[pos:], sub.from)
			if idx < 0 {
				break
			}
			at := pos + idx
			if !sub.initialOnly || at == 0 {
				candidate := word[:at] + sub.to + word[at+len(sub.from):]
				if c.dict.Contains(candidate) {
					candidates = append(candidates, candidate)
				}
			}
			pos = at + 1
		}
	}
	if len(candidates) > 0 {
		// First candidate wins ties.
		return slices.MaxFunc(candidates, func(a, b string) int {
			return cmp.Compare(c.dict.Frequency(a), c.dict.Frequency(b))
		})
	}

	if restored, ok := c.dict.RestoreAccents(word); ok {
		return restored
	}
	if strings.HasSuffix(word, "in") && c.dict.Contains(word+"g") {
		return word + "g"
	}
	return word
}
