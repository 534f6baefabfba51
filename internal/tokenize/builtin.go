package tokenize

import (
	"regexp"
	"strings"
)

// builtinRe matches, in order: ellipses, single CJK characters, words with
// inner apostrophes or hyphens, numbers with inner separators, and any
// other single non-space rune.
var builtinRe = regexp.MustCompile(`\.\.\.+|[\p{Han}\p{Hiragana}\p{Katakana}]|[\p{L}\p{M}]+(?:['’-][\p{L}\p{M}]+)*|\p{N}+(?:[.,:]\p{N}+)*|\S`)

// Builtin is an in-process regexp tokenizer.
type Builtin struct{}

// Tokenize implements Tokenizer.
func (Builtin) Tokenize(text string) ([]string, error) {
	matches := builtinRe.FindAllString(text, -1)
	for i, token := range matches {
		if strings.HasPrefix(token, "...") {
			matches[i] = "..."
		}
	}
	return matches, nil
}

// Close implements Tokenizer.
func (Builtin) Close() error { return nil }
