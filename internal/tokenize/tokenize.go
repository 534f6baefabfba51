package tokenize

import (
	"context"
	"strings"

	"subcorpus/internal/language"
)

// Tokenizer turns one line of text into tokens.
type Tokenizer interface {
	Tokenize(text string) ([]string, error)
	Close() error
}

// Factory creates a tokenizer bound to a language. lang may be nil when
// the subtitle language is unknown.
type Factory interface {
	New(ctx context.Context, lang *language.Language) (Tokenizer, error)
}

var ellipsisSpacing = strings.NewReplacer(". . .", "...")

// splitOutput turns a tokenizer response line into tokens.
func splitOutput(line string, unescape bool) []string {
	line = ellipsisSpacing.Replace(line)
	if unescape {
		line = strings.ReplaceAll(line, `\`, "")
	}
	return strings.Fields(line)
}
