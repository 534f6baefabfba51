package tokenize

import (
	"context"
	"log/slog"

	"subcorpus/internal/language"
)

// Backends.
const (
	BackendBuiltin  = "builtin"
	BackendExternal = "external"
)

// Options configure CommandFactory.
type Options struct {
	Backend     string
	PerlBinary  string
	MosesScript string
	KyteaBinary string
	// KyteaModels maps a language segmenter key (ja, zh) to a model file.
	KyteaModels map[string]string
	Logger      *slog.Logger
}

// CommandFactory creates tokenizers according to Options.
type CommandFactory struct {
	opts Options
}

// NewFactory returns a factory for opts.
func NewFactory(opts Options) *CommandFactory {
	if opts.PerlBinary == "" {
		opts.PerlBinary = "perl"
	}
	if opts.MosesScript == "" {
		opts.MosesScript = "tokenizer.perl"
	}
	if opts.KyteaBinary == "" {
		opts.KyteaBinary = "kytea"
	}
	return &CommandFactory{opts: opts}
}

// New implements Factory.
func (f *CommandFactory) New(ctx context.Context, lang *language.Language) (Tokenizer, error) {
	if f.opts.Backend != BackendExternal {
		return Builtin{}, nil
	}
	name, args, unescape := f.Command(lang)
	return StartProcess(ctx, name, args, unescape, f.opts.Logger)
}

// Command returns the external command line used for lang and whether its
// output needs unescaping.
func (f *CommandFactory) Command(lang *language.Language) (string, []string, bool) {
	if lang != nil && lang.Segmenter != "" {
		args := []string{"-notags"}
		if model := f.opts.KyteaModels[lang.Segmenter]; model != "" {
			args = append(args, "-model", model)
		}
		return f.opts.KyteaBinary, args, true
	}
	args := []string{f.opts.MosesScript, "-no-escape", "-q", "-b"}
	if lang != nil {
		args = append(args, "-l", lang.Code)
	}
	return f.opts.PerlBinary, args, false
}
