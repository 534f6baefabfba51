package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"subcorpus/internal/conversion"
	"subcorpus/internal/document"
	"subcorpus/internal/fileutil"
	"subcorpus/internal/subtitles"
)

type convertOptions struct {
	output       string
	rawOutput    string
	secondOutput string
	secondRaw    string
	language     string
	encoding     string
	alwaysSplit  bool
	policy       string
	metadataPath string
	id           string
}

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert [subtitle.srt ...]",
		Short: "Convert one subtitle document (several files are parts of one document)",
		Long: "Convert one subtitle document into a tokenized XML corpus document.\n\n" +
			"Several files are treated as consecutive parts (cd1, cd2, ...) of the same\n" +
			"document. Without files the subtitles are read from stdin; without -o the\n" +
			"document is written to stdout.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConvert(cmd, ctx, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the document to this file instead of stdout")
	cmd.Flags().StringVarP(&opts.rawOutput, "raw", "r", "", "Also write the untokenized document to this file")
	cmd.Flags().StringVar(&opts.secondOutput, "second-output", "", "Document for the second language of bilingual subtitles")
	cmd.Flags().StringVar(&opts.secondRaw, "second-raw", "", "Untokenized document for the second language")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Subtitle language code (ISO 639-1 or 639-2)")
	cmd.Flags().StringVarP(&opts.encoding, "encoding", "e", "", "Character encoding to try first")
	cmd.Flags().BoolVarP(&opts.alwaysSplit, "always-split", "s", false, "Start a new sentence at every subtitle block")
	cmd.Flags().StringVar(&opts.policy, "policy", "", "Continuation policy: threshold or balance")
	cmd.Flags().StringVarP(&opts.metadataPath, "metadata", "m", "", "JSON file with metadata sections to embed")
	cmd.Flags().StringVar(&opts.id, "id", "", "Document id (defaults to the first file name)")
	return cmd
}

func runConvert(cmd *cobra.Command, ctx *commandContext, opts convertOptions, args []string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	registry, err := ctx.ensureRegistry()
	if err != nil {
		return err
	}
	lang, err := ctx.lookupLanguage(opts.language)
	if err != nil {
		return err
	}

	local := *cfg
	if opts.policy != "" {
		local.Conversion.ContinuationPolicy = strings.ToLower(strings.TrimSpace(opts.policy))
	}
	if opts.alwaysSplit {
		local.Conversion.AlwaysSplit = true
	}
	converter, err := conversion.NewFromConfig(&local, registry, logger)
	if err != nil {
		return err
	}

	req := conversion.Request{ID: opts.id, Language: lang, Encoding: opts.encoding}
	if opts.metadataPath != "" {
		meta, id, err := readMetadata(opts.metadataPath)
		if err != nil {
			return err
		}
		req.Metadata = meta
		if req.ID == "" {
			req.ID = id
		}
	}

	if len(args) == 0 {
		req.Inputs = []subtitles.Source{{Name: "stdin", R: cmd.InOrStdin()}}
	}
	for _, path := range args {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		req.Inputs = append(req.Inputs, subtitles.Source{Name: path, R: f})
	}

	outputs := &outputSet{}
	defer outputs.abort()
	if opts.output == "" {
		req.Output = cmd.OutOrStdout()
	} else if req.Output, err = outputs.create(opts.output); err != nil {
		return err
	}
	if req.RawOutput, err = outputs.createOptional(opts.rawOutput); err != nil {
		return err
	}
	if req.SecondOutput, err = outputs.createOptional(opts.secondOutput); err != nil {
		return err
	}
	if req.SecondRawOutput, err = outputs.createOptional(opts.secondRaw); err != nil {
		return err
	}

	result, err := converter.Convert(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("convert (%s): %w", conversion.FailureKind(err), err)
	}
	if err := outputs.commit(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Converted %s: %d sentences, %d tokens, encoding %s, %d ignored blocks\n",
		result.DocumentID, result.Sentences, result.Tokens, result.Encoding, result.IgnoredBlocks)
	return nil
}

func readMetadata(path string) (*document.Metadata, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("open metadata: %w", err)
	}
	defer f.Close()
	meta, id, err := document.ParseJSON(f)
	if err != nil {
		return nil, "", fmt.Errorf("metadata %s: %w", path, err)
	}
	return meta, id, nil
}

// outputSet tracks the atomic files of one conversion.
type outputSet struct {
	files []*fileutil.AtomicFile
}

func (o *outputSet) create(path string) (io.Writer, error) {
	f, err := fileutil.CreateAtomic(path)
	if err != nil {
		return nil, err
	}
	o.files = append(o.files, f)
	return f, nil
}

// createOptional returns a nil writer for an empty path so the request
// field stays unset.
func (o *outputSet) createOptional(path string) (io.Writer, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	return o.create(path)
}

func (o *outputSet) commit() error {
	var errs []error
	for len(o.files) > 0 {
		if err := o.files[0].Commit(); err != nil {
			errs = append(errs, err)
		}
		o.files = o.files[1:]
	}
	return errors.Join(errs...)
}

func (o *outputSet) abort() {
	for _, f := range o.files {
		_ = f.Abort()
	}
}
