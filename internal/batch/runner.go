package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"subcorpus/internal/conversion"
	"subcorpus/internal/document"
	"subcorpus/internal/fileutil"
	"subcorpus/internal/language"
	"subcorpus/internal/ledger"
	"subcorpus/internal/logging"
	"subcorpus/internal/subtitles"
)

// LockFileName is created in the output directory while a batch runs.
const LockFileName = ".subcorpus.lock"

// ErrLocked reports that another batch run holds the output directory.
var ErrLocked = errors.New("output directory is locked by another batch run")

// Converter converts one document.
type Converter interface {
	Convert(ctx context.Context, req conversion.Request) (*conversion.Result, error)
}

// Ledger stores per-document outcomes.
type Ledger interface {
	Get(ctx context.Context, documentID string) (*ledger.Entry, error)
	Record(ctx context.Context, entry *ledger.Entry) error
}

// Options configure a Runner.
type Options struct {
	Converter Converter
	// Ledger may be nil, in which case nothing is skipped or recorded.
	Ledger    Ledger
	Registry  *language.Registry
	OutputDir string
	// Language applies to every document; nil leaves the language unknown.
	Language *language.Language
	Encoding string
	Jobs     int
	Force    bool
	Raw      bool
	Metadata *document.Metadata
	Logger   *slog.Logger
}

// OutcomeStatus is the result of one job.
type OutcomeStatus string

const (
	OutcomeConverted OutcomeStatus = "converted"
	OutcomeFailed    OutcomeStatus = "failed"
	OutcomeSkipped   OutcomeStatus = "skipped"
)

// Outcome is the result of one job.
type Outcome struct {
	Job         Job
	Status      OutcomeStatus
	Output      string
	Result      *conversion.Result
	FailureKind string
	Err         error
	Elapsed     time.Duration
}

// Summary aggregates a batch run.
type Summary struct {
	RunID     string
	Outcomes  []Outcome
	Converted int
	Failed    int
	Skipped   int
}

// Runner converts batches of documents.
type Runner struct {
	opts   Options
	logger *slog.Logger
}

// NewRunner validates opts and returns a runner.
func NewRunner(opts Options) (*Runner, error) {
	if opts.Converter == nil {
		return nil, errors.New("batch runner requires a converter")
	}
	if opts.OutputDir == "" {
		return nil, errors.New("batch runner requires an output directory")
	}
	if opts.Jobs <= 0 {
		opts.Jobs = 1
	}
	return &Runner{opts: opts, logger: logging.NewComponentLogger(opts.Logger, "batch")}, nil
}

// RunDir discovers the documents under dir and converts them.
func (r *Runner) RunDir(ctx context.Context, dir string) (*Summary, error) {
	jobs, err := Discover(dir)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, jobs)
}

// Run converts jobs with bounded parallelism. Per-document failures are
// reported in the summary; the returned error covers only conditions that
// stop the whole run (lock contention, ledger failures, cancellation).
func (r *Runner) Run(ctx context.Context, jobs []Job) (*Summary, error) {
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}
	lock := flock.New(filepath.Join(r.opts.OutputDir, LockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrLocked, r.opts.OutputDir)
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logging.WarnWithContext(r.logger, "failed to release batch lock", "batch_lock_release_failed",
				logging.Error(err),
				logging.String("lock", lock.Path()),
			)
		}
	}()

	summary := &Summary{RunID: uuid.NewString(), Outcomes: make([]Outcome, len(jobs))}
	ctx = logging.WithRunID(ctx, summary.RunID)
	logger := logging.WithContext(ctx, r.logger)
	logger.Info("batch started",
		logging.String(logging.FieldEventType, "batch_started"),
		logging.Int("documents", len(jobs)),
		logging.Int("jobs", r.opts.Jobs),
		logging.String("output_dir", r.opts.OutputDir),
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Jobs)
	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcome, err := r.runJob(gctx, summary.RunID, job)
			summary.Outcomes[i] = outcome
			return err
		})
	}
	waitErr := g.Wait()

	for _, outcome := range summary.Outcomes {
		switch outcome.Status {
		case OutcomeConverted:
			summary.Converted++
		case OutcomeFailed:
			summary.Failed++
		case OutcomeSkipped:
			summary.Skipped++
		}
	}
	logger.Info("batch finished",
		logging.String(logging.FieldEventType, "batch_finished"),
		logging.Int("converted", summary.Converted),
		logging.Int("failed", summary.Failed),
		logging.Int("skipped", summary.Skipped),
	)
	if waitErr != nil {
		return summary, waitErr
	}
	return summary, nil
}

func (r *Runner) runJob(ctx context.Context, runID string, job Job) (Outcome, error) {
	outcome := Outcome{Job: job, Output: r.outputPath(job.ID, "")}
	ctx = logging.WithDocumentID(ctx, job.ID)
	logger := logging.WithContext(ctx, r.logger)

	if r.opts.Ledger != nil && !r.opts.Force {
		entry, err := r.opts.Ledger.Get(ctx, job.ID)
		if err != nil {
			return outcome, fmt.Errorf("ledger lookup %s: %w", job.ID, err)
		}
		if entry.Converted() {
			outcome.Status = OutcomeSkipped
			logger.Debug("document already converted", logging.String("output", entry.OutputPath))
			return outcome, nil
		}
	}

	start := time.Now()
	result, err := r.convert(ctx, job)
	outcome.Elapsed = time.Since(start)
	outcome.Result = result
	if err != nil {
		if errors.Is(err, context.Canceled) && ctx.Err() != nil {
			return outcome, ctx.Err()
		}
		outcome.Status = OutcomeFailed
		outcome.Err = err
		outcome.FailureKind = conversion.FailureKind(err)
		logging.ErrorWithContext(logger, "document conversion failed", "document_failed",
			logging.String("failure_kind", outcome.FailureKind),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect the subtitle file or rerun with --force after fixing it"),
		)
	} else {
		outcome.Status = OutcomeConverted
	}

	if r.opts.Ledger != nil {
		if err := r.opts.Ledger.Record(ctx, r.entry(runID, outcome)); err != nil {
			return outcome, fmt.Errorf("ledger record %s: %w", job.ID, err)
		}
	}
	return outcome, nil
}

func (r *Runner) entry(runID string, outcome Outcome) *ledger.Entry {
	entry := &ledger.Entry{
		DocumentID: outcome.Job.ID,
		Sources:    outcome.Job.Sources,
		RunID:      runID,
	}
	if r.opts.Language != nil {
		entry.Language = r.opts.Language.Code
	}
	if outcome.Status == OutcomeFailed {
		entry.Status = ledger.StatusFailed
		entry.FailureKind = outcome.FailureKind
		entry.ErrorMessage = outcome.Err.Error()
		return entry
	}
	entry.Status = ledger.StatusConverted
	entry.OutputPath = outcome.Output
	if r.opts.Raw {
		entry.RawPath = r.outputPath(outcome.Job.ID, ".raw")
	}
	if res := outcome.Result; res != nil {
		entry.Encoding = res.Encoding
		entry.Sentences = res.Sentences
		entry.Tokens = res.Tokens
		entry.IgnoredBlocks = res.IgnoredBlocks
		if entry.Language == "" {
			entry.Language = res.Language
		}
	}
	return entry
}

func (r *Runner) outputPath(id, suffix string) string {
	return filepath.Join(r.opts.OutputDir, id+suffix+".xml")
}

// convert opens the job's inputs and atomic outputs, converts, and commits
// the outputs only when the conversion succeeded.
func (r *Runner) convert(ctx context.Context, job Job) (*conversion.Result, error) {
	var (
		inputs []subtitles.Source
		files  []*os.File
		outs   []*fileutil.AtomicFile
	)
	defer func() {
		for _, f := range files {
			_ = f.Close()
		}
		for _, out := range outs {
			_ = out.Abort()
		}
	}()

	for _, path := range job.Sources {
		f, err := os.Open(path)
		if err != nil {
			return nil, &conversion.Error{Kind: conversion.KindInput, Op: "open input", Err: err}
		}
		files = append(files, f)
		inputs = append(inputs, subtitles.Source{Name: path, R: f})
	}

	create := func(suffix string) (io.Writer, error) {
		out, err := fileutil.CreateAtomic(r.outputPath(job.ID, suffix))
		if err != nil {
			return nil, &conversion.Error{Kind: conversion.KindOutput, Op: "create output", Err: err}
		}
		outs = append(outs, out)
		return out, nil
	}

	req := conversion.Request{
		ID:       job.ID,
		Inputs:   inputs,
		Language: r.opts.Language,
		Encoding: r.opts.Encoding,
		Metadata: r.opts.Metadata,
	}
	var err error
	if req.Output, err = create(""); err != nil {
		return nil, err
	}
	if r.opts.Raw {
		if req.RawOutput, err = create(".raw"); err != nil {
			return nil, err
		}
	}
	if second := r.secondLanguage(); second != nil {
		if req.SecondOutput, err = create("." + second.Code); err != nil {
			return nil, err
		}
		if r.opts.Raw {
			if req.SecondRawOutput, err = create("." + second.Code + ".raw"); err != nil {
				return nil, err
			}
		}
	}

	result, err := r.opts.Converter.Convert(ctx, req)
	if err != nil {
		return result, err
	}
	for len(outs) > 0 {
		if err := outs[0].Commit(); err != nil {
			return result, &conversion.Error{Kind: conversion.KindOutput, Op: "commit output", Err: err}
		}
		outs = outs[1:]
	}
	return result, nil
}

func (r *Runner) secondLanguage() *language.Language {
	if r.opts.Language == nil || !r.opts.Language.Bilingual() || r.opts.Registry == nil {
		return nil
	}
	second, err := r.opts.Registry.Second(r.opts.Language)
	if err != nil {
		return nil
	}
	return second
}
