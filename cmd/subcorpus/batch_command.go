package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"subcorpus/internal/batch"
	"subcorpus/internal/conversion"
	"subcorpus/internal/ledger"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		jobs         int
		force        bool
		raw          bool
		lang         string
		encoding     string
		outputDir    string
		metadataPath string
	)

	cmd := &cobra.Command{
		Use:   "batch <directory>",
		Short: "Convert every subtitle document in a directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			language, err := ctx.lookupLanguage(lang)
			if err != nil {
				return err
			}
			converter, err := conversion.NewFromConfig(cfg, registry, logger)
			if err != nil {
				return err
			}

			opts := batch.Options{
				Converter: converter,
				Registry:  registry,
				OutputDir: cfg.Paths.OutputDir,
				Language:  language,
				Encoding:  encoding,
				Jobs:      cfg.Batch.Jobs,
				Force:     force,
				Raw:       raw || cfg.Conversion.RawOutput,
				Logger:    logger,
			}
			if cmd.Flags().Changed("jobs") {
				opts.Jobs = jobs
			}
			if outputDir != "" {
				opts.OutputDir = outputDir
			}
			if metadataPath != "" {
				meta, _, err := readMetadata(metadataPath)
				if err != nil {
					return err
				}
				opts.Metadata = meta
			}

			return ctx.withLedger(func(store *ledger.Store) error {
				opts.Ledger = store
				runner, err := batch.NewRunner(opts)
				if err != nil {
					return err
				}
				summary, runErr := runner.RunDir(cmd.Context(), args[0])
				if summary != nil {
					printBatchSummary(cmd, summary)
				}
				if runErr != nil {
					return runErr
				}
				if summary.Failed > 0 {
					return fmt.Errorf("%d of %d documents failed (see `subcorpus ledger list --status failed`)",
						summary.Failed, len(summary.Outcomes))
				}
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&jobs, "jobs", "j", 0, "Documents converted in parallel (defaults to batch.jobs)")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Convert documents the ledger already marks as converted")
	cmd.Flags().BoolVarP(&raw, "raw", "r", false, "Also write untokenized documents")
	cmd.Flags().StringVarP(&lang, "language", "l", "", "Subtitle language code for every document")
	cmd.Flags().StringVarP(&encoding, "encoding", "e", "", "Character encoding to try first")
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Output directory (defaults to paths.output_dir)")
	cmd.Flags().StringVarP(&metadataPath, "metadata", "m", "", "JSON file with metadata sections to embed in every document")
	return cmd
}

func printBatchSummary(cmd *cobra.Command, summary *batch.Summary) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	rows := make([][]string, 0, len(summary.Outcomes))
	for _, outcome := range summary.Outcomes {
		if outcome.Status == "" {
			continue
		}
		row := []string{
			outcome.Job.ID,
			colorStatus(string(outcome.Status), colorize),
			strconv.Itoa(len(outcome.Job.Sources)),
			"",
			"",
			"",
			outcome.FailureKind,
		}
		if res := outcome.Result; res != nil && outcome.Status == batch.OutcomeConverted {
			row[3] = strconv.Itoa(res.Sentences)
			row[4] = strconv.Itoa(res.Tokens)
			row[5] = res.Encoding
		}
		rows = append(rows, row)
	}
	if len(rows) > 0 {
		fmt.Fprint(out, renderTable(
			[]string{"Document", "Status", "Parts", "Sentences", "Tokens", "Encoding", "Failure"},
			rows,
			[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft, alignLeft},
		))
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Run %s: %d converted, %d failed, %d skipped\n",
		summary.RunID, summary.Converted, summary.Failed, summary.Skipped)
}
