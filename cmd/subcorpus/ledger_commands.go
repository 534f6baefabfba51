package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"subcorpus/internal/ledger"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and manage the batch conversion ledger",
	}

	ledgerCmd.AddCommand(newLedgerListCommand(ctx))
	ledgerCmd.AddCommand(newLedgerShowCommand(ctx))
	ledgerCmd.AddCommand(newLedgerClearCommand(ctx))

	return ledgerCmd
}

func parseStatuses(values []string) ([]ledger.Status, error) {
	statuses := make([]ledger.Status, 0, len(values))
	for _, value := range values {
		status, ok := ledger.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown status %q (use converted or failed)", value)
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func newLedgerListCommand(ctx *commandContext) *cobra.Command {
	var listStatuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			statuses, err := parseStatuses(listStatuses)
			if err != nil {
				return err
			}
			return ctx.withLedger(func(store *ledger.Store) error {
				entries, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Ledger is empty")
					return nil
				}
				colorize := shouldColorize(out)
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						entry.DocumentID,
						colorStatus(string(entry.Status), colorize),
						strconv.Itoa(entry.Sentences),
						strconv.Itoa(entry.Tokens),
						entry.Encoding,
						entry.FailureKind,
						formatTimestamp(entry.UpdatedAt),
					})
				}
				fmt.Fprint(out, renderTable(
					[]string{"Document", "Status", "Sentences", "Tokens", "Encoding", "Failure", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignLeft, alignLeft, alignLeft},
				))
				fmt.Fprintln(out)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&listStatuses, "status", "s", nil, "Filter by status (repeatable)")
	return cmd
}

func newLedgerShowCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "show <document>",
		Short: "Show the recorded outcome of one document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withLedger(func(store *ledger.Store) error {
				entry, err := store.Get(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if entry == nil {
					return fmt.Errorf("document %q is not in the ledger", args[0])
				}
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)
				rows := [][]string{
					{"Document", entry.DocumentID},
					{"Status", colorStatus(string(entry.Status), colorize)},
					{"Sources", strings.Join(entry.Sources, "\n")},
					{"Output", entry.OutputPath},
					{"Raw output", entry.RawPath},
					{"Language", entry.Language},
					{"Encoding", entry.Encoding},
					{"Sentences", strconv.Itoa(entry.Sentences)},
					{"Tokens", strconv.Itoa(entry.Tokens)},
					{"Ignored blocks", strconv.Itoa(entry.IgnoredBlocks)},
					{"Run", entry.RunID},
					{"Created", formatTimestamp(entry.CreatedAt)},
					{"Updated", formatTimestamp(entry.UpdatedAt)},
				}
				if entry.Status == ledger.StatusFailed {
					rows = append(rows,
						[]string{"Failure", entry.FailureKind},
						[]string{"Error", entry.ErrorMessage},
					)
				}
				fmt.Fprint(out, renderTable([]string{"Field", "Value"}, rows, nil))
				fmt.Fprintln(out)
				return nil
			})
		},
	}
}

func newLedgerClearCommand(ctx *commandContext) *cobra.Command {
	var failedOnly bool
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove recorded conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !failedOnly && !all {
				return errors.New("pass --all to clear the whole ledger or --failed to clear failures only")
			}
			return ctx.withLedger(func(store *ledger.Store) error {
				var statuses []ledger.Status
				if failedOnly {
					statuses = append(statuses, ledger.StatusFailed)
				}
				removed, err := store.Clear(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d ledger entries\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&failedOnly, "failed", false, "Only remove failed conversions")
	cmd.Flags().BoolVar(&all, "all", false, "Remove every recorded conversion")
	cmd.MarkFlagsMutuallyExclusive("failed", "all")
	return cmd
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
