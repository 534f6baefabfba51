package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"subcorpus/internal/deps"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "deps",
		Short: "Check the external tokenizer programs",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			statuses := deps.CheckTokenizer(cfg.Tokenizer)

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(statuses))
			for _, status := range statuses {
				rows = append(rows, []string{
					status.Name,
					colorStatus(depState(status), colorize),
					status.Command,
					status.Description,
					status.Detail,
				})
			}
			fmt.Fprintf(out, "Tokenizer backend: %s\n", cfg.Tokenizer.Backend)
			fmt.Fprint(out, renderTable([]string{"Dependency", "Status", "Command", "Purpose", "Detail"}, rows, nil))
			fmt.Fprintln(out)

			if missing := deps.Missing(statuses); len(missing) > 0 {
				return fmt.Errorf("%d required tokenizer dependencies are missing", len(missing))
			}
			return nil
		},
	}
}

func depState(status deps.Status) string {
	switch {
	case status.Available:
		return "available"
	case status.Optional:
		return "optional"
	default:
		return "missing"
	}
}
