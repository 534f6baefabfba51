package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"subcorpus/internal/language"
)

func newLanguagesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "languages",
		Short: "List the supported subtitle languages",
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.ensureRegistry()
			if err != nil {
				return err
			}
			title := cases.Title(xlanguage.English)
			rows := make([][]string, 0, registry.Len())
			for _, lang := range registry.All() {
				scripts := make([]string, len(lang.Scripts))
				for i, script := range lang.Scripts {
					scripts[i] = title.String(script)
				}
				rows = append(rows, []string{
					lang.Code,
					strings.Join(lang.Codes, ", "),
					lang.Name,
					nativeName(lang),
					strings.Join(scripts, ", "),
					strings.Join(lang.Encodings, ", "),
					lang.Segmenter,
					lang.SecondLanguage,
				})
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, renderTable(
				[]string{"Code", "Aliases", "Name", "Native", "Scripts", "Encodings", "Segmenter", "Second"},
				rows,
				nil,
			))
			fmt.Fprintln(out)
			return nil
		},
	}
}

// nativeName returns the language's name in itself, when x/text knows it.
func nativeName(lang *language.Language) string {
	codes := append([]string{lang.Code}, lang.Codes...)
	for _, code := range codes {
		tag, err := xlanguage.Parse(code)
		if err != nil {
			continue
		}
		if name := display.Self.Name(tag); name != "" {
			return name
		}
	}
	return ""
}
