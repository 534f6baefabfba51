package main

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
)

// colorStatus wraps a ledger or dependency status in its terminal color.
func colorStatus(status string, colorize bool) string {
	if !colorize {
		return status
	}
	var color string
	switch status {
	case "converted", "available":
		color = ansiGreen
	case "failed", "missing":
		color = ansiRed
	case "skipped", "optional":
		color = ansiYellow
	default:
		color = ansiBlue
	}
	return color + status + ansiReset
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
