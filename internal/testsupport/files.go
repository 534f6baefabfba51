package testsupport

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"subcorpus/internal/timecode"
)

// Cue is one subtitle block for SRT fixtures.
type Cue struct {
	Start, End float64
	Lines      []string
}

// SRT renders cues as an SRT document numbered from 1.
func SRT(cues ...Cue) string {
	var b strings.Builder
	for i, cue := range cues {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n", i+1, timecode.Format(cue.Start), timecode.Format(cue.End), strings.Join(cue.Lines, "\n"))
	}
	return b.String()
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t testing.TB, path string, content []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
