package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestTeeHandlerCollapses(t *testing.T) {
	if _, ok := TeeHandler(nil, nil).(NoopHandler); !ok {
		t.Fatal("expected NoopHandler for all nil handlers")
	}
	var buf bytes.Buffer
	inner := slog.NewJSONHandler(&buf, nil)
	if TeeHandler(nil, inner, nil) != inner {
		t.Fatal("expected single non-nil handler to be returned unwrapped")
	}
}

func TestTeeHandlerRespectsLevels(t *testing.T) {
	var infoBuf, warnBuf bytes.Buffer
	h := TeeHandler(
		slog.NewTextHandler(&infoBuf, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&warnBuf, &slog.HandlerOptions{Level: slog.LevelWarn}),
	)
	if h.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatal("debug should be disabled on both handlers")
	}

	logger := slog.New(h).With("doc", "a")
	logger.Info("only info")
	logger.Warn("both")

	if !strings.Contains(infoBuf.String(), "only info") || !strings.Contains(infoBuf.String(), "both") {
		t.Fatalf("info handler missing records: %q", infoBuf.String())
	}
	if strings.Contains(warnBuf.String(), "only info") {
		t.Fatalf("warn handler received info record: %q", warnBuf.String())
	}
	if !strings.Contains(warnBuf.String(), "doc=a") {
		t.Fatalf("expected WithAttrs to reach every handler: %q", warnBuf.String())
	}
}

func TestPrettyHandlerGroups(t *testing.T) {
	var buf bytes.Buffer
	lvl := new(slog.LevelVar)
	logger := slog.New(newPrettyHandler(&buf, lvl, false)).WithGroup("stats")
	logger.Info("done", "sentences", 3)
	if !strings.Contains(buf.String(), "stats.sentences=3") {
		t.Fatalf("expected grouped key, got %q", buf.String())
	}
}
