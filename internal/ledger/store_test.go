package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	_ "modernc.org/sqlite"

	"subcorpus/internal/ledger"
	"subcorpus/internal/testsupport"
)

func TestRecordAndGet(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	testsupport.RecordEntry(t, store, &ledger.Entry{
		DocumentID: "movie",
		Sources:    []string{"movie.cd1.srt", "movie.cd2.srt"},
		OutputPath: "/out/movie.xml",
		Status:     ledger.StatusConverted,
		Language:   "en",
		Encoding:   "utf-8",
		Sentences:  12,
		Tokens:     80,
		RunID:      "run-1",
	})

	got, err := store.Get(ctx, "movie")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected entry")
	}
	if !got.Converted() || got.Sentences != 12 || got.Tokens != 80 || got.Encoding != "utf-8" {
		t.Fatalf("unexpected entry: %#v", got)
	}
	if !slices.Equal(got.Sources, []string{"movie.cd1.srt", "movie.cd2.srt"}) {
		t.Fatalf("unexpected sources: %v", got.Sources)
	}
	if got.RawPath != "" {
		t.Fatalf("expected empty raw path, got %q", got.RawPath)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatalf("expected timestamps, got %v / %v", got.CreatedAt, got.UpdatedAt)
	}

	missing, err := store.Get(ctx, "absent")
	if err != nil {
		t.Fatalf("Get missing failed: %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil for missing document, got %#v", missing)
	}
}

func TestRecordReplacesOutcome(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	first := testsupport.RecordEntry(t, store, &ledger.Entry{
		DocumentID:   "doc",
		Sources:      []string{"doc.srt"},
		Status:       ledger.StatusFailed,
		FailureKind:  "encoding",
		ErrorMessage: "no candidate encoding decodes the input",
	})
	testsupport.RecordEntry(t, store, &ledger.Entry{
		DocumentID: "doc",
		Sources:    []string{"doc.srt"},
		Status:     ledger.StatusConverted,
		Sentences:  3,
	})

	got, err := store.Get(ctx, "doc")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Status != ledger.StatusConverted || got.FailureKind != "" || got.ErrorMessage != "" {
		t.Fatalf("expected converted outcome without failure fields, got %#v", got)
	}
	if !got.CreatedAt.Equal(first.CreatedAt.UTC()) {
		t.Fatalf("created_at changed: %v -> %v", first.CreatedAt, got.CreatedAt)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected a single entry, got %d", len(entries))
	}
}

func TestRecordRejectsInvalidEntries(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	cases := []struct {
		name  string
		entry *ledger.Entry
	}{
		{"nil", nil},
		{"missing id", &ledger.Entry{Status: ledger.StatusConverted}},
		{"unknown status", &ledger.Entry{DocumentID: "x", Status: "queued"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := store.Record(ctx, tc.entry); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestListStatsAndClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	for _, entry := range []*ledger.Entry{
		{DocumentID: "a", Status: ledger.StatusConverted},
		{DocumentID: "b", Status: ledger.StatusFailed, FailureKind: "tokenizer"},
		{DocumentID: "c", Status: ledger.StatusConverted},
	} {
		testsupport.RecordEntry(t, store, entry)
	}

	failed, err := store.List(ctx, ledger.StatusFailed)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(failed) != 1 || failed[0].DocumentID != "b" {
		t.Fatalf("unexpected failed entries: %#v", failed)
	}

	all, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List all failed: %v", err)
	}
	var ids []string
	for _, entry := range all {
		ids = append(ids, entry.DocumentID)
	}
	if !slices.Equal(ids, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected order: %v", ids)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats[ledger.StatusConverted] != 2 || stats[ledger.StatusFailed] != 1 {
		t.Fatalf("unexpected stats: %v", stats)
	}

	removed, err := store.Clear(ctx, ledger.StatusFailed)
	if err != nil {
		t.Fatalf("Clear failed failed: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	removed, err = store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
}

func TestOpenRejectsSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := ledger.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open failed: %v", err)
	}
	if _, err := db.Exec("UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	db.Close()

	if _, err := ledger.OpenPath(path); !errors.Is(err, ledger.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := ledger.OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath failed: %v", err)
	}
	testsupport.RecordEntry(t, store, &ledger.Entry{DocumentID: "kept", Status: ledger.StatusConverted})
	store.Close()

	reopened, err := ledger.OpenPath(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), "kept")
	if err != nil || got == nil {
		t.Fatalf("expected kept entry, got %#v (%v)", got, err)
	}
}

func TestParseStatus(t *testing.T) {
	cases := []struct {
		in   string
		want ledger.Status
		ok   bool
	}{
		{"converted", ledger.StatusConverted, true},
		{" FAILED ", ledger.StatusFailed, true},
		{"pending", "", false},
	}
	for _, tc := range cases {
		got, ok := ledger.ParseStatus(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Fatalf("ParseStatus(%q) = %q, %v", tc.in, got, ok)
		}
	}
}

func TestOpenPathRequiresPath(t *testing.T) {
	if _, err := ledger.OpenPath("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}
