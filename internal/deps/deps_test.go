package deps

import (
	"os"
	"path/filepath"
	"testing"

	"subcorpus/internal/config"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}
	if !results[0].Available || results[0].Detail != "" {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[1].Available || results[1].Detail == "" {
		t.Fatalf("expected missing binary with detail, got %#v", results[1])
	}
	if results[1].Command != "clearly-not-present-binary" {
		t.Fatalf("unexpected command recorded: %s", results[1].Command)
	}
	if results[2].Detail != "command not configured" {
		t.Fatalf("unexpected detail for unset command: %q", results[2].Detail)
	}

	missing := Missing(results)
	if len(missing) != 2 {
		t.Fatalf("expected 2 missing, got %#v", missing)
	}
}

func TestCheckMosesScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "tokenizer.perl")
	if err := os.WriteFile(script, []byte("#!/usr/bin/perl\n"), 0o644); err != nil {
		t.Fatalf("write script: %v", err)
	}

	if status := CheckMosesScript(script); !status.Available || status.Command != script {
		t.Fatalf("expected script to be available, got %#v", status)
	}
	if status := CheckMosesScript(filepath.Join(dir, "absent.perl")); status.Available || status.Detail == "" {
		t.Fatalf("expected missing script, got %#v", status)
	}
	if status := CheckMosesScript(dir); status.Available {
		t.Fatalf("directory must not count as a script: %#v", status)
	}
	if status := CheckMosesScript(""); status.Detail != "script not configured" {
		t.Fatalf("unexpected detail: %#v", status)
	}
}

func TestCheckKyteaModelsSorted(t *testing.T) {
	dir := t.TempDir()
	model := filepath.Join(dir, "jp.mod")
	if err := os.WriteFile(model, []byte("model"), 0o644); err != nil {
		t.Fatalf("write model: %v", err)
	}

	results := CheckKyteaModels(map[string]string{
		"zh": filepath.Join(dir, "zh.mod"),
		"jp": model,
	})
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "KyTea model (jp)" || !results[0].Available {
		t.Fatalf("unexpected first result: %#v", results[0])
	}
	if results[1].Name != "KyTea model (zh)" || results[1].Available {
		t.Fatalf("unexpected second result: %#v", results[1])
	}
}

func TestCheckTokenizerOptionalForBuiltin(t *testing.T) {
	cases := []struct {
		backend  string
		optional bool
	}{
		{config.BackendBuiltin, true},
		{config.BackendExternal, false},
	}
	for _, tc := range cases {
		t.Run(tc.backend, func(t *testing.T) {
			statuses := CheckTokenizer(config.Tokenizer{
				Backend:     tc.backend,
				PerlBinary:  "clearly-not-present-perl",
				MosesScript: filepath.Join(t.TempDir(), "missing.perl"),
				KyteaBinary: "clearly-not-present-kytea",
			})
			if len(statuses) != 3 {
				t.Fatalf("expected 3 statuses, got %#v", statuses)
			}
			if statuses[0].Name != "Perl" || statuses[1].Name != "Moses tokenizer" || statuses[2].Name != "KyTea" {
				t.Fatalf("unexpected order: %#v", statuses)
			}
			if statuses[0].Optional != tc.optional || statuses[1].Optional != tc.optional {
				t.Fatalf("unexpected optional flags: %#v", statuses)
			}
			if !statuses[2].Optional {
				t.Fatal("kytea must stay optional")
			}
			wantMissing := 0
			if !tc.optional {
				wantMissing = 2
			}
			if got := len(Missing(statuses)); got != wantMissing {
				t.Fatalf("expected %d missing, got %d", wantMissing, got)
			}
		})
	}
}
