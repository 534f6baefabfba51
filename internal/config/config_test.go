package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"subcorpus/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantOutput := filepath.Join(tempHome, ".local", "share", "subcorpus", "xml")
	if cfg.Paths.OutputDir != wantOutput {
		t.Fatalf("unexpected output dir: got %q want %q", cfg.Paths.OutputDir, wantOutput)
	}
	if cfg.Paths.LedgerPath != filepath.Join(tempHome, ".local", "share", "subcorpus", "ledger.db") {
		t.Fatalf("unexpected ledger path: %q", cfg.Paths.LedgerPath)
	}
	if cfg.Tokenizer.Backend != config.BackendBuiltin {
		t.Fatalf("unexpected tokenizer backend: %q", cfg.Tokenizer.Backend)
	}
	if cfg.Conversion.ContinuationPolicy != config.PolicyThreshold {
		t.Fatalf("unexpected continuation policy: %q", cfg.Conversion.ContinuationPolicy)
	}
	if cfg.Conversion.MaxSentenceWords != 40 {
		t.Fatalf("unexpected max sentence words: %d", cfg.Conversion.MaxSentenceWords)
	}
	if cfg.Encoding.MinConfidence != 70 {
		t.Fatalf("unexpected min confidence: %d", cfg.Encoding.MinConfidence)
	}
	if cfg.Batch.Jobs != 4 {
		t.Fatalf("unexpected batch jobs: %d", cfg.Batch.Jobs)
	}
}

func TestLoadCustomConfig(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	configPath := filepath.Join(t.TempDir(), "config.toml")
	content := `
[paths]
output_dir = "~/corpus"
dictionary_dir = "/srv/dictionaries"

[tokenizer]
backend = "EXTERNAL"
moses_script = "~/moses/tokenizer.perl"

[tokenizer.kytea_models]
JA = "~/models/jp.mod"

[conversion]
continuation_policy = " Balance "
always_split = true
pause_short_seconds = 0.5
pause_long_seconds = 2.5

[batch]
jobs = 0

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("expected config at %q, got %q (exists=%v)", configPath, resolved, exists)
	}
	if cfg.Paths.OutputDir != filepath.Join(tempHome, "corpus") {
		t.Fatalf("unexpected output dir: %q", cfg.Paths.OutputDir)
	}
	if got := cfg.DictionaryPath("en.dic"); got != "/srv/dictionaries/en.dic" {
		t.Fatalf("unexpected dictionary path: %q", got)
	}
	if cfg.Tokenizer.Backend != config.BackendExternal {
		t.Fatalf("unexpected backend: %q", cfg.Tokenizer.Backend)
	}
	if cfg.Tokenizer.MosesScript != filepath.Join(tempHome, "moses", "tokenizer.perl") {
		t.Fatalf("unexpected moses script: %q", cfg.Tokenizer.MosesScript)
	}
	if got := cfg.KyteaModel("ja"); got != filepath.Join(tempHome, "models", "jp.mod") {
		t.Fatalf("unexpected kytea model: %q", got)
	}
	if cfg.Conversion.ContinuationPolicy != config.PolicyBalance {
		t.Fatalf("unexpected policy: %q", cfg.Conversion.ContinuationPolicy)
	}
	if !cfg.Conversion.AlwaysSplit {
		t.Fatal("expected always_split to be true")
	}
	if cfg.Conversion.PauseShortSeconds != 0.5 || cfg.Conversion.PauseLongSeconds != 2.5 {
		t.Fatalf("unexpected pauses: %v %v", cfg.Conversion.PauseShortSeconds, cfg.Conversion.PauseLongSeconds)
	}
	if cfg.Batch.Jobs != 4 {
		t.Fatalf("expected jobs to fall back to default, got %d", cfg.Batch.Jobs)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected logging config: %+v", cfg.Logging)
	}
}

func TestLoadEnvTokenizerOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("SUBCORPUS_MOSES_TOKENIZER", "/opt/moses/scripts/tokenizer/tokenizer.perl")
	t.Setenv("SUBCORPUS_KYTEA", "/opt/kytea/bin/kytea")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Tokenizer.MosesScript != "/opt/moses/scripts/tokenizer/tokenizer.perl" {
		t.Fatalf("unexpected moses script: %q", cfg.Tokenizer.MosesScript)
	}
	if cfg.Tokenizer.KyteaBinary != "/opt/kytea/bin/kytea" {
		t.Fatalf("unexpected kytea binary: %q", cfg.Tokenizer.KyteaBinary)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{"policy", "[conversion]\ncontinuation_policy = \"greedy\"\n", "continuation_policy"},
		{"backend", "[tokenizer]\nbackend = \"bert\"\n", "tokenizer.backend"},
		{"pauses", "[conversion]\npause_short_seconds = 4.0\npause_long_seconds = 2.0\n", "pause_long_seconds"},
		{"confidence", "[encoding]\nmin_confidence = 150\n", "min_confidence"},
		{"unknown key", "[conversion]\nsplit_everything = true\n", "parse config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestSampleConfigParses(t *testing.T) {
	var cfg config.Config
	if err := toml.Unmarshal([]byte(config.SampleConfig()), &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
	if cfg.Conversion.ContinuationPolicy != config.PolicyThreshold {
		t.Fatalf("unexpected sample policy: %q", cfg.Conversion.ContinuationPolicy)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if string(data) != config.SampleConfig() {
		t.Fatal("written sample differs from embedded sample")
	}
}
