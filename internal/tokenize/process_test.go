package tokenize

import (
	"context"
	"os/exec"
	"slices"
	"testing"

	"subcorpus/internal/language"
	"subcorpus/internal/logging"
)

// echoScript answers every line with the line itself, splitting a trailing
// period off the last word.
const echoScript = `while IFS= read -r line; do printf '%s\n' "$(printf '%s' "$line" | sed 's/\.$/ ./')"; done`

func requireShell(t *testing.T) {
	t.Helper()
	for _, bin := range []string{"sh", "sed"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not available: %v", bin, err)
		}
	}
}

func TestProcessTokenize(t *testing.T) {
	requireShell(t)
	p, err := StartProcess(context.Background(), "sh", []string{"-c", echoScript}, false, logging.NewNop())
	if err != nil {
		t.Fatalf("StartProcess: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })

	got, err := p.Tokenize("Where are you going.")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if want := []string{"Where", "are", "you", "going", "."}; !slices.Equal(got, want) {
		t.Fatalf("tokens = %q, want %q", got, want)
	}

	got, err = p.Tokenize("Well . . . maybe\nnot")
	if err != nil {
		t.Fatalf("Tokenize: %v", err)
	}
	if want := []string{"Well", "...", "maybe", "not"}; !slices.Equal(got, want) {
		t.Fatalf("tokens = %q, want %q", got, want)
	}
}

func TestProcessClosedPipeYieldsNoTokens(t *testing.T) {
	requireShell(t)
	script := `IFS= read -r line; printf '%s\n' "$line"; exit 0`
	p, err := StartProcess(context.Background(), "sh", []string{"-c", script}, false, logging.NewNop())
	if err != nil {
		t.Fatalf("StartProcess: %v", err)
	}
	t.Cleanup(func() { _ = p.Close() })

	if got, err := p.Tokenize("first line"); err != nil || len(got) != 2 {
		t.Fatalf("first call = %q, %v", got, err)
	}
	for i := range 3 {
		got, err := p.Tokenize("after exit")
		if err != nil {
			t.Fatalf("call %d returned error: %v", i, err)
		}
		if len(got) != 0 {
			t.Fatalf("call %d returned tokens %q", i, got)
		}
	}
}

func TestProcessCloseTwice(t *testing.T) {
	requireShell(t)
	p, err := StartProcess(context.Background(), "sh", []string{"-c", echoScript}, false, logging.NewNop())
	if err != nil {
		t.Fatalf("StartProcess: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("first Close: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
}

func TestStartProcessMissingBinary(t *testing.T) {
	if _, err := StartProcess(context.Background(), "/nonexistent/tokenizer", nil, false, logging.NewNop()); err == nil {
		t.Fatal("expected error for missing binary")
	}
}

func TestFactoryCommand(t *testing.T) {
	f := NewFactory(Options{
		Backend:     BackendExternal,
		MosesScript: "/opt/moses/tokenizer.perl",
		KyteaModels: map[string]string{"ja": "/opt/kytea/jp.mod"},
	})
	ja := &language.Language{Code: "ja", Segmenter: "ja"}
	zh := &language.Language{Code: "zh", Segmenter: "zh"}
	en := &language.Language{Code: "en"}

	tests := []struct {
		name     string
		lang     *language.Language
		bin      string
		args     []string
		unescape bool
	}{
		{"moses with language", en, "perl", []string{"/opt/moses/tokenizer.perl", "-no-escape", "-q", "-b", "-l", "en"}, false},
		{"moses without language", nil, "perl", []string{"/opt/moses/tokenizer.perl", "-no-escape", "-q", "-b"}, false},
		{"kytea with model", ja, "kytea", []string{"-notags", "-model", "/opt/kytea/jp.mod"}, true},
		{"kytea default model", zh, "kytea", []string{"-notags"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bin, args, unescape := f.Command(tt.lang)
			if bin != tt.bin || !slices.Equal(args, tt.args) || unescape != tt.unescape {
				t.Fatalf("Command = %q %q %v, want %q %q %v", bin, args, unescape, tt.bin, tt.args, tt.unescape)
			}
		})
	}
}

func TestFactoryBuiltinBackend(t *testing.T) {
	tok, err := NewFactory(Options{Backend: BackendBuiltin}).New(context.Background(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := tok.(Builtin); !ok {
		t.Fatalf("New returned %T, want Builtin", tok)
	}
}
