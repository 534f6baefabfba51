package document

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"subcorpus/internal/assembler"
)

func sampleSentence() *assembler.Sentence {
	return &assembler.Sentence{
		ID: 1,
		Tokens: []assembler.Token{
			assembler.TimeAnchor{Label: "T1S", Value: 1},
			assembler.Word{Text: "Hello"},
			assembler.Word{Text: "well", Original: "weii"},
			assembler.Word{Text: "<&>", Emphasised: true},
			assembler.TimeAnchor{Label: "T1E", Value: 3.25},
		},
		Raw: "Hello well <&>",
	}
}

func TestWriterTokenized(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.Begin("movie"); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := w.WriteSentence(sampleSentence()); err != nil {
		t.Fatalf("WriteSentence: %v", err)
	}
	meta := NewMetadata()
	meta.Section("conversion").Set("sentences", "1")
	if err := w.End(meta); err != nil {
		t.Fatalf("End: %v", err)
	}

	want := `<?xml version="1.0" encoding="utf-8"?>
<document id="movie">
  <s id="1">
    <time id="T1S" value="00:00:01,000" />
    <w id="1.1">Hello</w>
    <w id="1.2" initial="weii">well</w>
    <w id="1.3" emphasis="true">&lt;&amp;&gt;</w>
    <time id="T1E" value="00:00:03,250" />
  </s>
  <meta>
    <conversion>
      <sentences>1</sentences>
    </conversion>
  </meta>
</document>
`
	if got := buf.String(); got != want {
		t.Fatalf("document mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriterRaw(t *testing.T) {
	var buf bytes.Buffer
	w := NewRawWriter(&buf)
	s := sampleSentence()
	s.Lang = "2"
	if err := w.WriteSentence(s); err != nil {
		t.Fatalf("WriteSentence: %v", err)
	}
	if err := w.End(nil); err != nil {
		t.Fatalf("End: %v", err)
	}
	want := `  <s id="1" lang="2">
    <time id="T1S" value="00:00:01,000" />
Hello well &lt;&amp;&gt;
    <time id="T1E" value="00:00:03,250" />
  </s>
  <meta>
  </meta>
</document>
`
	if got := buf.String(); got != want {
		t.Fatalf("raw mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriterSentenceEmphasis(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	s := &assembler.Sentence{ID: 4, Tokens: []assembler.Token{
		assembler.Word{Text: "Run", Emphasised: true},
		assembler.Word{Text: "!", Emphasised: true},
	}}
	if err := w.WriteSentence(s); err != nil {
		t.Fatalf("WriteSentence: %v", err)
	}
	if err := w.End(NewMetadata()); err != nil {
		t.Fatalf("End: %v", err)
	}
	if !strings.Contains(buf.String(), `<s id="4" emphasis="true">`) {
		t.Fatalf("missing sentence emphasis:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), `<w id="4.2" emphasis="true">!</w>`) {
		t.Fatalf("word ids not contiguous:\n%s", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterReportsWriteErrors(t *testing.T) {
	w := NewWriter(failingWriter{})
	if err := w.Begin("x"); err != nil {
		t.Fatalf("Begin buffered write failed early: %v", err)
	}
	if err := w.End(NewMetadata()); err == nil {
		t.Fatal("expected flush error")
	}
}

func TestTee(t *testing.T) {
	var a, b bytes.Buffer
	sink := Tee(NewWriter(&a), NewRawWriter(&b))
	if err := sink.WriteSentence(sampleSentence()); err != nil {
		t.Fatalf("WriteSentence: %v", err)
	}
	// Writers buffer until End.
	if a.Len() != 0 || b.Len() != 0 {
		t.Fatal("unexpected unbuffered output")
	}
}
