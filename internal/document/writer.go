package document

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"subcorpus/internal/assembler"
	"subcorpus/internal/timecode"
)

const header = `<?xml version="1.0" encoding="utf-8"?>` + "\n"

// Writer streams one XML document.
type Writer struct {
	w   *bufio.Writer
	raw bool
}

// NewWriter returns a writer producing the tokenized form.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// NewRawWriter returns a writer producing the untokenized form.
func NewRawWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w), raw: true}
}

// Begin writes the XML declaration and opens the document element.
func (d *Writer) Begin(id string) error {
	d.w.WriteString(header)
	fmt.Fprintf(d.w, "<document id=\"%s\">\n", escape(id))
	return d.err()
}

// WriteSentence implements assembler.Sink.
func (d *Writer) WriteSentence(s *assembler.Sentence) error {
	fmt.Fprintf(d.w, "  <s id=\"%d\"", s.ID)
	if s.Lang != "" {
		fmt.Fprintf(d.w, " lang=\"%s\"", escape(s.Lang))
	}
	if !d.raw && s.Emphasised() {
		d.w.WriteString(` emphasis="true"`)
	}
	d.w.WriteString(">")
	if d.raw {
		d.writeRaw(s)
	} else {
		d.writeTokens(s)
	}
	d.w.WriteString("\n  </s>\n")
	return d.err()
}

func (d *Writer) writeTokens(s *assembler.Sentence) {
	wordID := 0
	for _, tok := range s.Tokens {
		switch tok := tok.(type) {
		case assembler.TimeAnchor:
			d.writeAnchor(tok)
		case assembler.Word:
			wordID++
			fmt.Fprintf(d.w, "\n    <w id=\"%d.%d\"", s.ID, wordID)
			if tok.Original != "" {
				fmt.Fprintf(d.w, " initial=\"%s\"", escape(tok.Original))
			}
			if tok.Emphasised {
				d.w.WriteString(` emphasis="true"`)
			}
			fmt.Fprintf(d.w, ">%s</w>", escape(tok.Text))
		}
	}
}

func (d *Writer) writeRaw(s *assembler.Sentence) {
	if a, ok := s.FirstAnchor(); ok {
		d.writeAnchor(a)
	}
	d.w.WriteString("\n")
	d.w.WriteString(escape(s.Raw))
	if a, ok := s.LastAnchor(); ok {
		d.writeAnchor(a)
	}
}

func (d *Writer) writeAnchor(a assembler.TimeAnchor) {
	fmt.Fprintf(d.w, "\n    <time id=\"%s\" value=\"%s\" />", escape(a.Label), timecode.Format(a.Value))
}

// End writes the metadata block, closes the document and flushes.
func (d *Writer) End(meta *Metadata) error {
	d.w.WriteString("  <meta>")
	for _, section := range meta.Sections() {
		fmt.Fprintf(d.w, "\n    <%s>", section.Name)
		if len(section.Fields) == 0 {
			d.w.WriteString(escape(section.Value))
		}
		for _, f := range section.Fields {
			fmt.Fprintf(d.w, "\n      <%s>%s</%s>", f.Key, escape(f.Value), f.Key)
		}
		if len(section.Fields) > 0 {
			d.w.WriteString("\n    ")
		}
		fmt.Fprintf(d.w, "</%s>", section.Name)
	}
	d.w.WriteString("\n  </meta>\n</document>\n")
	if err := d.w.Flush(); err != nil {
		return fmt.Errorf("flush document: %w", err)
	}
	return nil
}

// err reports a pending write error without forcing a flush.
func (d *Writer) err() error {
	if _, err := d.w.Write(nil); err != nil {
		return fmt.Errorf("write document: %w", err)
	}
	return nil
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// Tee forwards each sentence to every sink in order.
func Tee(sinks ...assembler.Sink) assembler.Sink {
	return assembler.SinkFunc(func(s *assembler.Sentence) error {
		for _, sink := range sinks {
			if err := sink.WriteSentence(s); err != nil {
				return err
			}
		}
		return nil
	})
}
