package document

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
)

// Field is one metadata entry.
type Field struct {
	Key   string
	Value string
}

// Section is a child of <meta>. A section without fields renders Value as
// its text.
type Section struct {
	Name   string
	Value  string
	Fields []Field
}

// Set replaces the value of key, or appends it.
func (s *Section) Set(key, value string) {
	key = elementName(key)
	for i := range s.Fields {
		if s.Fields[i].Key == key {
			s.Fields[i].Value = value
			return
		}
	}
	s.Fields = append(s.Fields, Field{Key: key, Value: value})
}

// Get returns the value of key.
func (s *Section) Get(key string) (string, bool) {
	for _, f := range s.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

// Metadata is an ordered list of sections.
type Metadata struct {
	sections []*Section
}

// NewMetadata returns empty metadata.
func NewMetadata() *Metadata {
	return &Metadata{}
}

// Section returns the named section, appending it when missing.
func (m *Metadata) Section(name string) *Section {
	name = elementName(name)
	for _, s := range m.sections {
		if s.Name == name {
			return s
		}
	}
	s := &Section{Name: name}
	m.sections = append(m.sections, s)
	return s
}

// Sections returns the sections in insertion order.
func (m *Metadata) Sections() []*Section {
	if m == nil {
		return nil
	}
	return m.sections
}

// Clone returns a deep copy.
func (m *Metadata) Clone() *Metadata {
	out := NewMetadata()
	for _, s := range m.Sections() {
		out.sections = append(out.sections, &Section{Name: s.Name, Value: s.Value, Fields: slices.Clone(s.Fields)})
	}
	return out
}

// FromMap builds metadata from caller-provided values: nested objects
// become sections, other values become text sections. Sections and fields
// are sorted by name. The top-level "id" entry is returned separately as
// the document id.
func FromMap(values map[string]any) (*Metadata, string) {
	m := NewMetadata()
	id := ""
	for _, name := range slices.Sorted(maps.Keys(values)) {
		value := values[name]
		if name == "id" {
			id = fmt.Sprint(value)
			continue
		}
		section := m.Section(name)
		nested, ok := value.(map[string]any)
		if !ok {
			section.Value = fmt.Sprint(value)
			continue
		}
		for _, key := range slices.Sorted(maps.Keys(nested)) {
			section.Set(key, fmt.Sprint(nested[key]))
		}
	}
	return m, id
}

// ParseJSON reads a JSON object of metadata sections.
func ParseJSON(r io.Reader) (*Metadata, string, error) {
	var values map[string]any
	if err := json.NewDecoder(r).Decode(&values); err != nil {
		return nil, "", fmt.Errorf("parse metadata: %w", err)
	}
	m, id := FromMap(values)
	return m, id, nil
}

// elementName makes name usable as an XML element name.
func elementName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "_"
	}
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || ('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z'):
			b.WriteRune(r)
		case i > 0 && (r == '-' || r == '.' || ('0' <= r && r <= '9')):
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}
