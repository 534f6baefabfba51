package language

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

// Registry indexes languages by primary code and alias codes. A Registry is
// immutable once built.
type Registry struct {
	languages []*Language
	byCode    map[string]*Language
	byAlias   map[string]*Language
	byName    map[string]*Language
}

var (
	builtinOnce sync.Once
	builtin     *Registry
)

// Builtin returns the registry built from the embedded language table.
func Builtin() *Registry {
	builtinOnce.Do(func() {
		reg, err := Load(bytes.NewReader(builtinTable))
		if err != nil {
			panic(fmt.Sprintf("embedded language table: %v", err))
		}
		builtin = reg
	})
	return builtin
}

// LoadFile reads a YAML language table from path.
func LoadFile(path string) (*Registry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open language table: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load parses a YAML list of language entries.
func Load(r io.Reader) (*Registry, error) {
	var entries []*Language
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		return nil, fmt.Errorf("parse language table: %w", err)
	}
	reg := &Registry{
		languages: make([]*Language, 0, len(entries)),
		byCode:    make(map[string]*Language, len(entries)),
		byAlias:   make(map[string]*Language, len(entries)*2),
		byName:    make(map[string]*Language, len(entries)),
	}
	for _, entry := range entries {
		if entry == nil {
			continue
		}
		if err := entry.finalize(); err != nil {
			return nil, err
		}
		if _, dup := reg.byCode[entry.Code]; dup {
			return nil, fmt.Errorf("language %q declared twice", entry.Code)
		}
		reg.languages = append(reg.languages, entry)
		reg.byCode[entry.Code] = entry
		reg.byName[strings.ToLower(entry.Name)] = entry
		for _, alias := range entry.Codes {
			if _, taken := reg.byAlias[alias]; !taken {
				reg.byAlias[alias] = entry
			}
		}
	}
	for _, entry := range reg.languages {
		if entry.SecondLanguage == "" {
			continue
		}
		if _, err := reg.Lookup(entry.SecondLanguage); err != nil {
			return nil, fmt.Errorf("language %q: second language: %w", entry.Code, err)
		}
	}
	return reg, nil
}

// Lookup resolves a 2- or 3-letter code, or a display name, to a language.
// Primary codes win over aliases.
func (r *Registry) Lookup(code string) (*Language, error) {
	key := strings.ToLower(strings.TrimSpace(code))
	if key == "" {
		return nil, fmt.Errorf("%w: empty code", ErrUnknown)
	}
	if lang, ok := r.byCode[key]; ok {
		return lang, nil
	}
	if lang, ok := r.byAlias[key]; ok {
		return lang, nil
	}
	if lang, ok := r.byName[key]; ok {
		return lang, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknown, code)
}

// Second returns the second language of a bilingual language.
func (r *Registry) Second(lang *Language) (*Language, error) {
	if !lang.Bilingual() {
		return nil, fmt.Errorf("language %q is not bilingual", lang.Code)
	}
	return r.Lookup(lang.SecondLanguage)
}

// All returns the languages in table order.
func (r *Registry) All() []*Language {
	out := make([]*Language, len(r.languages))
	copy(out, r.languages)
	return out
}

// Len returns the number of languages in the registry.
func (r *Registry) Len() int {
	return len(r.languages)
}
