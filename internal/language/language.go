package language

import (
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
)

//go:embed languages.yaml
var builtinTable []byte

// ErrUnknown indicates that no language matches the requested code.
var ErrUnknown = errors.New("unknown language")

// casedScripts lists the writing systems with an upper/lower case
// distinction. Languages written in any other script are unicase.
var casedScripts = []string{"latin", "cyrillic", "greek", "armenian"}

// difficultScripts lists writing systems whose subtitles commonly circulate
// in several mutually exclusive legacy encodings.
var difficultScripts = []string{"chinese", "japanese", "korean", "cyrillic"}

// Language describes one subtitle language.
type Language struct {
	Code           string   `yaml:"code"`
	Codes          []string `yaml:"codes"`
	Name           string   `yaml:"name"`
	Scripts        []string `yaml:"scripts"`
	Encodings      []string `yaml:"encodings"`
	Dictionary     string   `yaml:"dictionary"`
	Segmenter      string   `yaml:"segmenter"`
	SecondLanguage string   `yaml:"second_language"`

	// Unicase reports that the language's script has no case distinction,
	// which disables case-based sentence boundary heuristics.
	Unicase bool `yaml:"-"`
	// Difficult reports that the encoding must be detected statistically
	// before the candidate list is trusted.
	Difficult bool `yaml:"-"`
}

// HasScript reports whether the language is written in the named script.
func (l *Language) HasScript(script string) bool {
	if l == nil {
		return false
	}
	return slices.Contains(l.Scripts, strings.ToLower(script))
}

// Bilingual reports whether subtitles in this language interleave a second
// language line by line.
func (l *Language) Bilingual() bool {
	return l != nil && l.SecondLanguage != ""
}

// Matches reports whether code names this language.
func (l *Language) Matches(code string) bool {
	if l == nil {
		return false
	}
	code = strings.ToLower(strings.TrimSpace(code))
	return code == l.Code || slices.Contains(l.Codes, code)
}

func (l *Language) String() string {
	if l == nil {
		return ""
	}
	return l.Name
}

func (l *Language) finalize() error {
	l.Code = strings.ToLower(strings.TrimSpace(l.Code))
	if l.Code == "" {
		return errors.New("language entry without code")
	}
	if strings.TrimSpace(l.Name) == "" {
		return fmt.Errorf("language %q: name is required", l.Code)
	}
	for i, code := range l.Codes {
		l.Codes[i] = strings.ToLower(strings.TrimSpace(code))
	}
	for i, script := range l.Scripts {
		l.Scripts[i] = strings.ToLower(strings.TrimSpace(script))
	}
	for i, enc := range l.Encodings {
		l.Encodings[i] = strings.ToLower(strings.TrimSpace(enc))
	}
	l.SecondLanguage = strings.ToLower(strings.TrimSpace(l.SecondLanguage))

	l.Unicase = false
	for _, script := range l.Scripts {
		if !slices.Contains(casedScripts, script) {
			l.Unicase = true
			break
		}
	}
	l.Difficult = len(l.Encodings) > 3
	for _, script := range l.Scripts {
		if slices.Contains(difficultScripts, script) {
			l.Difficult = true
			break
		}
	}
	return nil
}
