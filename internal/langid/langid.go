package langid

import (
	"unicode"

	"subcorpus/internal/language"
)

// Identifier scores text against a language, from 0 (unrelated) to 1.
type Identifier interface {
	Confidence(text string, lang *language.Language) float64
}

var scriptTables = map[string][]*unicode.RangeTable{
	"latin":      {unicode.Latin},
	"cyrillic":   {unicode.Cyrillic},
	"greek":      {unicode.Greek},
	"armenian":   {unicode.Armenian},
	"arabic":     {unicode.Arabic},
	"hebrew":     {unicode.Hebrew},
	"chinese":    {unicode.Han, unicode.Bopomofo},
	"japanese":   {unicode.Han, unicode.Hiragana, unicode.Katakana},
	"korean":     {unicode.Hangul, unicode.Han},
	"thai":       {unicode.Thai},
	"khmer":      {unicode.Khmer},
	"burmese":    {unicode.Myanmar},
	"georgian":   {unicode.Georgian},
	"devanagari": {unicode.Devanagari},
	"bengali":    {unicode.Bengali},
	"tamil":      {unicode.Tamil},
	"telugu":     {unicode.Telugu},
	"malayalam":  {unicode.Malayalam},
	"sinhala":    {unicode.Sinhala},
	"mongolian":  {unicode.Mongolian, unicode.Cyrillic},
}

// ScriptScorer measures the share of letters written in one of the
// language's scripts.
type ScriptScorer struct{}

// Confidence implements Identifier. Text without letters scores 0.
func (ScriptScorer) Confidence(text string, lang *language.Language) float64 {
	if lang == nil {
		return 0
	}
	var tables []*unicode.RangeTable
	for _, script := range lang.Scripts {
		tables = append(tables, scriptTables[script]...)
	}
	if len(tables) == 0 {
		return 0
	}
	letters, matched := 0, 0
	for _, r := range text {
		if !unicode.IsLetter(r) {
			continue
		}
		letters++
		if unicode.IsOneOf(tables, r) {
			matched++
		}
	}
	if letters == 0 {
		return 0
	}
	return float64(matched) / float64(letters)
}
