package subtitles

import (
	"regexp"
	"strings"
	"unicode"
)

// punctuation canonicalizes quotation marks and ellipses. Two-character
// quote spellings come first so they win over their single-character
// prefixes.
var punctuation = strings.NewReplacer(
	"``", `"`, "''", `"`,
	"“", `"`, "”", `"`, "„", `"`, "‟", `"`, "«", `"`, "»", `"`,
	"「", `"`, "」", `"`, "『", `"`, "』", `"`, "〝", `"`, "〞", `"`,
	"‘", "'", "’", "'", "‚", "'", "‛", "'", "‹", "'", "›", "'",
	"′", "'", "´", "'", "`", "'",
	"…", "...", "‥", "...",
)

var (
	// MicroDVD style codes apply to the rest of the line: {y:i}, {Y:b,i}.
	lineStyleRe  = regexp.MustCompile(`\{[yY]:([a-zA-Z,]+)\}`)
	openStyleRe  = regexp.MustCompile(`\{\s*\\?([ibuIBU])1?\s*\}`)
	closeStyleRe = regexp.MustCompile(`\{\s*(?:/([ibuIBU])|\\([ibuIBU])0)\s*\}`)
	// Remaining ASS override blocks and MicroDVD control codes carry no text.
	overrideRe = regexp.MustCompile(`\{\\[^{}]*\}|\{[a-zA-Z]:[^{}]*\}`)
	tagRe      = regexp.MustCompile(`<\s*(/?)\s*(\w+)(?:\s\w+(?:=['"]?(?:.*?)['"]?)?)*\s*/?\s*>`)
)

var emphasisTags = map[string]bool{"i": true, "b": true, "u": true, "em": true}

const strippedSymbols = `#$%&*+/<=>@[\]^_{|}~`

type lineMark struct {
	offset int
	open   bool
}

// normalizeLine cleans one raw subtitle line and returns the visible text
// with the emphasis marks found in it.
func normalizeLine(raw string) (string, []lineMark) {
	line := strings.TrimSpace(raw)
	if line == "" {
		return "", nil
	}
	line = punctuation.Replace(line)
	line = rewriteStyleCodes(line)

	var out strings.Builder
	out.Grow(len(line))
	var marks []lineMark
	last := rune(-1)
	emit := func(segment string) {
		for _, r := range segment {
			if strings.ContainsRune(strippedSymbols, r) {
				continue
			}
			if r == last && collapsible(r) {
				continue
			}
			out.WriteRune(r)
			last = r
		}
	}

	pos := 0
	for _, loc := range tagRe.FindAllStringSubmatchIndex(line, -1) {
		emit(line[pos:loc[0]])
		name := strings.ToLower(line[loc[4]:loc[5]])
		if emphasisTags[name] {
			closing := loc[3] > loc[2]
			marks = append(marks, lineMark{offset: out.Len(), open: !closing})
		}
		pos = loc[1]
	}
	emit(line[pos:])

	text := out.String()
	trimmed := strings.TrimLeftFunc(text, unicode.IsSpace)
	shift := len(text) - len(trimmed)
	text = strings.TrimRightFunc(trimmed, unicode.IsSpace)
	for i := range marks {
		marks[i].offset = min(max(marks[i].offset-shift, 0), len(text))
	}
	return text, marks
}

func rewriteStyleCodes(line string) string {
	if !strings.ContainsRune(line, '{') {
		return line
	}
	var closers []string
	line = lineStyleRe.ReplaceAllStringFunc(line, func(code string) string {
		flags := lineStyleRe.FindStringSubmatch(code)[1]
		var opens strings.Builder
		for _, flag := range strings.Split(strings.ToLower(flags), ",") {
			if flag == "i" || flag == "b" || flag == "u" {
				opens.WriteString("<" + flag + ">")
				closers = append(closers, "</"+flag+">")
			}
		}
		return opens.String()
	})
	line = openStyleRe.ReplaceAllStringFunc(line, func(code string) string {
		return "<" + strings.ToLower(openStyleRe.FindStringSubmatch(code)[1]) + ">"
	})
	line = closeStyleRe.ReplaceAllStringFunc(line, func(code string) string {
		m := closeStyleRe.FindStringSubmatch(code)
		return "</" + strings.ToLower(m[1]+m[2]) + ">"
	})
	line = overrideRe.ReplaceAllString(line, "")
	for i := len(closers) - 1; i >= 0; i-- {
		line += closers[i]
	}
	return line
}

func collapsible(r rune) bool {
	switch r {
	case '?', '!', ':', ',', ';', '¿', '¡':
		return true
	}
	return unicode.IsSpace(r)
}
