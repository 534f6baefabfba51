package spellcheck

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Dictionary maps lower-case words to unigram frequencies.
type Dictionary struct {
	words map[string]int
	// unaccented maps an accent-stripped form to its most frequent word.
	// It stays nil for dictionaries without accented entries.
	unaccented map[string]string
}

// LoadDictionary reads a dictionary file.
func LoadDictionary(path string) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dictionary: %w", err)
	}
	defer func() { _ = f.Close() }()
	dict, err := ReadDictionary(f)
	if err != nil {
		return nil, fmt.Errorf("dictionary %s: %w", path, err)
	}
	return dict, nil
}

// ReadDictionary parses "word frequency" lines. Lines starting with # or
// %% are comments.
func ReadDictionary(r io.Reader) (*Dictionary, error) {
	d := &Dictionary{words: make(map[string]int)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.HasPrefix(line, "#") || strings.HasPrefix(line, "%%") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		freq := 0
		if len(fields) > 1 {
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid frequency %q", lineNo, fields[1])
			}
			freq = n
		}
		d.words[strings.ToLower(fields[0])] = freq
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read dictionary: %w", err)
	}
	d.buildUnaccented()
	return d, nil
}

// NewDictionary builds a dictionary from a word → frequency map.
func NewDictionary(words map[string]int) *Dictionary {
	d := &Dictionary{words: make(map[string]int, len(words))}
	for w, f := range words {
		d.words[strings.ToLower(w)] = f
	}
	d.buildUnaccented()
	return d
}

func (d *Dictionary) buildUnaccented() {
	accented := false
	for w := range d.words {
		if stripAccents(w) != stripPunctuation(w) {
			accented = true
			break
		}
	}
	if !accented {
		return
	}
	d.unaccented = make(map[string]string)
	for w, freq := range d.words {
		key := stripAccents(w)
		if cur, ok := d.unaccented[key]; !ok || freq > d.words[cur] || (freq == d.words[cur] && w < cur) {
			d.unaccented[key] = w
		}
	}
}

// Len returns the number of entries.
func (d *Dictionary) Len() int { return len(d.words) }

// Contains reports whether word, lower-cased and optionally without
// apostrophes and hyphens, is in the dictionary.
func (d *Dictionary) Contains(word string) bool {
	_, ok := d.lookup(word)
	return ok
}

// Frequency returns the unigram frequency of word, or 0.
func (d *Dictionary) Frequency(word string) int {
	freq, _ := d.lookup(word)
	return freq
}

func (d *Dictionary) lookup(word string) (int, bool) {
	lower := strings.ToLower(word)
	if freq, ok := d.words[lower]; ok {
		return freq, true
	}
	freq, ok := d.words[joinerReplacer.Replace(lower)]
	return freq, ok
}

// RestoreAccents returns the most frequent dictionary word that differs
// from word only by accents.
func (d *Dictionary) RestoreAccents(word string) (string, bool) {
	if d.unaccented == nil {
		return word, false
	}
	w, ok := d.unaccented[stripAccents(word)]
	if !ok {
		return word, false
	}
	return w, true
}

var (
	joinerReplacer      = strings.NewReplacer("'", "", "-", "")
	punctuationReplacer = strings.NewReplacer(".", "", ",", "", ";", "", "'", "", ":", "", "-", "", "!", "")
	germanReplacer      = strings.NewReplacer("ß", "ss", "ç", "c", "ä", "ae", "ö", "oe", "ü", "ue")
)

func stripPunctuation(word string) string {
	return punctuationReplacer.Replace(strings.ToLower(word))
}

// stripAccents lower-cases word, spells out German umlauts, removes
// combining marks and drops punctuation.
func stripAccents(word string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, germanReplacer.Replace(strings.ToLower(word)))
	if err != nil {
		out = word
	}
	return stripPunctuation(out)
}
