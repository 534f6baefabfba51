package assembler

// Token is an element of a sentence: a Word or a TimeAnchor.
type Token interface {
	isToken()
}

// Word is a corrected word token. Original holds the tokenizer output when
// the corrector changed it, and is empty otherwise.
type Word struct {
	Text       string
	Original   string
	Emphasised bool
}

// TimeAnchor marks the start (T<id>S) or end (T<id>E) of a block.
type TimeAnchor struct {
	Label string
	Value float64
}

func (Word) isToken()       {}
func (TimeAnchor) isToken() {}

// Sentence is a flushed sentence. It is not modified after being handed to
// a Sink.
type Sentence struct {
	ID     int
	Tokens []Token
	// Lang is "1" or "2" for bilingual documents and empty otherwise.
	Lang string
	Raw  string
}

// Words returns the number of word tokens.
func (s *Sentence) Words() int {
	return countWords(s.Tokens)
}

// Emphasised reports whether every word of the sentence is emphasised.
func (s *Sentence) Emphasised() bool {
	words := 0
	for _, tok := range s.Tokens {
		if w, ok := tok.(Word); ok {
			if !w.Emphasised {
				return false
			}
			words++
		}
	}
	return words > 0
}

// FirstAnchor returns the leading time anchor, if the sentence starts with one.
func (s *Sentence) FirstAnchor() (TimeAnchor, bool) {
	if len(s.Tokens) == 0 {
		return TimeAnchor{}, false
	}
	a, ok := s.Tokens[0].(TimeAnchor)
	return a, ok
}

// LastAnchor returns the trailing time anchor, if the sentence ends with one.
func (s *Sentence) LastAnchor() (TimeAnchor, bool) {
	if len(s.Tokens) == 0 {
		return TimeAnchor{}, false
	}
	a, ok := s.Tokens[len(s.Tokens)-1].(TimeAnchor)
	return a, ok
}

func countWords(tokens []Token) int {
	n := 0
	for _, tok := range tokens {
		if _, ok := tok.(Word); ok {
			n++
		}
	}
	return n
}
