// Package spellcheck corrects common OCR and accent errors in subtitle
// words against a frequency dictionary.
//
// A Corrector is bound to one document: its Stats count the unknown and
// corrected words of that document only. Dictionaries are read-only once
// loaded and may be shared across documents through a Cache.
package spellcheck
