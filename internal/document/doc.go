// Package document serializes assembled sentences into the corpus XML
// format.
//
// A Writer streams one <s> element per sentence as it is flushed, so
// documents of any length are written without being held in memory. The
// tokenized form lists one <w> element per word; the raw form keeps the
// untokenized sentence text between the first and last time anchors. The
// document closes with a <meta> block built from ordered Metadata sections.
package document
