// Package subtitles reads SRT-style timed text blocks.
//
// Reader turns one or more byte streams (multi-CD parts read as a single
// logical stream) into Blocks, decoding every line through the document's
// candidate encodings and skipping blocks whose timing line cannot be
// parsed. Each block's lines are normalized on the way in: quotation marks
// and ellipses are canonicalized, repeated punctuation is collapsed, markup
// is stripped and emphasis tags are kept as marks. Spurious reports blocks
// that are advertisements or scrolling near-duplicates of the block before.
package subtitles
