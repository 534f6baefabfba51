// Package conversion runs the subtitle to corpus XML pipeline for one
// document.
//
// Converter.Convert seeds the encoding candidates (running the statistical
// detector when the language calls for it), reads blocks from all input
// parts, drops spurious ones, feeds the rest to one assembler State (two
// for bilingual subtitles), and closes each output with its metadata.
// Tokenizer processes are released on every return path.
package conversion
