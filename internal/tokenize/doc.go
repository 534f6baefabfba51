// Package tokenize splits subtitle lines into word and punctuation tokens.
//
// Tokenizer is a synchronous request/response capability: one call sends
// one line and receives its tokens. Process drives a long-running external
// tokenizer (the moses tokenizer.perl script, or kytea for Japanese and
// Chinese) over pipes, flushing after every line. Builtin is an in-process
// fallback. Factory picks the implementation for a language.
package tokenize
