// Package language holds the read-only registry of subtitle languages.
//
// Each Language describes its ISO codes, display name, writing scripts, the
// candidate file encodings to try in order of preference, an optional
// spellcheck dictionary and, for bilingual subtitles, the code of the second
// language. The registry is loaded once (from the embedded table or a user
// supplied YAML file) and is passed by pointer to every component that needs
// it; nothing mutates it after construction.
package language
