// Package charset decodes subtitle byte lines under an ordered list of
// candidate encodings.
//
// Candidates holds the preference list for one document. A line that does
// not decode cleanly under the current candidate permanently removes that
// candidate and the next one is tried; running out of candidates is fatal
// (ErrExhausted). Detector wraps a statistical charset detector used to
// seed the list for languages whose subtitles circulate in several legacy
// encodings.
package charset
