// Package langid estimates how confidently a text is written in the
// language a subtitle file was labelled with.
package langid
