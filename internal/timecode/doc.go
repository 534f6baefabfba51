// Package timecode converts subtitle timestamps between their textual
// HH:MM:SS,mmm form and fractional seconds.
//
// Parsing is deliberately permissive: subtitle authoring tools disagree on
// separators, so any run of characters other than digits and '-' splits the
// components. Malformed timing never fails hard; callers receive 0 and decide
// whether the block is usable.
package timecode
