// Package logging assembles structured slog loggers and formatting helpers
// used across subcorpus.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so conversion code can tag log
// lines with document and batch run identifiers. Recoverable conversion
// issues (unparseable timing lines, dropped blocks, encoding fallbacks) are
// reported through WarnWithContext so every warning carries an event type,
// a hint and its impact. A no-op logger is provided for tests and wiring
// code that cannot fail.
package logging
