// Package ledger records the outcome of every document conversion in a
// local SQLite database so batch runs can skip work that already succeeded.
//
// Entries are keyed by document id. Recording an entry for an id that is
// already present replaces the previous outcome. The ledger is a
// bookkeeping aid rather than an archive: schema changes bump the version
// in schema.go and users clear the database to adopt them.
package ledger
