// Command subcorpus converts SRT subtitle files into sentence-segmented,
// tokenized XML corpus documents.
//
// The convert subcommand handles a single document (optionally split over
// several .cdN parts) and streams to stdout by default. The batch
// subcommand converts a whole directory in parallel and records each
// outcome in the conversion ledger, which the ledger subcommands inspect
// and reset.
package main
