// Package batch converts every subtitle document found in a directory.
//
// Discover groups multi-part releases (name.cd1.srt, name.cd2.srt) into a
// single Job. Runner converts jobs in parallel under an output-directory
// lock, skips documents the ledger already marks as converted, records
// each outcome, and keeps going past per-document failures.
package batch
