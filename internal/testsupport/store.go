package testsupport

import (
	"context"
	"testing"

	"subcorpus/internal/config"
	"subcorpus/internal/ledger"
)

// MustOpenLedger opens a ledger.Store for tests and registers cleanup.
func MustOpenLedger(t testing.TB, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("ledger.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// RecordEntry stores entry for tests using the provided ledger.
func RecordEntry(t testing.TB, store *ledger.Store, entry *ledger.Entry) *ledger.Entry {
	t.Helper()

	if err := store.Record(context.Background(), entry); err != nil {
		t.Fatalf("store.Record: %v", err)
	}
	return entry
}
