package testsupport

import (
	"testing"

	"kiosk/internal/config"
	"kiosk/internal/ledger"
)

// MustOpenLedger opens a fresh ledger store for the given config and
// registers cleanup for it.
func MustOpenLedger(t *testing.T, cfg *config.Config) *ledger.Store {
	t.Helper()

	store, err := ledger.Open(cfg)
	if err != nil {
		t.Fatalf("open ledger: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := store.Close(); closeErr != nil {
			t.Errorf("close ledger: %v", closeErr)
		}
	})
	return store
}
