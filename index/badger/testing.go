package badger

import "testing"

// NewMemoryStore creates an in-memory Store for testing purposes.
func NewMemoryStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenStore("", true)
	if err != nil {
		t.Fatalf("failed to open in-memory vector store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close vector store: %v", err)
		}
	})
	return store
}
