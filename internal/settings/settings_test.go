package settings

import (
	"path/filepath"
	"testing"
)

func openTestStores(t *testing.T) map[string]Store {
	t.Helper()

	sqlStore, err := Open(filepath.Join(t.TempDir(), "settings.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { sqlStore.Close() })

	return map[string]Store{
		"sqlite": sqlStore,
		"memory": NewMemStore(),
	}
}

func TestGetAbsentKey(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			value, ok, err := store.Get("missing")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if ok {
				t.Errorf("Expected absent key, got value %q", value)
			}
		})
	}
}

func TestSetGetRoundtrip(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Set("flag", "false"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			value, ok, err := store.Get("flag")
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !ok {
				t.Fatal("Expected key to be present after Set")
			}
			if value != "false" {
				t.Errorf("Expected value %q, got %q", "false", value)
			}
		})
	}
}

func TestSetOverwrites(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Set("flag", "false"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := store.Set("flag", "true"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}

			value, ok, _ := store.Get("flag")
			if !ok || value != "true" {
				t.Errorf("Expected overwritten value %q, got %q (present=%v)", "true", value, ok)
			}
		})
	}
}

func TestRemove(t *testing.T) {
	for name, store := range openTestStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.Set("flag", "false"); err != nil {
				t.Fatalf("Set failed: %v", err)
			}
			if err := store.Remove("flag"); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}

			if _, ok, _ := store.Get("flag"); ok {
				t.Error("Expected key to be absent after Remove")
			}

			// Removing an absent key is a no-op.
			if err := store.Remove("flag"); err != nil {
				t.Fatalf("Remove of absent key failed: %v", err)
			}
		})
	}
}

func TestSQLStoreReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "settings.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.Set("flag", "false"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	reopened, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Reopen failed: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get("flag")
	if err != nil {
		t.Fatalf("Get after reopen failed: %v", err)
	}
	if !ok || value != "false" {
		t.Errorf("Expected persisted value %q, got %q (present=%v)", "false", value, ok)
	}
}
