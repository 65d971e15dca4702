package migration

import (
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunAppliesMigrations(t *testing.T) {
	db := openTestDB(t)

	if err := NewRunner(db).Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	// The settings table from migration 0001 must exist.
	if _, err := db.Exec(`INSERT INTO settings (key, value) VALUES ('k', 'v')`); err != nil {
		t.Fatalf("Expected settings table after migration: %v", err)
	}

	var version int
	var dirty bool
	err := db.QueryRow(`SELECT version, dirty FROM schema_migrations ORDER BY version DESC LIMIT 1`).
		Scan(&version, &dirty)
	if err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version < 1 || dirty {
		t.Errorf("Unexpected schema state: version=%d dirty=%v", version, dirty)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	db := openTestDB(t)

	runner := NewRunner(db)
	if err := runner.Run(); err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	if err := runner.Run(); err != nil {
		t.Fatalf("Second run failed: %v", err)
	}
}

func TestRunRefusesDirtyState(t *testing.T) {
	db := openTestDB(t)

	runner := NewRunner(db)
	if err := runner.Run(); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if _, err := db.Exec(`UPDATE schema_migrations SET dirty = TRUE`); err != nil {
		t.Fatalf("Failed to mark dirty: %v", err)
	}

	if err := runner.Run(); err == nil {
		t.Fatal("Expected error for dirty database")
	}

	var version int
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_migrations`).Scan(&version); err != nil {
		t.Fatalf("Failed to read version: %v", err)
	}
	if err := runner.Force(version); err != nil {
		t.Fatalf("Force failed: %v", err)
	}
	if err := runner.Run(); err != nil {
		t.Fatalf("Run after Force failed: %v", err)
	}
}

func TestParseMigrationFilename(t *testing.T) {
	version, name, direction, err := parseMigrationFilename("0001_create_settings.up.sql")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if version != 1 || name != "create_settings" || direction != "up" {
		t.Errorf("Unexpected parse result: %d %q %q", version, name, direction)
	}

	for _, bad := range []string{
		"create_settings.up.sql",
		"0001_create_settings.sideways.sql",
		"0001.up.sql",
	} {
		if _, _, _, err := parseMigrationFilename(bad); err == nil {
			t.Errorf("Expected error for %q", bad)
		}
	}
}
