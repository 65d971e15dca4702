package settings

import (
	"database/sql"
	"fmt"

	"parityshell/pkg/db"
	"parityshell/pkg/migration"
)

// SQLStore persists settings in a local SQLite database.
type SQLStore struct {
	db *db.DB
}

// Open opens (and if needed creates) the settings database at dbPath and
// applies pending schema migrations.
func Open(dbPath string) (*SQLStore, error) {
	database, err := db.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open settings database: %w", err)
	}

	if err := migration.NewRunner(database.Write()).Run(); err != nil {
		database.Close()
		return nil, fmt.Errorf("migrate settings database: %w", err)
	}

	return &SQLStore{db: database}, nil
}

func (s *SQLStore) Get(key string) (string, bool, error) {
	var value string
	err := s.db.Read().QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("read setting %q: %w", key, err)
	}
	return value, true, nil
}

func (s *SQLStore) Set(key, value string) error {
	_, err := s.db.Write().Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`, key, value)
	if err != nil {
		return fmt.Errorf("write setting %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Remove(key string) error {
	_, err := s.db.Write().Exec(`DELETE FROM settings WHERE key = ?`, key)
	if err != nil {
		return fmt.Errorf("remove setting %q: %w", key, err)
	}
	return nil
}

func (s *SQLStore) Close() error {
	return s.db.Close()
}
