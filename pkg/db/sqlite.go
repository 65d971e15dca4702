package db

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"runtime"

	_ "modernc.org/sqlite"
)

// DB bundles a read pool and a single-connection write pool over one
// SQLite file.
type DB struct {
	read  *sql.DB
	write *sql.DB
}

// sqliteDBString constructs a connection string for SQLite with recommended PRAGMA settings
func sqliteDBString(file string, readonly bool) string {
	connectionParams := make(url.Values)
	connectionParams.Add("_journal_mode", "WAL")
	connectionParams.Add("_busy_timeout", "5000")
	connectionParams.Add("_synchronous", "NORMAL")
	connectionParams.Add("_cache_size", "-20000") // 20MB cache
	connectionParams.Add("_foreign_keys", "true")

	if readonly {
		connectionParams.Add("mode", "ro")
	} else {
		connectionParams.Add("_txlock", "immediate")
		connectionParams.Add("mode", "rwc")
	}

	return "file:" + file + "?" + connectionParams.Encode()
}

// openSQLiteDatabase opens a SQLite database with optimized settings
func openSQLiteDatabase(file string, readonly bool) (*sql.DB, error) {
	dbString := sqliteDBString(file, readonly)
	db, err := sql.Open("sqlite", dbString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Set PRAGMAs that can't be set via connection string
	pragmasToSet := []string{
		"temp_store=memory",
		"busy_timeout=10000", // 10 second timeout for lock acquisition
	}

	for _, pragma := range pragmasToSet {
		_, err = db.Exec("PRAGMA " + pragma + ";")
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set PRAGMA %s: %w", pragma, err)
		}
	}

	// Configure connection pool
	if readonly {
		// Read pool: allow multiple concurrent connections
		maxConns := max(4, runtime.NumCPU())
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	} else {
		// Write pool: single connection to serialize writes
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	return db, nil
}

// Open sets up the read and write connection pools for dbPath, creating the
// parent directory and the database file as needed.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	write, err := openSQLiteDatabase(dbPath, false)
	if err != nil {
		return nil, fmt.Errorf("failed to open write database: %w", err)
	}

	// The file must exist before a mode=ro open succeeds.
	if err := write.Ping(); err != nil {
		write.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	read, err := openSQLiteDatabase(dbPath, true)
	if err != nil {
		write.Close()
		return nil, fmt.Errorf("failed to open read database: %w", err)
	}

	return &DB{read: read, write: write}, nil
}

// Read returns the read-only connection pool.
func (d *DB) Read() *sql.DB { return d.read }

// Write returns the read-write connection pool.
func (d *DB) Write() *sql.DB { return d.write }

// WithTx executes a function within an immediate transaction
func (d *DB) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	// Start an IMMEDIATE transaction to acquire write lock immediately
	// This prevents SQLITE_BUSY errors from deferred lock upgrades
	tx, err := d.write.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// Close closes both connection pools.
func (d *DB) Close() error {
	var errs []error

	if d.read != nil {
		if err := d.read.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close read database: %w", err))
		}
	}

	if d.write != nil {
		if err := d.write.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close write database: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors closing databases: %v", errs)
	}

	return nil
}
