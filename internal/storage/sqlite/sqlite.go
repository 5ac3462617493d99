// Package sqlite implements the storage interfaces on an embedded SQLite
// database. It is the zero-dependency persistent backend: no server to run,
// one file on disk.
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"
)

// DB wraps sql.DB for dependency injection.
type DB struct {
	*sql.DB
}

// Open opens (or creates) the database at path and ensures the schema exists.
func Open(path string) (*DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is required")
	}

	dsn := path
	if !strings.HasPrefix(dsn, "file:") {
		dsn = "file:" + dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	dsn += sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Single connection: SQLite serializes writers anyway, and this keeps
	// :memory: databases coherent across the pool.
	db.SetMaxOpenConns(1)

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create sqlite schema: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.DB.Close()
}

func createSchema(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS wallets (
			wallet_id   TEXT PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			address     TEXT NOT NULL DEFAULT '',
			seq         INTEGER NOT NULL,
			created_at  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS chains (
			chain_id    TEXT PRIMARY KEY,
			name        TEXT NOT NULL UNIQUE,
			is_evm      INTEGER NOT NULL DEFAULT 0,
			seq         INTEGER NOT NULL,
			created_at  INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			transaction_id  TEXT PRIMARY KEY,
			wallet_id       TEXT NOT NULL REFERENCES wallets (wallet_id) ON DELETE RESTRICT,
			chain_id        TEXT NOT NULL REFERENCES chains (chain_id) ON DELETE RESTRICT,
			timestamp_ms    INTEGER NOT NULL,
			zero_volume     INTEGER NOT NULL DEFAULT 0,
			volume          REAL NOT NULL DEFAULT 0,
			gas             REAL NOT NULL DEFAULT 0,
			comment         TEXT NOT NULL DEFAULT '',
			seq             INTEGER NOT NULL,
			created_at      INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_wallet ON transactions (wallet_id, seq)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_chain ON transactions (chain_id, seq)`,
		`CREATE TABLE IF NOT EXISTS stats_snapshots (
			taken_at            INTEGER NOT NULL,
			total_volume        REAL NOT NULL DEFAULT 0,
			total_gas           REAL NOT NULL DEFAULT 0,
			total_transactions  INTEGER NOT NULL DEFAULT 0,
			potential_airdrops  INTEGER NOT NULL DEFAULT 0,
			unique_active_days  INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS idx_stats_snapshots_taken_at ON stats_snapshots (taken_at)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// isDuplicateKeyError checks if error is a unique constraint violation.
// The driver exposes constraint failures only through the message text.
func isDuplicateKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isForeignKeyError checks if error is a foreign key constraint violation.
func isForeignKeyError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}

// isNotFoundError checks if error indicates no rows found.
func isNotFoundError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
