// Package storage reads raw transactions from a SQLite database.
// The database is opened read-only; mintflow never writes to it.
package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// Schema is the table layout LoadRawTable reads. It mirrors the columns of a Mint export.
const Schema = `CREATE TABLE IF NOT EXISTS transactions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	description TEXT,
	amount TEXT NOT NULL,
	transaction_type TEXT NOT NULL,
	category TEXT,
	account_name TEXT
)`

// Storage errors.
var (
	ErrMissingTable = errors.New("transactions table not found")
	ErrEmptyPath    = errors.New("database path cannot be empty")
	ErrNilContext   = errors.New("context cannot be nil")
)

// SQLiteStorage is a read-only handle on a transactions database.
type SQLiteStorage struct {
	db     *sql.DB
	dbPath string
}

// Open opens an existing database file read-only.
func Open(dbPath string) (*SQLiteStorage, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, ErrEmptyPath
	}
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return open("file:" + dbPath + "?mode=ro&_busy_timeout=5000")
}

// OpenMemory opens a private in-memory database, used by tests to stage data.
func OpenMemory() (*SQLiteStorage, error) {
	return open(":memory:")
}

func open(dsn string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps :memory: databases alive across calls.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStorage{db: db, dbPath: dsn}, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// DB exposes the underlying handle.
func (s *SQLiteStorage) DB() *sql.DB {
	return s.db
}
