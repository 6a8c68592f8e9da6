// ABOUTME: Database connection management and initialization
// ABOUTME: Opens SQLite in WAL mode with immediate transactions and migrates the schema
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// dsnOptions: WAL journal, BEGIN IMMEDIATE for every transaction so
// read-modify-write sequences hold the write lock from their first read.
const dsnOptions = "?_journal_mode=WAL&_txlock=immediate&_busy_timeout=5000"

func OpenDatabase(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+dsnOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool for SQLite (avoid database locked errors)
	db.SetMaxOpenConns(1)

	if err := InitSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
