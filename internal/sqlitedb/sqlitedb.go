// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package sqlitedb opens SQLite databases through whichever driver the
// build selected.
//
// Build modes:
//   - Default: github.com/mattn/go-sqlite3 (requires CGO)
//   - -tags sqlite_purego: modernc.org/sqlite (no CGO)
//
// Use Open instead of sql.Open so callers do not depend on the driver name.
package sqlitedb

import (
	"database/sql"
	"fmt"
	"net/url"
)

// DriverName returns the database/sql driver name in use.
func DriverName() string {
	return driverName
}

// DriverType returns "cgo" for mattn/go-sqlite3 or "purego" for
// modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// Open opens the database at path with foreign keys enforced.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open(driverName, path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	// One connection keeps PRAGMA state and temp tables on the same handle.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return db, nil
}

// OpenReadOnly opens an existing database at path without write access.
// It fails when the file does not exist.
func OpenReadOnly(path string) (*sql.DB, error) {
	dsn := "file:" + (&url.URL{Path: path}).EscapedPath() + "?mode=ro"
	db, err := sql.Open(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return db, nil
}
