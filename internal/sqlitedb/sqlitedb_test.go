// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package sqlitedb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDriver(t *testing.T) {
	switch DriverType() {
	case "cgo":
		assert.Equal(t, "sqlite3", DriverName())
	case "purego":
		assert.Equal(t, "sqlite", DriverName())
	default:
		t.Fatalf("unexpected driver type %q", DriverType())
	}
}

func TestOpenEnforcesForeignKeys(t *testing.T) {
	db, err := Open(filepath.Join(t.TempDir(), "fk.db"))
	require.NoError(t, err)
	defer db.Close()

	var on int
	require.NoError(t, db.QueryRow(`PRAGMA foreign_keys`).Scan(&on))
	assert.Equal(t, 1, on)

	_, err = db.Exec(`CREATE TABLE parent (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE child (parent_id INTEGER REFERENCES parent(id))`)
	require.NoError(t, err)

	_, err = db.Exec(`INSERT INTO child (parent_id) VALUES (42)`)
	assert.Error(t, err, "insert without parent should violate the foreign key")
}

func TestOpenReadOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "read only.db")

	db, err := Open(path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE notes (body TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO notes (body) VALUES ('kept')`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	ro, err := OpenReadOnly(path)
	require.NoError(t, err)
	defer ro.Close()

	var body string
	require.NoError(t, ro.QueryRow(`SELECT body FROM notes`).Scan(&body))
	assert.Equal(t, "kept", body)

	_, err = ro.Exec(`INSERT INTO notes (body) VALUES ('rejected')`)
	assert.Error(t, err)

	missing := filepath.Join(dir, "missing.db")
	_, err = OpenReadOnly(missing)
	assert.Error(t, err)
	assert.NoFileExists(t, missing)
}
