// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pdiddy/scroll-convert/internal/logging"
	"github.com/pdiddy/scroll-convert/internal/sqlitedb"
	"github.com/pdiddy/scroll-convert/pkg/types"
)

// Meta is the provenance row stored with a SQLite export.
type Meta struct {
	ID        string
	Source    string
	CreatedAt time.Time
}

// Store is a SQLite database holding one converted document.
type Store struct {
	db  *sql.DB
	fts bool
}

// OpenStore opens or creates the database at path and creates the schema if
// it does not exist.
func OpenStore(path string) (*Store, error) {
	db, err := sqlitedb.Open(path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// ErrNotExport is returned by OpenStoreReadOnly for a database that lacks
// the verse tables.
var ErrNotExport = errors.New("not a scroll-convert database")

// OpenStoreReadOnly opens an existing export for querying. The file is
// opened read-only and its schema is never created or changed.
func OpenStoreReadOnly(path string) (*Store, error) {
	db, err := sqlitedb.OpenReadOnly(path)
	if err != nil {
		return nil, err
	}

	s := &Store{db: db}
	var tables int
	if err := db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name IN ('books', 'verses')`,
	).Scan(&tables); err != nil {
		db.Close()
		return nil, fmt.Errorf("reading schema of %s: %w", path, err)
	}
	if tables != 2 {
		db.Close()
		return nil, fmt.Errorf("%s: %w", path, ErrNotExport)
	}
	if s.fts, err = s.hasFTSTable(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// HasFTS reports whether the verse full-text index is available. It is
// absent when the SQLite build lacks FTS5.
func (s *Store) HasFTS() bool {
	return s.fts
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS meta (
			id TEXT PRIMARY KEY,
			source TEXT,
			created_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS books (
			name TEXT PRIMARY KEY,
			common_name TEXT NOT NULL,
			book_order INTEGER NOT NULL UNIQUE
		)`,
		`CREATE TABLE IF NOT EXISTS chapters (
			book TEXT NOT NULL REFERENCES books(name),
			number REAL NOT NULL,
			PRIMARY KEY (book, number)
		)`,
		`CREATE TABLE IF NOT EXISTS verses (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			book TEXT NOT NULL,
			chapter REAL NOT NULL,
			verse REAL NOT NULL,
			text TEXT NOT NULL,
			UNIQUE (book, chapter, verse),
			FOREIGN KEY (book, chapter) REFERENCES chapters(book, number)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_verses_ref ON verses(book, chapter, verse)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	exists, err := s.hasFTSTable()
	if err != nil {
		return err
	}
	if exists {
		s.fts = true
		return nil
	}

	if _, err := s.db.Exec(`CREATE VIRTUAL TABLE verses_fts USING fts5(text, content=verses, content_rowid=rowid)`); err != nil {
		if strings.Contains(err.Error(), "no such module") {
			logging.GetLogger().Warn("fts_unavailable", "driver", sqlitedb.DriverName(), "error", err.Error())
			return nil
		}
		return fmt.Errorf("creating FTS table: %w", err)
	}

	triggers := []string{
		`CREATE TRIGGER verses_ai AFTER INSERT ON verses BEGIN
			INSERT INTO verses_fts(rowid, text) VALUES (new.rowid, new.text);
		END`,
		`CREATE TRIGGER verses_ad AFTER DELETE ON verses BEGIN
			INSERT INTO verses_fts(verses_fts, rowid, text) VALUES('delete', old.rowid, old.text);
		END`,
		`CREATE TRIGGER verses_au AFTER UPDATE ON verses BEGIN
			INSERT INTO verses_fts(verses_fts, rowid, text) VALUES('delete', old.rowid, old.text);
			INSERT INTO verses_fts(rowid, text) VALUES (new.rowid, new.text);
		END`,
	}
	for _, stmt := range triggers {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	s.fts = true
	return nil
}

func (s *Store) hasFTSTable() (bool, error) {
	var n int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='verses_fts'`,
	).Scan(&n); err != nil {
		return false, fmt.Errorf("checking FTS table: %w", err)
	}
	return n > 0, nil
}

// Load inserts the whole document and its metadata in one transaction.
// Meta.ID is generated when empty.
func (s *Store) Load(ctx context.Context, doc *types.Document, meta Meta) error {
	if meta.ID == "" {
		meta.ID = uuid.NewString()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (id, source, created_at) VALUES (?, ?, ?)`,
		meta.ID, meta.Source, meta.CreatedAt.Format(time.RFC3339),
	); err != nil {
		return fmt.Errorf("inserting meta: %w", err)
	}

	bookStmt, err := tx.PrepareContext(ctx, `INSERT INTO books (name, common_name, book_order) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing book insert: %w", err)
	}
	defer bookStmt.Close()

	chapterStmt, err := tx.PrepareContext(ctx, `INSERT INTO chapters (book, number) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chapter insert: %w", err)
	}
	defer chapterStmt.Close()

	verseStmt, err := tx.PrepareContext(ctx, `INSERT INTO verses (book, chapter, verse, text) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing verse insert: %w", err)
	}
	defer verseStmt.Close()

	for _, b := range doc.Books {
		if _, err := bookStmt.ExecContext(ctx, b.Name, b.CommonName, b.Order); err != nil {
			return fmt.Errorf("inserting book %q: %w", b.Name, err)
		}
		for _, c := range b.Chapters {
			if _, err := chapterStmt.ExecContext(ctx, b.Name, c.Number); err != nil {
				return fmt.Errorf("inserting %s %v: %w", b.Name, c.Number, err)
			}
			for _, v := range c.Content {
				if _, err := verseStmt.ExecContext(ctx, b.Name, c.Number, v.Number, v.Text()); err != nil {
					return fmt.Errorf("inserting %s %v:%v: %w", b.Name, c.Number, v.Number, err)
				}
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing: %w", err)
	}
	return nil
}

// VerseHit is one verse returned by Search.
type VerseHit struct {
	Book    string  `json:"book"`
	Chapter float64 `json:"chapter"`
	Verse   float64 `json:"verse"`
	Text    string  `json:"text"`
}

// Search runs a full-text query over verse text, best matches first. When
// the FTS index is unavailable it falls back to a substring match in
// canonical order.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]VerseHit, error) {
	if limit <= 0 {
		limit = 20
	}

	var (
		rows *sql.Rows
		err  error
	)
	if s.fts {
		rows, err = s.db.QueryContext(ctx, `
			SELECT v.book, v.chapter, v.verse, v.text
			FROM verses_fts f
			JOIN verses v ON v.rowid = f.rowid
			JOIN books b ON b.name = v.book
			WHERE verses_fts MATCH ?
			ORDER BY f.rank, b.book_order, v.chapter, v.verse
			LIMIT ?`, query, limit)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT v.book, v.chapter, v.verse, v.text
			FROM verses v
			JOIN books b ON b.name = v.book
			WHERE v.text LIKE '%' || ? || '%'
			ORDER BY b.book_order, v.chapter, v.verse
			LIMIT ?`, query, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("searching verses: %w", err)
	}
	defer rows.Close()

	var hits []VerseHit
	for rows.Next() {
		var h VerseHit
		if err := rows.Scan(&h.Book, &h.Chapter, &h.Verse, &h.Text); err != nil {
			return nil, fmt.Errorf("scanning verse: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

// buildSQLite builds the database in a temp file beside path and returns
// the temp file's name once every row is committed. The caller commits or
// removes it.
func buildSQLite(doc *types.Document, path string, meta Meta) (string, error) {
	tmp, err := createTemp(path)
	if err != nil {
		return "", err
	}

	store, err := OpenStore(tmp)
	if err != nil {
		os.Remove(tmp)
		return "", err
	}
	if err := store.Load(context.Background(), nonNil(doc), meta); err != nil {
		store.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := store.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("closing database: %w", err)
	}
	return tmp, nil
}
