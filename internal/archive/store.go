// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package archive indexes previously published articles and serves them as
// scored retrieval candidates.
// Implements: the archive retrieval capability (search, ingest, clear) over
// a SQLite FTS5 index at <dir>/index/archive.db.
package archive

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/newsdesk/pkg/types"
)

const (
	indexDir = "index"
	dbFile   = "archive.db"
)

// Store manages the archive SQLite database.
type Store struct {
	db   *sql.DB
	dir  string
	topK int
}

// NewStore opens or creates the archive database at cfg.Dir/index/archive.db
// and creates the schema if it does not exist.
func NewStore(cfg types.ArchiveConfig) (*Store, error) {
	dbDir := filepath.Join(cfg.Dir, indexDir)
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dbDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}

	s := &Store{db: db, dir: cfg.Dir, topK: topK}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS articles (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			source TEXT NOT NULL,
			date TEXT NOT NULL,
			url TEXT NOT NULL,
			path TEXT NOT NULL,
			keywords TEXT,
			file_mod_time TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS passages (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			article_id TEXT NOT NULL REFERENCES articles(id) ON DELETE CASCADE,
			seq INTEGER NOT NULL,
			section TEXT,
			content TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_passages_article_id ON passages(article_id)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='passages_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE passages_fts USING fts5(content, content=passages, content_rowid=rowid)`,
		`CREATE TRIGGER passages_ai AFTER INSERT ON passages BEGIN
			INSERT INTO passages_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
		`CREATE TRIGGER passages_ad AFTER DELETE ON passages BEGIN
			INSERT INTO passages_fts(passages_fts, rowid, content) VALUES('delete', old.rowid, old.content);
		END`,
		`CREATE TRIGGER passages_au AFTER UPDATE ON passages BEGIN
			INSERT INTO passages_fts(passages_fts, rowid, content) VALUES('delete', old.rowid, old.content);
			INSERT INTO passages_fts(rowid, content) VALUES (new.rowid, new.content);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Clear removes every article and passage from the archive.
func (s *Store) Clear(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{`DELETE FROM passages`, `DELETE FROM articles`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("clearing archive: %w", err)
		}
	}
	return tx.Commit()
}

// Stats holds archive row counts.
type Stats struct {
	Articles int `json:"articles" yaml:"articles"`
	Passages int `json:"passages" yaml:"passages"`
}

// Stats counts indexed articles and passages.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM articles`).Scan(&st.Articles); err != nil {
		return st, fmt.Errorf("counting articles: %w", err)
	}
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM passages`).Scan(&st.Passages); err != nil {
		return st, fmt.Errorf("counting passages: %w", err)
	}
	return st, nil
}
