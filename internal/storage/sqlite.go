package storage

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection. The database is a disposable
// search index over the JSONL ledger and can be rebuilt at any time.
type DB struct {
	db *sql.DB
}

const selectSporeFields = `name, encoded, taxa_text, saved_at`

// OpenDB opens or creates a SQLite database at the given path.
func OpenDB(path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite doesn't support concurrent writes

	if err := createSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func createSchema(db *sql.DB) error {
	schema := `
		CREATE TABLE IF NOT EXISTS spores (
			name TEXT PRIMARY KEY,
			encoded TEXT NOT NULL,
			taxa_text TEXT,
			saved_at TEXT NOT NULL
		);

		CREATE VIRTUAL TABLE IF NOT EXISTS spores_fts USING fts5(
			name,
			taxa_text
		);
	`

	_, err := db.Exec(schema)
	return err
}

// RebuildFromJSONL clears the database and rebuilds it from a JSONL ledger.
func (d *DB) RebuildFromJSONL(jsonlPath string) (int, error) {
	spores, err := ReadAll(jsonlPath)
	if err != nil {
		return 0, fmt.Errorf("reading JSONL: %w", err)
	}

	if _, err := d.db.Exec("DELETE FROM spores"); err != nil {
		return 0, fmt.Errorf("clearing spores table: %w", err)
	}
	if _, err := d.db.Exec("DELETE FROM spores_fts"); err != nil {
		return 0, fmt.Errorf("clearing spores_fts table: %w", err)
	}

	sporeStmt, err := d.db.Prepare(`
		INSERT INTO spores (name, encoded, taxa_text, saved_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing spores insert: %w", err)
	}
	defer sporeStmt.Close()

	ftsStmt, err := d.db.Prepare(`
		INSERT INTO spores_fts (name, taxa_text) VALUES (?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("preparing fts insert: %w", err)
	}
	defer ftsStmt.Close()

	for _, s := range spores {
		taxaText := strings.Join(s.Taxa, ", ")
		savedAt := s.SavedAt.UTC().Format(time.RFC3339)

		if _, err := sporeStmt.Exec(s.Name, s.Encoded, taxaText, savedAt); err != nil {
			return 0, fmt.Errorf("inserting spore %s: %w", s.Name, err)
		}
		if _, err := ftsStmt.Exec(s.Name, taxaText); err != nil {
			return 0, fmt.Errorf("inserting fts for %s: %w", s.Name, err)
		}
	}

	return len(spores), nil
}

// GetByName retrieves a saved spore by its exact name, or nil.
func (d *DB) GetByName(name string) (*SavedSpore, error) {
	row := d.db.QueryRow(`SELECT `+selectSporeFields+` FROM spores WHERE name = ?`, name)
	return scanSpore(row)
}

// Search performs a full-text search over spore names and their taxa.
func (d *DB) Search(query string, limit int) ([]SavedSpore, error) {
	ftsQuery := prepareFTSQuery(query)

	rows, err := d.db.Query(`
		SELECT `+selectSporeFields+`
		FROM spores
		WHERE name IN (SELECT name FROM spores_fts WHERE spores_fts MATCH ?)
		LIMIT ?`, ftsQuery, limit)
	if err != nil {
		return nil, fmt.Errorf("searching: %w", err)
	}
	defer rows.Close()

	return scanSpores(rows)
}

// ListAll returns all saved spores, optionally limited.
func (d *DB) ListAll(limit int) ([]SavedSpore, error) {
	query := `SELECT ` + selectSporeFields + ` FROM spores ORDER BY saved_at DESC`
	var args []interface{}

	if limit > 0 {
		query += " LIMIT ?"
		args = []interface{}{limit}
	}

	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing spores: %w", err)
	}
	defer rows.Close()

	return scanSpores(rows)
}

// Count returns the total number of saved spores.
func (d *DB) Count() (int, error) {
	var count int
	err := d.db.QueryRow("SELECT COUNT(*) FROM spores").Scan(&count)
	return count, err
}

// scanner interface for sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanSpore(s scanner) (*SavedSpore, error) {
	var sp SavedSpore
	var taxaText sql.NullString
	var savedAt string

	err := s.Scan(&sp.Name, &sp.Encoded, &taxaText, &savedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	if taxaText.Valid && taxaText.String != "" {
		sp.Taxa = strings.Split(taxaText.String, ", ")
	}
	if t, err := time.Parse(time.RFC3339, savedAt); err == nil {
		sp.SavedAt = t
	}

	return &sp, nil
}

func scanSpores(rows *sql.Rows) ([]SavedSpore, error) {
	var spores []SavedSpore
	for rows.Next() {
		sp, err := scanSpore(rows)
		if err != nil {
			return nil, err
		}
		spores = append(spores, *sp)
	}
	return spores, rows.Err()
}

// prepareFTSQuery quotes a query for FTS5 when it contains operators.
func prepareFTSQuery(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return query
	}

	if strings.ContainsAny(query, "\"*+-:(){}[]^~") {
		query = strings.ReplaceAll(query, "\"", "\"\"")
		return "\"" + query + "\""
	}

	return query
}
