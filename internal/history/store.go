// Package history persists evaluated expressions in a local SQLite database
// so the interactive session can recall past results.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one evaluated expression.
type Entry struct {
	ID         int64
	Expression string
	Result     string
	CreatedAt  time.Time
}

// Store handles SQLite operations for the evaluation history
type Store struct {
	db     *sql.DB
	dbPath string
}

// NewStore opens (and if necessary creates) the history database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}

	store := &Store{db: db, dbPath: dbPath}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate ensures the database schema is up to date
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		expression TEXT NOT NULL,
		result TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_entries_created_at ON entries(created_at);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create initial schema: %w", err)
	}
	return nil
}

// Add records an evaluated expression and its rendered result.
func (s *Store) Add(expression, result string) error {
	_, err := s.db.Exec(`
		INSERT INTO entries (expression, result, created_at) VALUES (?, ?, ?)
	`, expression, result, time.Now())
	return err
}

// Recent returns the newest entries, oldest first, capped at limit.
func (s *Store) Recent(limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, expression, result, created_at
		FROM entries
		ORDER BY id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		if err := rows.Scan(&entry.ID, &entry.Expression, &entry.Result, &entry.CreatedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order for display.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}

// Clear deletes every stored entry.
func (s *Store) Clear() error {
	_, err := s.db.Exec(`DELETE FROM entries`)
	return err
}
