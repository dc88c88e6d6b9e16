// Package sqlite provides a SpecStore backed by a local SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/jnothman/searchgrid/pkg/ports"
)

// Store implements ports.SpecStore using SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the given database path.
// If path is empty, defaults to ~/.searchgrid/specs.db.
func NewStore(path string) (*Store, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		path = filepath.Join(home, ".searchgrid", "specs.db")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS specs (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			document TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating specs table: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Put stores or updates a record.
func (s *Store) Put(ctx context.Context, rec *ports.SpecRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("record needs an id")
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO specs (id, name, document, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			document = excluded.document,
			updated_at = excluded.updated_at
	`, rec.ID, rec.Name, rec.Document, rec.CreatedAt.UTC(), rec.UpdatedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving spec: %w", err)
	}
	return nil
}

// Get retrieves a record by ID.
func (s *Store) Get(ctx context.Context, id string) (*ports.SpecRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, document, created_at, updated_at
		FROM specs WHERE id = ?
	`, id)

	var rec ports.SpecRecord
	if err := row.Scan(&rec.ID, &rec.Name, &rec.Document, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, ports.ErrSpecNotFound
		}
		return nil, fmt.Errorf("scanning spec: %w", err)
	}

	return &rec, nil
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM specs WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting spec: %w", err)
	}
	return nil
}

// List returns all records sorted by name.
func (s *Store) List(ctx context.Context) ([]*ports.SpecRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, document, created_at, updated_at
		FROM specs ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("querying specs: %w", err)
	}
	defer rows.Close()

	var records []*ports.SpecRecord
	for rows.Next() {
		var rec ports.SpecRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Document, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning spec: %w", err)
		}
		records = append(records, &rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating specs: %w", err)
	}

	return records, nil
}
