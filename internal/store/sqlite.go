package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/tally-dev/tally/internal/model"
)

const createDocumentTable = `
CREATE TABLE IF NOT EXISTS document (
	id INTEGER PRIMARY KEY CHECK (id = 1),
	body TEXT NOT NULL,
	updated_at DATETIME NOT NULL
);
`

// SQLite keeps the document as a single row in a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (and if needed creates) the database at path.
func NewSQLite(path string) (*SQLite, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(createDocumentTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating document table: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load reads the stored row. An empty table yields the default document.
func (s *SQLite) Load() (*model.Document, error) {
	var body string
	err := s.db.QueryRow(`SELECT body FROM document WHERE id = 1`).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return model.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying document: %w", err)
	}

	doc, err := decode([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("loading sqlite document: %w", err)
	}
	return doc, nil
}

// Save replaces the stored row.
func (s *SQLite) Save(doc *model.Document) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(
		`INSERT INTO document (id, body, updated_at) VALUES (1, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}
