package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tally-dev/tally/internal/model"
)

// JSONFile keeps the document in a single JSON file.
type JSONFile struct {
	path string
}

// NewJSONFile returns a store backed by the file at path.
func NewJSONFile(path string) *JSONFile {
	return &JSONFile{path: path}
}

// Path returns the document file location.
func (s *JSONFile) Path() string {
	return s.path
}

// Load reads the document. A missing file yields the default document.
func (s *JSONFile) Load() (*model.Document, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewDocument(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading document %s: %w", s.path, err)
	}

	doc, err := decode(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", s.path, err)
	}
	return doc, nil
}

// Save writes the document to a temporary file and renames it into place,
// so a concurrent Load sees either the old or the new document.
func (s *JSONFile) Save(doc *model.Document) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".tally-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing document: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *JSONFile) Close() error { return nil }
