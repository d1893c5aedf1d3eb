// Package store persists the finance document. Every backend loads and
// saves the whole document; there is no partial update.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tally-dev/tally/internal/model"
)

// ErrCorrupt marks a persisted document that exists but cannot be decoded.
// Callers decide whether to fall back to model.NewDocument.
var ErrCorrupt = errors.New("corrupt document")

// Store loads and saves the document.
type Store interface {
	// Load returns the persisted document, or the default document when
	// nothing has been saved yet.
	Load() (*model.Document, error)
	// Save overwrites the persisted document.
	Save(doc *model.Document) error
	Close() error
}

// Backend names a storage implementation.
type Backend string

const (
	BackendJSON   Backend = "json"
	BackendSQLite Backend = "sqlite"
	BackendMemory Backend = "memory"
)

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	b := Backend(strings.ToLower(strings.TrimSpace(s)))
	switch b {
	case BackendJSON, BackendSQLite, BackendMemory:
		return b, nil
	}
	return "", fmt.Errorf("invalid storage backend %q: must be one of json, sqlite, memory", s)
}

// Open creates the store for backend at path.
func Open(backend Backend, path string) (Store, error) {
	switch backend {
	case BackendJSON:
		return NewJSONFile(path), nil
	case BackendSQLite:
		return NewSQLite(path)
	case BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported storage backend: %s", backend)
	}
}

func decode(data []byte) (*model.Document, error) {
	var doc model.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	doc.Normalize()
	return &doc, nil
}

func encode(doc *model.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encoding document: %w", err)
	}
	return data, nil
}
