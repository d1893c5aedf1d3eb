package store

import (
	"sync"

	"github.com/tally-dev/tally/internal/model"
)

// Memory keeps the encoded document in memory. Each Load decodes a fresh
// copy, so callers never share a document value.
type Memory struct {
	mu   sync.Mutex
	data []byte
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{}
}

// Load returns a copy of the saved document, or the default document.
func (m *Memory) Load() (*model.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.data == nil {
		return model.NewDocument(), nil
	}
	return decode(m.data)
}

// Save replaces the saved document.
func (m *Memory) Save(doc *model.Document) error {
	data, err := encode(doc)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = data
	return nil
}

// Close is a no-op.
func (m *Memory) Close() error { return nil }
