// Package file stores the shop document as a JSON file on local disk.
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"billiard/internal/domain"
	"billiard/internal/repository"
)

// Store is a file-backed implementation of repository.DocumentStore.
type Store struct {
	path string
	mu   sync.Mutex
}

// NewStore creates a store writing to path. The directory is created on first write.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Read loads the document. A missing file reads as the default document.
func (s *Store) Read(ctx context.Context) (*domain.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.read()
}

func (s *Store) read() (*domain.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.NewDocument(), nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	doc, err := repository.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	return doc, nil
}

// Write atomically replaces the file: the document is written to a
// temporary file in the same directory and renamed over the old one.
func (s *Store) Write(ctx context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.read()
	if err != nil {
		return err
	}
	if doc.Revision != current.Revision+1 {
		return fmt.Errorf("%w: stored revision %d, writing %d", repository.ErrConflict, current.Revision, doc.Revision)
	}

	data, err := repository.Encode(doc)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}

	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("replace %s: %w", s.path, err)
	}

	return nil
}

// Ensure Store implements repository.DocumentStore.
var _ repository.DocumentStore = (*Store)(nil)
