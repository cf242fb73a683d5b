// Package memory keeps the shop document in process memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"billiard/internal/domain"
	"billiard/internal/repository"
)

// Store is an in-memory implementation of repository.DocumentStore.
// Documents are round-tripped through the codec so callers never share
// pointers with the stored copy.
type Store struct {
	mu   sync.Mutex
	data []byte

	// Counters for verification
	ReadCount  int
	WriteCount int

	// Error injection
	ReadError  error
	WriteError error
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Read returns a copy of the stored document.
func (s *Store) Read(ctx context.Context) (*domain.Document, error) {
	s.mu.Lock()
	s.ReadCount++
	readErr := s.ReadError
	data := s.data
	s.mu.Unlock()

	if readErr != nil {
		return nil, readErr
	}
	return repository.Decode(data)
}

// Write stores a copy of doc.
func (s *Store) Write(ctx context.Context, doc *domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.WriteCount++
	if s.WriteError != nil {
		return s.WriteError
	}

	current, err := repository.Decode(s.data)
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
	s.data = data
	return nil
}

// Ensure Store implements repository.DocumentStore.
var _ repository.DocumentStore = (*Store)(nil)
