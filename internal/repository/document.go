package repository

import (
	"context"

	"billiard/internal/domain"
)

// DocumentStore defines the persistence operations for the shop document.
type DocumentStore interface {
	// Read loads the current document. A store that holds nothing yet
	// returns a default document at revision 0.
	Read(ctx context.Context) (*domain.Document, error)

	// Write persists doc. doc.Revision must be exactly one above the
	// stored revision, otherwise ErrConflict is returned.
	Write(ctx context.Context, doc *domain.Document) error
}
