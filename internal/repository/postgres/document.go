package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"billiard/internal/domain"
	"billiard/internal/repository"
)

// DefaultDocumentID is the row holding the shop document.
const DefaultDocumentID = "default"

// DocumentStore is a PostgreSQL implementation of repository.DocumentStore.
// The whole document lives in one JSONB row; the revision column guards
// against lost updates.
type DocumentStore struct {
	q  Querier
	id string
}

// NewDocumentStore creates a new PostgreSQL document store.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{q: db, id: DefaultDocumentID}
}

// Read loads the document row. A missing row reads as the default document.
func (r *DocumentStore) Read(ctx context.Context) (*domain.Document, error) {
	query := `SELECT body FROM pos_documents WHERE id = $1`

	var body []byte
	err := r.q.QueryRowContext(ctx, query, r.id).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewDocument(), nil
		}
		return nil, err
	}

	return repository.Decode(body)
}

// Write stores doc if the row is still at doc.Revision-1.
func (r *DocumentStore) Write(ctx context.Context, doc *domain.Document) error {
	body, err := repository.Encode(doc)
	if err != nil {
		return err
	}

	var result sql.Result
	if doc.Revision == 1 {
		query := `
			INSERT INTO pos_documents (id, revision, body, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (id) DO NOTHING
		`
		result, err = r.q.ExecContext(ctx, query, r.id, doc.Revision, body)
	} else {
		query := `
			UPDATE pos_documents
			SET revision = $1, body = $2, updated_at = now()
			WHERE id = $3 AND revision = $4
		`
		result, err = r.q.ExecContext(ctx, query, doc.Revision, body, r.id, doc.Revision-1)
	}
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("%w: revision %d already taken", repository.ErrConflict, doc.Revision)
	}

	return nil
}

// Ensure DocumentStore implements repository.DocumentStore.
var _ repository.DocumentStore = (*DocumentStore)(nil)
