package postgres

import (
	"context"
	"database/sql"
)

// Querier is an interface satisfied by both *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Ensure interfaces are satisfied.
var (
	_ Querier = (*sql.DB)(nil)
	_ Querier = (*sql.Tx)(nil)
)

// Schema creates the document table.
const Schema = `
	CREATE TABLE IF NOT EXISTS pos_documents (
		id         TEXT PRIMARY KEY,
		revision   BIGINT NOT NULL,
		body       JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// EnsureSchema creates the tables the store needs if they are missing.
func EnsureSchema(ctx context.Context, q Querier) error {
	_, err := q.ExecContext(ctx, Schema)
	return err
}
