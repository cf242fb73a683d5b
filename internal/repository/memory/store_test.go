package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billiard/internal/domain"
	"billiard/internal/repository"
)

func TestStore_CopiesDocuments(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	doc, err := store.Read(ctx)
	require.NoError(t, err)
	doc.Revision = 1
	doc.Settings.TableCount = 7
	require.NoError(t, store.Write(ctx, doc))

	doc.Settings.TableCount = 99

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, 7, got.Settings.TableCount)
	assert.Equal(t, 2, store.ReadCount)
	assert.Equal(t, 1, store.WriteCount)
}

func TestStore_Conflict(t *testing.T) {
	store := NewStore()
	doc := domain.NewDocument()
	doc.Revision = 2

	assert.ErrorIs(t, store.Write(context.Background(), doc), repository.ErrConflict)
}

func TestStore_InjectedErrors(t *testing.T) {
	store := NewStore()
	boom := errors.New("boom")
	store.ReadError = boom

	_, err := store.Read(context.Background())
	assert.ErrorIs(t, err, boom)
}
