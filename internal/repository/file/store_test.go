package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"billiard/internal/domain"
	"billiard/internal/repository"
)

func TestStore_ReadMissingFileReturnsDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "data", "pos.json"))

	doc, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewDocument(), doc)
}

func TestStore_WriteThenRead(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "pos.json")
	store := NewStore(path)

	doc := domain.NewDocument()
	doc.Revision = 1
	doc.Settings.ShopName = "Blue Cue"
	require.NoError(t, store.Write(ctx, doc))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "temporary file is renamed away")

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Revision)
	assert.Equal(t, "Blue Cue", got.Settings.ShopName)
}

func TestStore_WriteRejectsStaleRevision(t *testing.T) {
	ctx := context.Background()
	store := NewStore(filepath.Join(t.TempDir(), "pos.json"))

	doc := domain.NewDocument()
	doc.Revision = 1
	require.NoError(t, store.Write(ctx, doc))

	// a second writer that also read revision 0
	stale := domain.NewDocument()
	stale.Revision = 1
	err := store.Write(ctx, stale)
	assert.ErrorIs(t, err, repository.ErrConflict)

	skip := domain.NewDocument()
	skip.Revision = 5
	assert.ErrorIs(t, store.Write(ctx, skip), repository.ErrConflict)
}

func TestStore_ReadsVersion1File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.json")
	raw := `{"version":1,"settings":{"shopName":"Old Hall","tableCount":4},"sessions":[],"orders":[]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o644))

	doc, err := NewStore(path).Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.SchemaVersion, doc.Version)
	assert.Equal(t, "Old Hall", doc.Settings.ShopName)
	assert.Equal(t, 4, doc.Settings.TableCount)
}

func TestStore_CorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := NewStore(path).Read(context.Background())
	assert.Error(t, err)
}
