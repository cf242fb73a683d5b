package gormstore

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"billiard/internal/domain"
	"billiard/internal/repository"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	store, err := NewStore(db)
	require.NoError(t, err)
	return store
}

func TestStore_ReadEmptyTable(t *testing.T) {
	store := setupTestStore(t)

	doc, err := store.Read(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.NewDocument(), doc)
}

func TestStore_WriteAndReadBack(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	doc := domain.NewDocument()
	doc.Revision = 1
	doc.Settings.HourlyRate = 70000
	require.NoError(t, store.Write(ctx, doc))

	doc.Revision = 2
	doc.Settings.HourlyRate = 80000
	require.NoError(t, store.Write(ctx, doc))

	got, err := store.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Revision)
	assert.Equal(t, int64(80000), got.Settings.HourlyRate)
}

func TestStore_Conflicts(t *testing.T) {
	ctx := context.Background()
	store := setupTestStore(t)

	doc := domain.NewDocument()
	doc.Revision = 1
	require.NoError(t, store.Write(ctx, doc))

	assert.ErrorIs(t, store.Write(ctx, doc), repository.ErrConflict, "second insert of revision 1")

	doc.Revision = 3
	assert.ErrorIs(t, store.Write(ctx, doc), repository.ErrConflict, "revision gap")
}
