package catalogfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vismatch/go-backend/internal/domain"
	"github.com/vismatch/go-backend/pkg/logger"
)

func TestCatalogRepo_SaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	log := logger.NewSlogLogger()

	entries := []domain.CatalogEntry{
		{ID: 1, Name: "Red Sneakers", Category: "Shoes", Price: "49.99", Rating: "4.5", UploadID: "up-1"},
		{ID: 2, Name: "Blue Backpack", Category: "Bags", Price: "N/A", Rating: "N/A", UploadID: "up-2"},
	}

	writer := NewCatalogRepo(path, log)
	require.NoError(t, writer.Save(entries))

	reader := NewCatalogRepo(path, log)
	require.NoError(t, reader.Load())

	assert.Equal(t, entries, reader.All())

	entry, ok := reader.GetByUploadID("up-1")
	require.True(t, ok)
	assert.Equal(t, "Red Sneakers", entry.Name)

	_, ok = reader.GetByUploadID("up-missing")
	assert.False(t, ok)
}

func TestCatalogRepo_MissingFileIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")

	repo := NewCatalogRepo(path, logger.NewSlogLogger())

	require.NoError(t, repo.Load())
	assert.Empty(t, repo.All())

	_, ok := repo.GetByUploadID("up-1")
	assert.False(t, ok)
}

func TestCatalogRepo_MalformedFileIsFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"an array"`), 0o644))

	repo := NewCatalogRepo(path, logger.NewSlogLogger())

	assert.Error(t, repo.Load())
}

func TestCatalogRepo_EntryWithoutUploadIDIsNotIndexed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	require.NoError(t, os.WriteFile(path, []byte(`[
		{"id":1,"name":"Orphan","category":"Unknown","price":"N/A","rating":"N/A","upload_id":""},
		{"id":2,"name":"Linked","category":"Unknown","price":"N/A","rating":"N/A","upload_id":"up-2"}
	]`), 0o644))

	repo := NewCatalogRepo(path, logger.NewSlogLogger())
	require.NoError(t, repo.Load())

	// Запись без upload_id остаётся в списке, но не участвует в поиске
	assert.Len(t, repo.All(), 2)

	_, ok := repo.GetByUploadID("")
	assert.False(t, ok)

	entry, ok := repo.GetByUploadID("up-2")
	require.True(t, ok)
	assert.Equal(t, "Linked", entry.Name)
}

func TestCatalogRepo_SaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "products.json")

	repo := NewCatalogRepo(path, logger.NewSlogLogger())
	require.NoError(t, repo.Save([]domain.CatalogEntry{{ID: 1, UploadID: "up-1"}}))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}

func TestCatalogRepo_SaveOverwritesWholeFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	log := logger.NewSlogLogger()

	repo := NewCatalogRepo(path, log)
	require.NoError(t, repo.Save([]domain.CatalogEntry{
		{ID: 1, UploadID: "up-old-1"},
		{ID: 2, UploadID: "up-old-2"},
	}))
	require.NoError(t, repo.Save([]domain.CatalogEntry{
		{ID: 1, UploadID: "up-new"},
	}))

	reader := NewCatalogRepo(path, log)
	require.NoError(t, reader.Load())

	all := reader.All()
	require.Len(t, all, 1)
	assert.Equal(t, "up-new", all[0].UploadID)
}

func TestCatalogRepo_AllReturnsCopy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	log := logger.NewSlogLogger()

	repo := NewCatalogRepo(path, log)
	require.NoError(t, repo.Save([]domain.CatalogEntry{{ID: 1, Name: "Original", UploadID: "up-1"}}))
	require.NoError(t, repo.Load())

	first := repo.All()
	first[0].Name = "Mutated"

	assert.Equal(t, "Original", repo.All()[0].Name)
}
