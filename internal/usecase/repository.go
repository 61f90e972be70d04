package usecase

import "github.com/vismatch/go-backend/internal/domain"

type CatalogRepository interface {
	GetByUploadID(uploadID string) (*domain.CatalogEntry, bool)
	All() []domain.CatalogEntry
}

type CatalogStore interface {
	Save(entries []domain.CatalogEntry) error
}

type DatasetRepository interface {
	ListImages(dir string) ([]string, error)
	ReadImage(path string) ([]byte, error)
	LoadOverrides(path string) (map[string]MetaOverride, error)
}
