package catalogfile

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
	"github.com/vismatch/go-backend/internal/domain"
	"github.com/vismatch/go-backend/pkg/e"
	"github.com/vismatch/go-backend/pkg/logger"
)

// CatalogRepo — файловый репозиторий каталога: статический JSON-массив записей.
// Сервер читает его один раз при старте и держит индекс по upload_id в памяти,
// сборщик каталога перезаписывает файл целиком за один прогон.
type CatalogRepo struct {
	path   string
	logger logger.Logger

	mu         sync.RWMutex
	entries    []domain.CatalogEntry
	byUploadID map[string]domain.CatalogEntry
}

func NewCatalogRepo(path string, logger logger.Logger) *CatalogRepo {
	return &CatalogRepo{
		path:       path,
		logger:     logger,
		byUploadID: map[string]domain.CatalogEntry{},
	}
}

// Load читает файл каталога и строит индекс по upload_id.
// Отсутствующий файл не фатален: сервер стартует с пустым каталогом,
// и каждый результат поиска будет синтезированной заглушкой.
func (r *CatalogRepo) Load() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			r.logger.Warnf("catalog file not found, starting with empty catalog. path: %s", r.path)
			return nil
		}

		return e.Wrap(whereami.WhereAmI(), err)
	}

	var entries []domain.CatalogEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	byUploadID := make(map[string]domain.CatalogEntry, len(entries))
	for _, entry := range entries {
		r.validatePrice(entry)
		if entry.UploadID == "" {
			r.logger.Warnf("catalog entry without upload_id, it will never match. id: %d", entry.ID)
			continue
		}
		byUploadID[entry.UploadID] = entry
	}

	r.mu.Lock()
	r.entries = entries
	r.byUploadID = byUploadID
	r.mu.Unlock()

	r.logger.Infof("catalog loaded. entries: %d, path: %s", len(entries), r.path)
	return nil
}

// GetByUploadID возвращает запись каталога по идентификатору загрузки.
func (r *CatalogRepo) GetByUploadID(uploadID string) (*domain.CatalogEntry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byUploadID[uploadID]
	if !ok {
		return nil, false
	}

	return &entry, true
}

// All возвращает копию всех записей каталога в порядке файла.
func (r *CatalogRepo) All() []domain.CatalogEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]domain.CatalogEntry, len(r.entries))
	copy(entries, r.entries)

	return entries
}

// Save перезаписывает файл каталога целиком отформатированным JSON-массивом.
func (r *CatalogRepo) Save(entries []domain.CatalogEntry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return e.Wrap(whereami.WhereAmI(), err)
		}
	}

	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}

	return nil
}

// validatePrice предупреждает о ценах, которые не парсятся как десятичные числа.
// Цена в каталоге — отображаемая строка, поэтому ошибка не фатальна.
func (r *CatalogRepo) validatePrice(entry domain.CatalogEntry) {
	if entry.Price == "" || entry.Price == domain.NotAvailableMark {
		return
	}

	if _, err := decimal.NewFromString(entry.Price); err != nil {
		r.logger.Warnf("catalog entry has non-numeric price. id: %d, price: %q", entry.ID, entry.Price)
	}
}
