package usecase

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/vismatch/go-backend/internal/domain"
	"github.com/vismatch/go-backend/pkg/e"
	"github.com/vismatch/go-backend/pkg/jitter"
	"github.com/vismatch/go-backend/pkg/logger"
)

// ProgressFunc уведомляет о продвижении сборки: сколько файлов обработано из скольких.
type ProgressFunc func(done int, total int, file string)

// CatalogBuildUseCase — офлайн-сборка каталога: последовательная загрузка
// изображений датасета во внешний API и запись полученных upload_id вместе
// с метаданными в JSON-файл каталога. Файлы грузятся строго по одному,
// чтобы не заваливать внешний API параллельными загрузками.
type CatalogBuildUseCase struct {
	recognition  RecognitionInfra
	datasetRepo  DatasetRepository
	catalogStore CatalogStore
	uploadPause  time.Duration
	onProgress   ProgressFunc
	logger       logger.Logger
}

func NewCatalogBuildUC(
	recognition RecognitionInfra,
	datasetRepo DatasetRepository,
	catalogStore CatalogStore,
	uploadPause time.Duration,
	onProgress ProgressFunc,
	logger logger.Logger,
) *CatalogBuildUseCase {
	return &CatalogBuildUseCase{
		recognition:  recognition,
		datasetRepo:  datasetRepo,
		catalogStore: catalogStore,
		uploadPause:  uploadPause,
		onProgress:   onProgress,
		logger:       logger,
	}
}

// BuildCatalog собирает каталог за один проход и перезаписывает выходной файл целиком.
// Ошибка загрузки отдельного файла логируется, файл исключается из каталога,
// сборка продолжается. Фатальны только ошибки файловой системы: нечитаемая
// директория датасета, нечитаемый файл правок, незаписываемый выходной файл.
func (c *CatalogBuildUseCase) BuildCatalog(ctx context.Context, req *BuildCatalogReq) (*BuildCatalogRes, error) {
	const op = "CatalogBuildUseCase.BuildCatalog"

	files, err := c.datasetRepo.ListImages(req.DatasetDir)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	overrides := map[string]MetaOverride{}
	if req.MetaPath != "" {
		overrides, err = c.datasetRepo.LoadOverrides(req.MetaPath)
		if err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	entries := make([]domain.CatalogEntry, 0, len(files))
	skipped := 0

	for i, file := range files {
		if err := ctx.Err(); err != nil {
			return nil, e.Wrap(op, err)
		}

		if entry, ok := c.uploadOne(ctx, file, int64(len(entries)+1), overrides); ok {
			entries = append(entries, *entry)
		} else {
			skipped++
		}

		if c.onProgress != nil {
			c.onProgress(i+1, len(files), filepath.Base(file))
		}

		if c.uploadPause > 0 && i < len(files)-1 {
			if err := c.pause(ctx); err != nil {
				return nil, e.Wrap(op, err)
			}
		}
	}

	if err := c.catalogStore.Save(entries); err != nil {
		return nil, e.Wrap(op, err)
	}

	return NewBuildCatalogRes(entries, skipped), nil
}

// uploadOne загружает один файл датасета и собирает запись каталога.
// Идентификаторы записей сквозные только по успешным загрузкам.
func (c *CatalogBuildUseCase) uploadOne(ctx context.Context, file string, id int64, overrides map[string]MetaOverride) (*domain.CatalogEntry, bool) {
	name := filepath.Base(file)

	data, err := c.datasetRepo.ReadImage(file)
	if err != nil {
		c.logger.Warnf("skipping unreadable file. file: %s, error: %v", name, err)
		return nil, false
	}

	res, err := c.recognition.UploadImage(ctx, NewUploadImageReq(data, name))
	if err != nil {
		c.logger.Warnf("upload failed, excluding file from catalog. file: %s, error: %v", name, err)
		return nil, false
	}

	entry := domain.NewCatalogEntry(id, strings.TrimSuffix(name, filepath.Ext(name)), res.UploadID)
	applyOverride(entry, overrides[name])

	c.logger.Infof("uploaded %s -> %s", name, res.UploadID)
	return entry, true
}

// pause ждёт настроенную паузу с джиттером между последовательными загрузками.
func (c *CatalogBuildUseCase) pause(ctx context.Context) error {
	select {
	case <-time.After(jitter.Duration(c.uploadPause, jitter.DefaultJitter)):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// applyOverride накладывает непустые ручные правки метаданных на запись каталога.
func applyOverride(entry *domain.CatalogEntry, override MetaOverride) {
	if override.Name != "" {
		entry.Name = override.Name
	}
	if override.Category != "" {
		entry.Category = override.Category
	}
	if override.Price != "" {
		entry.Price = override.Price
	}
	if override.Rating != "" {
		entry.Rating = override.Rating
	}
	if override.Image != "" {
		entry.Image = override.Image
	}
}
