package dataset

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/jimlawless/whereami"
	"github.com/vismatch/go-backend/internal/usecase"
	"github.com/vismatch/go-backend/pkg/e"
	"github.com/vismatch/go-backend/pkg/logger"
	"gopkg.in/yaml.v3"
)

// imagePattern — фиксированный allow-list растровых форматов датасета.
// Сравнение идёт по имени файла в нижнем регистре.
const imagePattern = "*.{jpg,jpeg,png,gif,webp}"

// DatasetRepo читает локальный датасет изображений и файл ручных правок метаданных.
type DatasetRepo struct {
	logger logger.Logger
}

func NewDatasetRepo(logger logger.Logger) *DatasetRepo {
	return &DatasetRepo{logger: logger}
}

// ListImages возвращает пути файлов датасета, прошедших allow-list расширений,
// в лексикографическом порядке имён. Поддиректории не обходятся.
func (r *DatasetRepo) ListImages(dir string) ([]string, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	files := make([]string, 0, len(items))
	for _, item := range items {
		if item.IsDir() {
			continue
		}

		matched, err := doublestar.Match(imagePattern, strings.ToLower(item.Name()))
		if err != nil {
			return nil, e.Wrap(whereami.WhereAmI(), err)
		}
		if !matched {
			r.logger.Infof("skipping non-image file: %s", item.Name())
			continue
		}

		files = append(files, filepath.Join(dir, item.Name()))
	}

	return files, nil
}

func (r *DatasetRepo) ReadImage(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return data, nil
}

// metaOverrideModel — YAML-модель одной правки; ключ верхнего уровня — имя файла датасета.
type metaOverrideModel struct {
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
	Price    string `yaml:"price"`
	Rating   string `yaml:"rating"`
	Image    string `yaml:"image"`
}

// LoadOverrides читает YAML с ручными правками метаданных каталога.
func (r *DatasetRepo) LoadOverrides(path string) (map[string]usecase.MetaOverride, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	var models map[string]metaOverrideModel
	if err := yaml.Unmarshal(data, &models); err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	overrides := make(map[string]usecase.MetaOverride, len(models))
	for file, m := range models {
		overrides[file] = usecase.MetaOverride{
			Name:     m.Name,
			Category: m.Category,
			Price:    m.Price,
			Rating:   m.Rating,
			Image:    m.Image,
		}
	}

	return overrides, nil
}
