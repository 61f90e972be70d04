package usecase

import "github.com/vismatch/go-backend/internal/domain"

// SEARCH USECASE

// SearchByFileReq — запрос поиска по загруженному файлу изображения.
type SearchByFileReq struct {
	Data     []byte // байты изображения
	MimeType string // Content-Type, определённый по содержимому (image/jpeg)
	Name     string // оригинальное имя файла (для логов)
}

// SearchByURLReq — запрос поиска по URL изображения.
type SearchByURLReq struct {
	ImageURL string
}

// SearchRes — результат поиска: ранжированный список товаров в порядке ответа апстрима.
type SearchRes struct {
	Products []domain.RankedProduct
}

// INFRASTRUCTURE

// UploadImageReq — запрос на регистрацию изображения во внешнем API (файловый вариант).
type UploadImageReq struct {
	Data []byte
	Name string
}

// UploadImageURLReq — запрос на регистрацию изображения по URL.
type UploadImageURLReq struct {
	ImageURL string
}

// UploadImageRes — результат регистрации: непрозрачный идентификатор загрузки.
type UploadImageRes struct {
	UploadID string
}

// FindSimilarReq — similarity-запрос по идентификатору загрузки.
type FindSimilarReq struct {
	UploadID string
	Limit    int
}

type FindSimilarRes struct {
	Matches []domain.SimilarityMatch
}

// ForwardReq — запрос на проброс к апстриму от имени клиента.
// Path выбирает операцию апстрима, остальные поля зависят от операции.
type ForwardReq struct {
	Path          string
	ImageURL      string
	ImageBase64   string
	ImageUploadID string
	Limit         int
}

// ForwardRes — ответ апстрима как есть: код и JSON-тело без изменений.
type ForwardRes struct {
	StatusCode int
	Body       []byte
}

// CATALOG BUILDER

// BuildCatalogReq — запрос на офлайн-сборку каталога из директории датасета.
type BuildCatalogReq struct {
	DatasetDir string
	MetaPath   string
}

type BuildCatalogRes struct {
	Entries []domain.CatalogEntry
	Skipped int // файлы, исключённые из каталога из-за ошибок загрузки
}

// MetaOverride — ручные правки метаданных одной записи каталога,
// ключуются именем исходного файла датасета. Пустые поля не применяются.
type MetaOverride struct {
	Name     string
	Category string
	Price    string
	Rating   string
	Image    string
}

// MAPPERS

func NewSearchByFileReq(data []byte, mimeType string, name string) *SearchByFileReq {
	return &SearchByFileReq{
		Data:     data,
		MimeType: mimeType,
		Name:     name,
	}
}

func NewSearchByURLReq(imageURL string) *SearchByURLReq {
	return &SearchByURLReq{ImageURL: imageURL}
}

func NewSearchRes(products []domain.RankedProduct) *SearchRes {
	return &SearchRes{Products: products}
}

func NewUploadImageReq(data []byte, name string) *UploadImageReq {
	return &UploadImageReq{
		Data: data,
		Name: name,
	}
}

func NewUploadImageURLReq(imageURL string) *UploadImageURLReq {
	return &UploadImageURLReq{ImageURL: imageURL}
}

func NewUploadImageRes(uploadID string) *UploadImageRes {
	return &UploadImageRes{UploadID: uploadID}
}

func NewFindSimilarReq(uploadID string, limit int) *FindSimilarReq {
	return &FindSimilarReq{
		UploadID: uploadID,
		Limit:    limit,
	}
}

func NewFindSimilarRes(matches []domain.SimilarityMatch) *FindSimilarRes {
	return &FindSimilarRes{Matches: matches}
}

func NewForwardRes(statusCode int, body []byte) *ForwardRes {
	return &ForwardRes{
		StatusCode: statusCode,
		Body:       body,
	}
}

func NewBuildCatalogReq(datasetDir string, metaPath string) *BuildCatalogReq {
	return &BuildCatalogReq{
		DatasetDir: datasetDir,
		MetaPath:   metaPath,
	}
}

func NewBuildCatalogRes(entries []domain.CatalogEntry, skipped int) *BuildCatalogRes {
	return &BuildCatalogRes{
		Entries: entries,
		Skipped: skipped,
	}
}
