package domain

// Значения-заглушки для метаданных, которые оператор каталога правит вручную.
const (
	UnknownCategory  = "Unknown"
	NotAvailableMark = "N/A"
)

// CatalogEntry описывает карточку товара каталога: связывает upload_id,
// выданный внешним API при предварительной загрузке изображения,
// с отображаемыми метаданными. Создаётся сборщиком каталога,
// на стороне поиска доступна только для чтения.
type CatalogEntry struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Price    string `json:"price"`
	Rating   string `json:"rating"`
	UploadID string `json:"upload_id"`
	Image    string `json:"image,omitempty"`
}

// NewCatalogEntry создаёт запись каталога с метаданными-заглушками.
func NewCatalogEntry(id int64, name string, uploadID string) *CatalogEntry {
	return &CatalogEntry{
		ID:       id,
		Name:     name,
		Category: UnknownCategory,
		Price:    NotAvailableMark,
		Rating:   NotAvailableMark,
		UploadID: uploadID,
	}
}
