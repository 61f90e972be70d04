package domain

// SimilarityMatch — сырой результат similarity-запроса внешнего API.
// Distance неотрицательна, чем меньше — тем более похоже изображение.
type SimilarityMatch struct {
	ImageID  string
	Distance float64
}

func NewSimilarityMatch(imageID string, distance float64) *SimilarityMatch {
	return &SimilarityMatch{
		ImageID:  imageID,
		Distance: distance,
	}
}

// RankedProduct — view model одного результата поиска: совпадение,
// обогащённое данными каталога (или заглушками, если записи в каталоге нет).
// Живёт одну поисковую сессию.
type RankedProduct struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Image      string  `json:"image"`
	Category   string  `json:"category"`
	Price      string  `json:"price"`
	Rating     string  `json:"rating"`
	Similarity float64 `json:"similarity"`
}

// SimilarityFromDistance переводит дистанцию внешнего API в похожесть [0,1]:
// max(0, (100-distance)/100). Дистанции больше 100 прижимаются к нулю.
func SimilarityFromDistance(distance float64) float64 {
	similarity := (100 - distance) / 100
	if similarity < 0 {
		return 0
	}

	return similarity
}
