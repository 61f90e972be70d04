package usecase

import (
	"sort"

	"github.com/vismatch/go-backend/internal/domain"
)

// Filter оставляет результаты с похожестью >= minSimilarity и сортирует их
// по убыванию похожести. Сортировка стабильная: равные значения сохраняют
// порядок, который дал маппинг результатов. Чистая функция: вход не меняется.
func Filter(results []domain.RankedProduct, minSimilarity float64) []domain.RankedProduct {
	filtered := make([]domain.RankedProduct, 0, len(results))
	for _, product := range results {
		if product.Similarity >= minSimilarity {
			filtered = append(filtered, product)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Similarity > filtered[j].Similarity
	})

	return filtered
}
