package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vismatch/go-backend/internal/domain"
)

func TestFilter_ThresholdInclusive(t *testing.T) {
	results := []domain.RankedProduct{
		{ID: 1, Similarity: 0.3},
		{ID: 2, Similarity: 0.5},
		{ID: 3, Similarity: 0.7},
	}

	filtered := Filter(results, 0.5)

	require.Len(t, filtered, 2)
	assert.Equal(t, int64(3), filtered[0].ID)
	assert.Equal(t, int64(2), filtered[1].ID)
}

func TestFilter_SortsDescending(t *testing.T) {
	results := []domain.RankedProduct{
		{ID: 1, Similarity: 0.1},
		{ID: 2, Similarity: 0.9},
		{ID: 3, Similarity: 0.4},
	}

	filtered := Filter(results, 0)

	require.Len(t, filtered, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{filtered[0].ID, filtered[1].ID, filtered[2].ID})
}

func TestFilter_StableForEqualSimilarity(t *testing.T) {
	results := []domain.RankedProduct{
		{ID: 1, Similarity: 0.5},
		{ID: 2, Similarity: 0.5},
		{ID: 3, Similarity: 0.5},
	}

	filtered := Filter(results, 0)

	assert.Equal(t, []int64{1, 2, 3}, []int64{filtered[0].ID, filtered[1].ID, filtered[2].ID})
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	results := []domain.RankedProduct{
		{ID: 1, Similarity: 0.1},
		{ID: 2, Similarity: 0.9},
	}

	_ = Filter(results, 0.5)

	assert.Equal(t, int64(1), results[0].ID)
	assert.Equal(t, int64(2), results[1].ID)
}

func TestFilter_Idempotent(t *testing.T) {
	results := []domain.RankedProduct{
		{ID: 1, Similarity: 0.2},
		{ID: 2, Similarity: 0.8},
		{ID: 3, Similarity: 0.6},
	}

	once := Filter(results, 0.5)
	twice := Filter(once, 0.5)

	assert.Equal(t, once, twice)
}

func TestFilter_ZeroThresholdKeepsAll(t *testing.T) {
	results := []domain.RankedProduct{
		{ID: 1, Similarity: 0},
		{ID: 2, Similarity: 1},
	}

	filtered := Filter(results, 0)

	assert.Len(t, filtered, 2)
}
