package vector

import (
	"sort"

	"github.com/hyperjump/jobfit/internal/models"
)

// InnerProduct returns the inner product of two vectors (for normalized vectors equals cosine similarity).
func InnerProduct(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot
}

// sortHits orders hits by descending score, breaking ties by ascending chunk index.
func sortHits(hits []models.Hit) {
	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChunkIndex < hits[j].ChunkIndex
	})
}

// clampK limits k to the corpus size.
func clampK(k, size int) int {
	if k > size {
		return size
	}
	return k
}
