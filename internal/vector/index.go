// Package vector provides exact inner-product vector indices over chunk embeddings.
package vector

import (
	"context"

	"github.com/hyperjump/jobfit/internal/models"
)

// VectorIndex stores vectors in insertion order and answers top-k inner-product queries.
// Hit.ChunkIndex is the insertion position of the matching vector.
// Results are ordered by descending score; ties keep insertion order.
type VectorIndex interface {
	Add(ctx context.Context, vectors [][]float32) error
	Search(ctx context.Context, query []float32, k int) ([]models.Hit, error)
	Size() int
	Dimensions() int
	Type() string
	Close() error
}
