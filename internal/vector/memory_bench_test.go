package vector

import (
	"context"
	"testing"

	"github.com/hyperjump/jobfit/pkg/utils"
)

func BenchmarkMemoryIndexSearch(b *testing.B) {
	const n, dims = 2000, 384
	idx, _ := NewMemoryIndex(dims)
	ctx := context.Background()
	vecs := make([][]float32, n)
	for i := range vecs {
		vecs[i] = make([]float32, dims)
		vecs[i][0] = float32(i) / n
		vecs[i][i%dims] += 1
		utils.NormalizeL2(vecs[i])
	}
	_ = idx.Add(ctx, vecs)
	query := make([]float32, dims)
	query[0] = 1.0
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		// Full ranking, as a match run does.
		_, _ = idx.Search(ctx, query, n)
	}
}
