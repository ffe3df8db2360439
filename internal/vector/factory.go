package vector

import (
	"context"
	"fmt"
)

// IndexType represents the type of vector index to use.
type IndexType string

const (
	// IndexTypeMemory uses in-memory brute-force search.
	IndexTypeMemory IndexType = "memory"
	// IndexTypeFAISS uses a FAISS IndexFlatIP (exact inner product).
	// Requires FAISS library and build tag -tags=faiss.
	IndexTypeFAISS IndexType = "faiss"
)

// NewVectorIndex creates a vector index of the specified type.
// Supported types: "memory" (default), "faiss".
func NewVectorIndex(indexType string, dimensions int) (VectorIndex, error) {
	var (
		idx VectorIndex
		err error
	)
	switch IndexType(indexType) {
	case IndexTypeMemory, "":
		idx, err = NewMemoryIndex(dimensions)
	case IndexTypeFAISS:
		idx, err = NewFAISSIndex(dimensions)
	default:
		return nil, fmt.Errorf("unknown index type: %s (supported: memory, faiss)", indexType)
	}
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Build creates an index of indexType and adds vectors in order. The index is read-only afterwards.
func Build(ctx context.Context, indexType string, dimensions int, vectors [][]float32) (VectorIndex, error) {
	idx, err := NewVectorIndex(indexType, dimensions)
	if err != nil {
		return nil, err
	}
	if err := idx.Add(ctx, vectors); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to add vectors: %w", err)
	}
	return idx, nil
}

// IsFAISSAvailable returns true if FAISS support is compiled in.
func IsFAISSAvailable() bool {
	idx, err := NewFAISSIndex(1)
	if err != nil {
		return false
	}
	_ = idx.Close()
	return true
}
