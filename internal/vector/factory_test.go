package vector

import (
	"context"
	"testing"
)

func TestNewVectorIndex_Memory(t *testing.T) {
	idx, err := NewVectorIndex("memory", 3)
	if err != nil {
		t.Fatalf("NewVectorIndex(memory): %v", err)
	}
	defer idx.Close()

	if err := idx.Add(context.Background(), [][]float32{{1, 0, 0}}); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if idx.Size() != 1 || idx.Type() != "memory" || idx.Dimensions() != 3 {
		t.Errorf("Size=%d Type=%s Dimensions=%d", idx.Size(), idx.Type(), idx.Dimensions())
	}
}

func TestNewVectorIndex_Empty(t *testing.T) {
	// Empty string defaults to memory
	idx, err := NewVectorIndex("", 3)
	if err != nil {
		t.Fatalf("NewVectorIndex(''): %v", err)
	}
	defer idx.Close()

	if idx.Size() != 0 {
		t.Errorf("Size=%d, want 0", idx.Size())
	}
}

func TestNewVectorIndex_Unknown(t *testing.T) {
	if _, err := NewVectorIndex("hnsw", 3); err == nil {
		t.Error("expected error for unknown index type")
	}
}

func TestNewVectorIndex_InvalidDimension(t *testing.T) {
	if _, err := NewVectorIndex("memory", 0); err == nil {
		t.Error("expected error for zero dimension")
	}
}

func TestBuild(t *testing.T) {
	ctx := context.Background()
	idx, err := Build(ctx, "memory", 2, [][]float32{{1, 0}, {0, 1}, {0.6, 0.8}})
	if err != nil {
		t.Fatal(err)
	}
	defer idx.Close()
	hits, err := idx.Search(ctx, []float32{0, 1}, 3)
	if err != nil {
		t.Fatal(err)
	}
	if hits[0].ChunkIndex != 1 || hits[1].ChunkIndex != 2 || hits[2].ChunkIndex != 0 {
		t.Errorf("unexpected order %+v", hits)
	}

	if _, err := Build(ctx, "memory", 2, [][]float32{{1, 0, 0}}); err == nil {
		t.Error("expected error when a vector has the wrong dimension")
	}
}

func TestNewVectorIndex_FAISS(t *testing.T) {
	if !IsFAISSAvailable() {
		t.Skip("FAISS not available (build with -tags=faiss)")
	}

	ctx := context.Background()
	idx, err := Build(ctx, "faiss", 2, [][]float32{{0, 1}, {1, 0}, {0, 1}})
	if err != nil {
		t.Fatalf("Build(faiss): %v", err)
	}
	defer idx.Close()

	hits, err := idx.Search(ctx, []float32{0, 1}, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(hits) != 3 || hits[0].ChunkIndex != 0 || hits[1].ChunkIndex != 2 {
		t.Errorf("unexpected hits %+v", hits)
	}
}
