package embedding

import (
	"context"
	"fmt"

	"github.com/hyperjump/jobfit/internal/ollama"
	"github.com/hyperjump/jobfit/pkg/utils"
)

// OllamaEmbedder embeds text through an Ollama /api/embed endpoint and normalizes the result.
type OllamaEmbedder struct {
	client     *ollama.Client
	dimensions int
	cache      *EmbeddingCache
}

// NewOllamaEmbedder wraps client. dimensions is checked against every returned vector.
func NewOllamaEmbedder(client *ollama.Client, dimensions, cacheSize int) *OllamaEmbedder {
	return &OllamaEmbedder{
		client:     client,
		dimensions: dimensions,
		cache:      NewEmbeddingCache(cacheSize),
	}
}

// Embed returns the embedding for text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	embs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embs[0], nil
}

// EmbedBatch embeds texts in one request, skipping texts already cached.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if cached, ok := e.cache.Get(text); ok {
			out[i] = cached
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	embs, err := e.client.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	for j, emb := range embs {
		if e.dimensions > 0 && len(emb) != e.dimensions {
			return nil, fmt.Errorf("ollama model %s returned %d dimensions, want %d", e.client.Model(), len(emb), e.dimensions)
		}
		utils.NormalizeL2(emb)
		e.cache.Set(missing[j], emb)
		out[missingIdx[j]] = emb
	}
	return out, nil
}

// Dimensions returns the embedding dimension.
func (e *OllamaEmbedder) Dimensions() int {
	return e.dimensions
}

// Close is a no-op; the HTTP client holds no resources that need releasing.
func (e *OllamaEmbedder) Close() error {
	return nil
}
