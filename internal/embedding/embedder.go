// Package embedding maps text to L2-normalized vectors via ONNX, Ollama, or a deterministic mock.
package embedding

import (
	"context"
	"fmt"

	"github.com/hyperjump/jobfit/internal/config"
	"github.com/hyperjump/jobfit/internal/ollama"
)

// Embedder produces L2-normalized vector embeddings for text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	Dimensions() int
	Close() error
}

// New creates the embedder selected by cfg.Provider.
func New(cfg *config.EmbeddingConfig) (Embedder, error) {
	switch cfg.Provider {
	case config.EmbeddingONNX:
		e, err := NewONNXEmbedder(cfg.ModelPath, cfg.Dimensions, cfg.MaxTokens, cfg.CacheSize)
		if err != nil {
			return nil, err
		}
		return e, nil
	case config.EmbeddingOllama:
		client := ollama.NewClient(cfg.OllamaURL, cfg.OllamaModel, "")
		return NewOllamaEmbedder(client, cfg.Dimensions, cfg.CacheSize), nil
	case config.EmbeddingMock:
		return NewMockEmbedder(cfg.Dimensions), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Provider)
	}
}
