// Package explain produces grounded explanations for the best matching job through a
// text generation backend (Ollama or Gemini).
package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"github.com/hyperjump/jobfit/internal/config"
	"github.com/hyperjump/jobfit/internal/ollama"
)

// ErrGeneration wraps every failure of the generation backend.
var ErrGeneration = errors.New("explanation generation failed")

// Generator turns a prompt into free text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

//go:embed prompt.md
var promptTemplate string

const contextPlaceholder = "{{CONTEXT}}"

// BuildPrompt inserts the assembled context block into the citation instruction template.
func BuildPrompt(contextBlock string) string {
	return strings.Replace(promptTemplate, contextPlaceholder, contextBlock, 1)
}

// NewGenerator creates the backend selected by cfg.Provider. It returns (nil, nil) for "none".
func NewGenerator(ctx context.Context, cfg *config.GenerationConfig) (Generator, error) {
	switch cfg.Provider {
	case config.GenerationOllama:
		return NewOllamaGenerator(ollama.NewClient(cfg.Ollama.URL, cfg.Ollama.Model, cfg.Ollama.Token)), nil
	case config.GenerationGemini:
		g, err := NewGeminiGenerator(ctx, &cfg.Gemini)
		if err != nil {
			return nil, err
		}
		return g, nil
	case config.GenerationNone, "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Provider)
	}
}

// OllamaGenerator generates text with an Ollama chat model (gemma3:4b by default).
type OllamaGenerator struct {
	client *ollama.Client
}

// NewOllamaGenerator wraps client.
func NewOllamaGenerator(client *ollama.Client) *OllamaGenerator {
	return &OllamaGenerator{client: client}
}

// Generate sends prompt as a single user message.
func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return g.client.Chat(ctx, prompt)
}

// Model returns the chat model name.
func (g *OllamaGenerator) Model() string {
	return g.client.Model()
}
