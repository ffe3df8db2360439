package explain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/hyperjump/jobfit/internal/config"
	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiGenerator wraps the Google GenAI client. It talks to the Gemini API, or to Vertex AI
// when the backend is "vertex".
type GeminiGenerator struct {
	client      *genai.Client
	modelName   string
	temperature float32
}

// NewGeminiGenerator creates a generator. The Gemini API backend requires an API key;
// the Vertex backend requires a project and location and uses application default credentials.
func NewGeminiGenerator(ctx context.Context, cfg *config.GeminiConfig) (*GeminiGenerator, error) {
	clientCfg := &genai.ClientConfig{}
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "vertex", "vertexai":
		if cfg.Project == "" || cfg.Location == "" {
			return nil, errors.New("vertex backend requires generation.gemini.project and location")
		}
		clientCfg.Backend = genai.BackendVertexAI
		clientCfg.Project = cfg.Project
		clientCfg.Location = cfg.Location
	default:
		apiKey := strings.TrimSpace(cfg.APIKey)
		if apiKey == "" {
			return nil, errors.New("gemini api key is required (set GEMINI_API_KEY)")
		}
		clientCfg.Backend = genai.BackendGeminiAPI
		clientCfg.APIKey = apiKey
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	return &GeminiGenerator{client: client, modelName: model, temperature: cfg.Temperature}, nil
}

// Generate sends prompt to Gemini and joins the text parts of every candidate.
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	var genCfg *genai.GenerateContentConfig
	if g.temperature > 0 {
		genCfg = &genai.GenerateContentConfig{Temperature: genai.Ptr(g.temperature)}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.modelName, genai.Text(prompt), genCfg)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil {
				continue
			}
			text := strings.TrimSpace(part.Text)
			if text == "" {
				continue
			}
			if builder.Len() > 0 {
				builder.WriteString("\n")
			}
			builder.WriteString(text)
		}
	}

	output := strings.TrimSpace(builder.String())
	if output == "" {
		return "", errors.New("gemini api returned empty response")
	}
	return output, nil
}

// Model returns the Gemini model name.
func (g *GeminiGenerator) Model() string {
	return g.modelName
}
