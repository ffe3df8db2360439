// Package config provides configuration loading and structs for the jobfit matcher.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hyperjump/jobfit/internal/models"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug       bool              `yaml:"debug"`
	Server      ServerConfig      `yaml:"server"`
	Source      SourceConfig      `yaml:"source"`
	Storage     StorageConfig     `yaml:"storage"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Vector      VectorConfig      `yaml:"vector"`
	Match       MatchConfig       `yaml:"match"`
	Eligibility EligibilityConfig `yaml:"eligibility"`
	Generation  GenerationConfig  `yaml:"generation"`
	Profile     models.Profile    `yaml:"profile"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Source types.
const (
	SourceCSV     = "csv"
	SourceXLSX    = "xlsx"
	SourceStorage = "storage"
)

// SourceConfig selects where job records are loaded from.
type SourceConfig struct {
	Type  string `yaml:"type"`  // csv, xlsx or storage
	Path  string `yaml:"path"`  // csv/xlsx file
	Sheet string `yaml:"sheet"` // xlsx sheet; first sheet when empty
}

// Storage drivers.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// StorageConfig holds the job store connection settings.
type StorageConfig struct {
	Driver       string `yaml:"driver"`
	DatabasePath string `yaml:"database_path"` // sqlite3
	DSN          string `yaml:"dsn"`           // postgres
}

// Embedding providers.
const (
	EmbeddingONNX   = "onnx"
	EmbeddingOllama = "ollama"
	EmbeddingMock   = "mock"
)

// EmbeddingConfig holds embedder settings.
type EmbeddingConfig struct {
	Provider    string `yaml:"provider"`
	ModelPath   string `yaml:"model_path"`
	Dimensions  int    `yaml:"dimensions"`
	MaxTokens   int    `yaml:"max_tokens"`
	CacheSize   int    `yaml:"cache_size"`
	BatchSize   int    `yaml:"batch_size"`
	Workers     int    `yaml:"workers"`
	OllamaURL   string `yaml:"ollama_url"`
	OllamaModel string `yaml:"ollama_model"`
}

// VectorConfig selects the vector index implementation.
type VectorConfig struct {
	Type string `yaml:"type"` // memory or faiss
}

// MatchConfig holds chunking and context settings.
type MatchConfig struct {
	ChunkSize    int  `yaml:"chunk_size"`
	ChunkOverlap *int `yaml:"chunk_overlap"`
	ContextTopK  int  `yaml:"context_top_k"`
}

// OverlapOrDefault returns the chunk overlap; defaults to DefaultChunkOverlap when unset.
func (m *MatchConfig) OverlapOrDefault() int {
	if m.ChunkOverlap != nil {
		return *m.ChunkOverlap
	}
	return DefaultChunkOverlap
}

// EligibilityConfig overrides the eligibility rule terms. Empty lists keep the built-in terms.
type EligibilityConfig struct {
	SeniorTerms              []string `yaml:"senior_terms"`
	CitizenPhrases           []string `yaml:"citizen_phrases"`
	PermanentResidentPhrases []string `yaml:"permanent_resident_phrases"`
	NoSponsorshipPhrases     []string `yaml:"no_sponsorship_phrases"`
	GovernmentKeywords       []string `yaml:"government_keywords"`
}

// Generation providers.
const (
	GenerationOllama = "ollama"
	GenerationGemini = "gemini"
	GenerationNone   = "none"
)

// GenerationConfig holds explanation backend settings.
type GenerationConfig struct {
	Provider string        `yaml:"provider"`
	Timeout  time.Duration `yaml:"timeout"`
	Ollama   OllamaConfig  `yaml:"ollama"`
	Gemini   GeminiConfig  `yaml:"gemini"`
}

// OllamaConfig holds the Ollama chat endpoint settings. Token is read from OLLAMA_TOKEN.
type OllamaConfig struct {
	URL   string `yaml:"url"`
	Model string `yaml:"model"`
	Token string `yaml:"-"`
}

// GeminiConfig holds Gemini settings. APIKey is read from GEMINI_API_KEY.
type GeminiConfig struct {
	Model       string  `yaml:"model"`
	Backend     string  `yaml:"backend"` // gemini or vertex
	Project     string  `yaml:"project"`
	Location    string  `yaml:"location"`
	Temperature float32 `yaml:"temperature"`
	APIKey      string  `yaml:"-"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	ApplyEnv(&cfg)

	configDir := filepath.Dir(path)
	cfg.Source.Path = expandPath(cfg.Source.Path, configDir)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)

	return &cfg, nil
}

// ApplyEnv fills secrets from the environment.
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Generation.Gemini.APIKey = v
	}
	if v := os.Getenv("OLLAMA_TOKEN"); v != "" {
		cfg.Generation.Ollama.Token = v
	}
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) || path == ":memory:" {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
