package config

import "time"

// Matching defaults.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 200
	DefaultContextTopK  = 5
)

// DefaultSkills is the profile used when none is configured.
var DefaultSkills = []string{
	"python",
	"sql",
	"html",
	"css",
	"javascript",
	"flask",
	"node.js",
	"git",
	"github",
	"oracle service cloud",
	"oracle integration cloud",
	"sqlalchemy",
	"bootstrap",
	"ajax",
	"c programming",
	"java",
	"web development",
	"database design",
	"software testing basics",
}

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Source.Type == "" {
		cfg.Source.Type = SourceCSV
	}
	if cfg.Source.Path == "" && cfg.Source.Type != SourceStorage {
		cfg.Source.Path = "./jobs.csv"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverSQLite
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/jobfit/data/db/jobs.db"
	}
	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = EmbeddingONNX
	}
	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "/usr/local/var/jobfit/data/models/all-MiniLM-L6-v2.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = 32
	}
	if cfg.Embedding.Workers == 0 {
		cfg.Embedding.Workers = 4
	}
	if cfg.Embedding.OllamaURL == "" {
		cfg.Embedding.OllamaURL = "http://localhost:11434"
	}
	if cfg.Embedding.OllamaModel == "" {
		cfg.Embedding.OllamaModel = "all-minilm"
	}
	if cfg.Vector.Type == "" {
		cfg.Vector.Type = "memory"
	}
	if cfg.Match.ChunkSize == 0 {
		cfg.Match.ChunkSize = DefaultChunkSize
	}
	// Overlap 0 is valid, so only nil gets the default.
	if cfg.Match.ChunkOverlap == nil {
		o := DefaultChunkOverlap
		cfg.Match.ChunkOverlap = &o
	}
	if cfg.Match.ContextTopK == 0 {
		cfg.Match.ContextTopK = DefaultContextTopK
	}
	if cfg.Generation.Provider == "" {
		cfg.Generation.Provider = GenerationOllama
	}
	if cfg.Generation.Timeout == 0 {
		cfg.Generation.Timeout = 120 * time.Second
	}
	if cfg.Generation.Ollama.URL == "" {
		cfg.Generation.Ollama.URL = "http://localhost:11434"
	}
	if cfg.Generation.Ollama.Model == "" {
		cfg.Generation.Ollama.Model = "gemma3:4b"
	}
	if cfg.Generation.Gemini.Model == "" {
		cfg.Generation.Gemini.Model = "gemini-2.5-flash"
	}
	if cfg.Generation.Gemini.Backend == "" {
		cfg.Generation.Gemini.Backend = "gemini"
	}
	if len(cfg.Profile.Skills) == 0 {
		cfg.Profile.Skills = append([]string(nil), DefaultSkills...)
	}
	if cfg.Profile.Level == "" {
		cfg.Profile.Level = "junior"
	}
}
