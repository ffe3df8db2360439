package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9000
source:
  type: xlsx
  path: "./jobs.xlsx"
  sheet: "Jobs"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Source.Type != SourceXLSX || cfg.Source.Sheet != "Jobs" {
		t.Errorf("unexpected source config: %+v", cfg.Source)
	}
	if want := filepath.Join(filepath.Dir(path), "jobs.xlsx"); cfg.Source.Path != want {
		t.Errorf("source path: got %q, want %q", cfg.Source.Path, want)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_defaults(t *testing.T) {
	path := writeConfig(t, "debug: true\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
	if cfg.Match.ChunkSize != 800 || cfg.Match.OverlapOrDefault() != 200 || cfg.Match.ContextTopK != 5 {
		t.Errorf("unexpected match defaults: size=%d overlap=%d topk=%d",
			cfg.Match.ChunkSize, cfg.Match.OverlapOrDefault(), cfg.Match.ContextTopK)
	}
	if cfg.Embedding.Dimensions != 384 || cfg.Embedding.Provider != EmbeddingONNX {
		t.Errorf("unexpected embedding defaults: %+v", cfg.Embedding)
	}
	if cfg.Generation.Provider != GenerationOllama || cfg.Generation.Ollama.Model != "gemma3:4b" {
		t.Errorf("unexpected generation defaults: %+v", cfg.Generation)
	}
	if cfg.Profile.Level != "junior" || len(cfg.Profile.Skills) != len(DefaultSkills) {
		t.Errorf("unexpected profile defaults: %+v", cfg.Profile)
	}
}

func TestLoad_zeroOverlapKept(t *testing.T) {
	path := writeConfig(t, `
match:
  chunk_size: 100
  chunk_overlap: 0
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Match.OverlapOrDefault() != 0 {
		t.Errorf("explicit zero overlap should be kept, got %d", cfg.Match.OverlapOrDefault())
	}
}

func TestLoad_generationTimeout(t *testing.T) {
	path := writeConfig(t, `
generation:
  provider: gemini
  timeout: 30s
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Generation.Timeout != 30*time.Second {
		t.Errorf("timeout: got %v", cfg.Generation.Timeout)
	}
	if cfg.Generation.Gemini.Model == "" {
		t.Error("gemini model should default")
	}
}

func TestLoad_envSecrets(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "gem-key")
	t.Setenv("OLLAMA_TOKEN", "olla-token")
	cfg, err := Load(writeConfig(t, "{}\n"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Generation.Gemini.APIKey != "gem-key" || cfg.Generation.Ollama.Token != "olla-token" {
		t.Errorf("secrets not read from env: %+v", cfg.Generation)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing config")
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [unclosed\n")); err == nil {
		t.Error("expected parse error")
	}
}

func TestExpandPath(t *testing.T) {
	configDir := "/etc/jobfit"
	if got := expandPath("/abs/jobs.csv", configDir); got != "/abs/jobs.csv" {
		t.Errorf("absolute path changed: %q", got)
	}
	if got := expandPath("./jobs.csv", configDir); got != "/etc/jobfit/jobs.csv" {
		t.Errorf("dot-slash path: %q", got)
	}
	if got := expandPath(":memory:", configDir); got != ":memory:" {
		t.Errorf("memory dsn changed: %q", got)
	}
	if got := expandPath("", configDir); got != "" {
		t.Errorf("empty path changed: %q", got)
	}
}

func TestSave_roundTrip(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	cfg.Profile.Level = "mid"
	path := filepath.Join(t.TempDir(), "out.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Profile.Level != "mid" {
		t.Errorf("level: got %q", loaded.Profile.Level)
	}
}
