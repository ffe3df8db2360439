// Package main is the jobfit CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/hyperjump/jobfit/internal/cli"
	"github.com/hyperjump/jobfit/internal/config"
	"github.com/hyperjump/jobfit/internal/embedding"
	"github.com/hyperjump/jobfit/internal/explain"
	"github.com/hyperjump/jobfit/internal/ingest"
	"github.com/hyperjump/jobfit/internal/models"
	"github.com/hyperjump/jobfit/internal/pipeline"
	"github.com/hyperjump/jobfit/internal/server"
	"github.com/hyperjump/jobfit/internal/storage"
	"github.com/hyperjump/jobfit/internal/vector"
	"github.com/hyperjump/jobfit/internal/watcher"
	"github.com/hyperjump/jobfit/pkg/utils"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/jobfit/config.yaml"

// loadConfig loads config from path. When path is the default, config.yaml in the current
// directory takes precedence, and a missing default file yields the built-in defaults.
// Returns the config and the path that was actually loaded ("" for built-in defaults).
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
		if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
			cfg := &config.Config{}
			config.ApplyDefaults(cfg)
			config.ApplyEnv(cfg)
			return cfg, "", nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// .env is optional; secrets may come from the real environment.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "match":
		runMatch()
	case "import":
		runImport()
	case "server":
		runServer()
	case "version", "--version", "-v":
		fmt.Printf("jobfit version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// setup loads config and creates the logger shared by every subcommand.
func setup(configPath string, debug bool) (*config.Config, *zap.Logger) {
	cfg, resolvedConfigPath, err := loadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || debug
	cfg.Debug = debugMode
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	if resolvedConfigPath == "" {
		resolvedConfigPath = "(built-in defaults)"
	}
	logger.Debug("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)
	return cfg, logger
}

func runMatch() {
	fs := flag.NewFlagSet("match", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	level := fs.String("level", "", "candidate level (overrides config profile)")
	skills := fs.String("skills", "", "comma-separated candidate skills (overrides config profile)")
	source := fs.String("source", "", "job source file (.csv or .xlsx), overrides config source")
	outputFormat := fs.String("output", "text", "output format: text, compact (one job per line), or json")
	xlsxPath := fs.String("xlsx", "", "also export ranked results to this .xlsx file")
	noExplain := fs.Bool("no-explain", false, "skip the explanation for the best eligible job")
	topK := fs.Int("top-k", 0, "chunks used as explanation context (default from config)")
	watch := fs.Bool("watch", false, "re-run whenever the source file changes")
	_ = fs.Parse(os.Args[2:])

	format, err := cli.ParseOutputFormat(*outputFormat)
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()
	if *source != "" {
		cfg.Source.Path = *source
		cfg.Source.Type = sourceTypeFromPath(*source)
	}

	components, err := initializeComponents(cfg, logger, !*noExplain)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	profile := profileFromFlags(cfg.Profile, *level, *skills)
	opts := matchOptions{
		format:  format,
		xlsx:    *xlsxPath,
		explain: !*noExplain,
		topK:    *topK,
	}

	if !*watch {
		if err := runOnce(context.Background(), os.Stdout, components.Engine, profile, opts); err != nil {
			fmt.Printf("Match failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if cfg.Source.Type == config.SourceStorage {
		fmt.Println("--watch requires a file source (csv or xlsx)")
		os.Exit(1)
	}
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var runMu sync.Mutex
	rerun := func(path string) {
		runMu.Lock()
		defer runMu.Unlock()
		logger.Info("source changed, re-running match", zap.String("path", path))
		if err := runOnce(ctx, os.Stdout, components.Engine, profile, opts); err != nil {
			logger.Error("match failed", zap.Error(err))
		}
	}
	rerun(cfg.Source.Path)

	w := watcher.NewWatcher([]string{cfg.Source.Path}, rerun, watcher.WithLogger(logger))
	if err := w.Start(ctx); err != nil {
		logger.Fatal("Failed to start watcher", zap.Error(err))
	}
	defer w.Stop()
	fmt.Fprintf(os.Stderr, "Watching %s for changes (Ctrl+C to stop)\n", cfg.Source.Path)
	<-ctx.Done()
}

type matchOptions struct {
	format  cli.OutputFormat
	xlsx    string
	explain bool
	topK    int
}

// runOnce runs one match and writes the results (and explanation) to w.
func runOnce(ctx context.Context, w io.Writer, engine *pipeline.Engine, profile models.Profile, opts matchOptions) error {
	resp, err := engine.Run(ctx, profile)
	if err != nil {
		return err
	}

	var expl *models.Explanation
	if opts.explain {
		expl, err = engine.Explain(ctx, resp, opts.topK)
		if err != nil && !errors.Is(err, pipeline.ErrNoEligibleJob) {
			return err
		}
	}
	if err := cli.WriteMatchResults(w, resp, expl, opts.format); err != nil {
		return err
	}
	if opts.explain && expl == nil && opts.format != cli.OutputJSON {
		fmt.Fprintln(w, "\nNo eligible job found.")
	}
	if opts.xlsx != "" {
		path, err := cli.ExportExcel(opts.xlsx, resp)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Results exported to %s\n", path)
	}
	return nil
}

func runImport() {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	sheet := fs.String("sheet", "", "worksheet to read from an .xlsx file (default: first sheet)")
	_ = fs.Parse(reorderArgs(os.Args[2:]))

	if fs.NArg() < 1 {
		fmt.Println("Usage: jobfit import [flags] <file.csv|file.xlsx>")
		os.Exit(1)
	}
	filePath := fs.Arg(0)

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	src, err := ingest.NewFileSource(filePath, *sheet)
	if err != nil {
		fmt.Printf("Import failed: %v\n", err)
		os.Exit(1)
	}
	ctx := context.Background()
	jobs, err := src.Load(ctx)
	if err != nil {
		fmt.Printf("Import failed: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.New(&cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	if err := store.ReplaceJobs(ctx, src.Name(), jobs); err != nil {
		fmt.Printf("Import failed: %v\n", err)
		os.Exit(1)
	}
	logger.Info("jobs imported", zap.String("file", filePath), zap.Int("jobs", len(jobs)))
	fmt.Printf("Imported %d jobs from %s\n", len(jobs), filePath)
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging")
	_ = fs.Parse(os.Args[2:])

	cfg, logger := setup(*configPath, *debug)
	defer logger.Sync()

	components, err := initializeComponents(cfg, logger, true)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	srv := server.NewServer(components.Engine, components.Storage, cfg, logger)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// Components holds initialized services.
type Components struct {
	Storage  storage.Storage
	Embedder embedding.Embedder
	Source   ingest.Source
	Engine   *pipeline.Engine
}

func (c *Components) Close() {
	if c.Storage != nil {
		_ = c.Storage.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

// initializeComponents wires storage, embedder, source, generator and engine from cfg.
// Storage is only opened for the storage source. withGenerator=false skips the explanation backend.
func initializeComponents(cfg *config.Config, logger *zap.Logger, withGenerator bool) (*Components, error) {
	c := &Components{}
	if cfg.Source.Type == config.SourceStorage {
		store, err := storage.New(&cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize storage: %w", err)
		}
		c.Storage = store
	}

	src, err := ingest.NewSource(&cfg.Source, c.Storage)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to initialize job source: %w", err)
	}
	c.Source = src

	embedder, err := embedding.New(&cfg.Embedding)
	if err != nil {
		if cfg.Embedding.Provider != config.EmbeddingONNX {
			c.Close()
			return nil, fmt.Errorf("failed to initialize embedder: %w", err)
		}
		logger.Warn("ONNX embedder unavailable, falling back to mock embeddings",
			zap.String("model_path", cfg.Embedding.ModelPath),
			zap.Error(err))
		embedder = embedding.NewMockEmbedder(cfg.Embedding.Dimensions)
	}
	c.Embedder = embedder

	if vector.IndexType(cfg.Vector.Type) == vector.IndexTypeFAISS && !vector.IsFAISSAvailable() {
		logger.Warn("FAISS not available in this build, using memory index",
			zap.String("requested_type", cfg.Vector.Type))
		cfg.Vector.Type = string(vector.IndexTypeMemory)
	}

	opts := []pipeline.EngineOption{pipeline.WithLogger(logger)}
	if withGenerator {
		gen, err := explain.NewGenerator(context.Background(), &cfg.Generation)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("failed to initialize generator: %w", err)
		}
		if gen != nil {
			logger.Debug("generator initialized", zap.String("model", gen.Model()))
			opts = append(opts, pipeline.WithGenerator(gen))
		}
	}

	engine, err := pipeline.NewEngine(cfg, src, embedder, opts...)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Engine = engine
	return c, nil
}

// profileFromFlags overrides base with the --level and --skills flag values when set.
func profileFromFlags(base models.Profile, level, skills string) models.Profile {
	p := models.Profile{Skills: append([]string(nil), base.Skills...), Level: base.Level}
	if l := strings.TrimSpace(level); l != "" {
		p.Level = l
	}
	if parsed := parseSkills(skills); len(parsed) > 0 {
		p.Skills = parsed
	}
	return p
}

// parseSkills splits a comma-separated skill list, dropping blanks.
func parseSkills(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// sourceTypeFromPath picks the source type for a --source file.
func sourceTypeFromPath(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return config.SourceXLSX
	}
	return config.SourceCSV
}

// reorderArgs moves any flags (and their values) that appear after the positional
// argument to the front so that flag.Parse() sees them; the flag package stops at the
// first non-flag argument.
func reorderArgs(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func printUsage() {
	fmt.Println(`jobfit - Semantic job matching with eligibility filtering and grounded explanations

Usage:
  jobfit match [flags]            Rank jobs for the candidate profile
  jobfit import [flags] <file>    Import jobs from .csv or .xlsx into the job store
  jobfit server [flags]           Start the HTTP server
  jobfit version                  Show version
  jobfit help                     Show this help

Match Flags:
  --config string    Config file path (default: /usr/local/etc/jobfit/config.yaml)
  --level string     Candidate level, e.g. junior (default from config)
  --skills string    Comma-separated skills (default from config)
  --source string    Job file (.csv or .xlsx) instead of the configured source
  --output string    Output format: text, compact, or json (default: text)
  --xlsx string      Also export ranked results to an .xlsx workbook
  --top-k int        Chunks used as explanation context (default from config)
  --no-explain       Skip the explanation for the best eligible job
  --watch            Re-run whenever the source file changes
  --debug            Enable debug logging

Import Flags:
  --config string    Config file path
  --sheet string     Worksheet of an .xlsx file (default: first sheet)

Server Flags:
  --config string    Config file path
  --debug            Enable debug logging

Environment:
  GEMINI_API_KEY     API key for the gemini generation provider
  OLLAMA_TOKEN       Bearer token for a protected Ollama endpoint
  (both may be set in a .env file in the working directory)

Examples:
  jobfit match --source jobs.csv
  jobfit match --skills "Python,SQL,Docker" --level junior --output compact
  jobfit match --output json --no-explain > matches.json
  jobfit match --xlsx matches.xlsx --watch
  jobfit import --sheet Jobs jobs.xlsx
  jobfit server --debug`)
}
