// Package pipeline runs a full match: load jobs, chunk, embed, index, search, rank and explain.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hyperjump/jobfit/internal/config"
	"github.com/hyperjump/jobfit/internal/eligibility"
	"github.com/hyperjump/jobfit/internal/embedding"
	"github.com/hyperjump/jobfit/internal/explain"
	"github.com/hyperjump/jobfit/internal/indexer"
	"github.com/hyperjump/jobfit/internal/ingest"
	"github.com/hyperjump/jobfit/internal/models"
	"github.com/hyperjump/jobfit/internal/ranking"
	"github.com/hyperjump/jobfit/internal/retrieval"
	"go.uber.org/zap"
)

// ErrNoEligibleJob is returned by Explain when no ranked job passed the eligibility checks.
var ErrNoEligibleJob = errors.New("no eligible job to explain")

// Engine runs match requests. A run owns its corpus and index; concurrent runs share nothing
// mutable except the embedder's cache.
type Engine struct {
	cfg       *config.Config
	source    ingest.Source
	embedder  embedding.Embedder
	indexer   *indexer.Indexer
	generator explain.Generator
	explainer *explain.Explainer
	logger    *zap.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger for run summaries and stage debug output.
func WithLogger(l *zap.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithGenerator enables explanations through g. Without it Explain returns the evidence chunks only.
func WithGenerator(g explain.Generator) EngineOption {
	return func(e *Engine) { e.generator = g }
}

// NewEngine creates an engine. It fails with indexer.ErrInvalidConfiguration when the chunk
// settings are invalid.
func NewEngine(cfg *config.Config, source ingest.Source, embedder embedding.Embedder, opts ...EngineOption) (*Engine, error) {
	e := &Engine{
		cfg:      cfg,
		source:   source,
		embedder: embedder,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if e.generator != nil {
		e.explainer = explain.NewExplainer(e.generator, cfg.Generation.Timeout, explain.WithLogger(e.logger))
	}
	idx, err := indexer.NewIndexer(embedder, cfg, indexer.WithLogger(e.logger))
	if err != nil {
		return nil, err
	}
	e.indexer = idx
	return e, nil
}

// DefaultProfile returns the configured candidate profile.
func (e *Engine) DefaultProfile() models.Profile {
	return e.cfg.Profile
}

// Source returns the job source.
func (e *Engine) Source() ingest.Source {
	return e.source
}

// Run loads the corpus from the source and matches profile against it.
func (e *Engine) Run(ctx context.Context, profile models.Profile) (*models.MatchResponse, error) {
	jobs, err := e.source.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load jobs from %s: %w", e.source.Name(), err)
	}
	e.logger.Debug("loaded jobs", zap.String("source", e.source.Name()), zap.Int("jobs", len(jobs)))
	return e.Match(ctx, jobs, profile)
}

// Match indexes jobs and ranks them for profile. An empty corpus yields empty results.
func (e *Engine) Match(ctx context.Context, jobs []models.JobRecord, profile models.Profile) (*models.MatchResponse, error) {
	start := time.Now()
	corpus, err := e.indexer.Index(ctx, jobs)
	if err != nil {
		return nil, err
	}
	defer corpus.Close()

	resp := &models.MatchResponse{
		RunID:   uuid.New().String(),
		Profile: profile,
		Results: []*models.RankedResult{},
		Jobs:    jobs,
		Chunks:  corpus.Chunks,
		Hits:    []models.Hit{},
	}
	if len(corpus.Chunks) == 0 {
		e.logger.Info("empty corpus, nothing to match",
			zap.String("run_id", resp.RunID),
			zap.Int("jobs", len(jobs)))
		resp.QueryTime = time.Since(start).Milliseconds()
		return resp, nil
	}

	query, err := e.embedder.Embed(ctx, profile.Text())
	if err != nil {
		return nil, fmt.Errorf("failed to embed profile: %w", err)
	}
	hits, err := corpus.Index.Search(ctx, query, len(corpus.Chunks))
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}
	e.logger.Debug("searched index", zap.Int("hits", len(hits)))

	filter := eligibility.NewFilter(profile, &e.cfg.Eligibility)
	ranker := ranking.NewRanker(filter, ranking.WithLogger(e.logger))
	results, err := ranker.Rank(hits, corpus.Chunks, jobs)
	if err != nil {
		return nil, fmt.Errorf("ranking failed: %w", err)
	}

	resp.Hits = hits
	resp.Results = results
	resp.QueryTime = time.Since(start).Milliseconds()

	eligible := 0
	for _, r := range results {
		if r.Eligibility.Eligible {
			eligible++
		}
	}
	e.logger.Info("match complete",
		zap.String("run_id", resp.RunID),
		zap.Int("jobs", len(jobs)),
		zap.Int("chunks", len(corpus.Chunks)),
		zap.Int("results", len(results)),
		zap.Int("eligible", eligible),
		zap.Int64("took_ms", resp.QueryTime))
	return resp, nil
}

// Explain gathers the best eligible job's top chunks from resp and asks the generator to
// explain the match. topK <= 0 uses the configured context size. It returns ErrNoEligibleJob
// when no result is eligible. Generation failures do not fail the call: the explanation
// carries the error message instead.
func (e *Engine) Explain(ctx context.Context, resp *models.MatchResponse, topK int) (*models.Explanation, error) {
	best := resp.BestEligible()
	if best == nil {
		return nil, ErrNoEligibleJob
	}
	if topK <= 0 {
		topK = e.cfg.Match.ContextTopK
	}
	chunks := retrieval.Assemble(best.JobKey, resp.Hits, resp.Chunks, topK)
	if e.explainer == nil {
		return &models.Explanation{Job: best, Chunks: chunks}, nil
	}

	expl, err := e.explainer.Explain(ctx, best, chunks)
	if err != nil {
		e.logger.Warn("explanation generation failed",
			zap.String("run_id", resp.RunID),
			zap.String("job_key", best.JobKey),
			zap.Error(err))
	}
	return expl, nil
}
