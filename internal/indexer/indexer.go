package indexer

import (
	"context"
	"fmt"

	"github.com/hyperjump/jobfit/internal/config"
	"github.com/hyperjump/jobfit/internal/embedding"
	"github.com/hyperjump/jobfit/internal/models"
	"github.com/hyperjump/jobfit/internal/vector"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Corpus is the chunked, embedded and indexed job set for one run. It is read-only once built.
type Corpus struct {
	Jobs   []models.JobRecord
	Chunks []models.Chunk
	Index  vector.VectorIndex
}

// Close releases the vector index.
func (c *Corpus) Close() error {
	if c.Index == nil {
		return nil
	}
	return c.Index.Close()
}

// Indexer chunks jobs, embeds the chunks and builds the vector index.
type Indexer struct {
	chunker   *Chunker
	embedder  embedding.Embedder
	indexType string
	batchSize int
	workers   int
	logger    *zap.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithLogger sets a logger for debug output (chunks produced, batches embedded, index built).
func WithLogger(l *zap.Logger) IndexerOption {
	return func(idx *Indexer) { idx.logger = l }
}

// NewIndexer creates an indexer. Returns ErrInvalidConfiguration when the chunk settings are invalid.
func NewIndexer(embedder embedding.Embedder, cfg *config.Config, opts ...IndexerOption) (*Indexer, error) {
	chunker, err := NewChunker(cfg.Match.ChunkSize, cfg.Match.OverlapOrDefault())
	if err != nil {
		return nil, err
	}
	idx := &Indexer{
		chunker:   chunker,
		embedder:  embedder,
		indexType: cfg.Vector.Type,
		batchSize: max(cfg.Embedding.BatchSize, 1),
		workers:   max(cfg.Embedding.Workers, 1),
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx, nil
}

// BuildChunks chunks every job's text. Chunk.Index is the position in the returned slice,
// which is also the chunk's position in the vector index.
func (idx *Indexer) BuildChunks(jobs []models.JobRecord) []models.Chunk {
	chunks := make([]models.Chunk, 0, len(jobs))
	for i := range jobs {
		key := jobs[i].Key()
		for pos, text := range idx.chunker.Chunk(jobs[i].Text()) {
			chunks = append(chunks, models.Chunk{
				Index:    len(chunks),
				JobKey:   key,
				JobIndex: i,
				Position: pos,
				Content:  text,
			})
		}
	}
	return chunks
}

// EmbedChunks embeds chunk contents in batches across workers. Vectors are returned in chunk
// order; the call returns only after every batch has finished.
func (idx *Indexer) EmbedChunks(ctx context.Context, chunks []models.Chunk) ([][]float32, error) {
	vectors := make([][]float32, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(idx.workers)
	for start := 0; start < len(chunks); start += idx.batchSize {
		end := min(start+idx.batchSize, len(chunks))
		g.Go(func() error {
			texts := make([]string, end-start)
			for i := range texts {
				texts[i] = chunks[start+i].Content
			}
			embs, err := idx.embedder.EmbedBatch(gctx, texts)
			if err != nil {
				return fmt.Errorf("failed to embed chunks %d-%d: %w", start, end-1, err)
			}
			if len(embs) != len(texts) {
				return fmt.Errorf("embedder returned %d vectors for %d chunks", len(embs), len(texts))
			}
			copy(vectors[start:end], embs)
			idx.logger.Debug("embedded chunk batch", zap.Int("start", start), zap.Int("end", end))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}

// Index chunks, embeds and indexes jobs. Zero jobs or zero chunks yield an empty, searchable corpus.
func (idx *Indexer) Index(ctx context.Context, jobs []models.JobRecord) (*Corpus, error) {
	chunks := idx.BuildChunks(jobs)
	idx.logger.Debug("chunked jobs", zap.Int("jobs", len(jobs)), zap.Int("chunks", len(chunks)))

	vectors, err := idx.EmbedChunks(ctx, chunks)
	if err != nil {
		return nil, err
	}

	index, err := vector.Build(ctx, idx.indexType, idx.embedder.Dimensions(), vectors)
	if err != nil {
		return nil, fmt.Errorf("failed to build vector index: %w", err)
	}
	idx.logger.Debug("built vector index", zap.String("type", index.Type()), zap.Int("vectors", index.Size()))

	return &Corpus{Jobs: jobs, Chunks: chunks, Index: index}, nil
}
