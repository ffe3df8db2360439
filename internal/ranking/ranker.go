// Package ranking collapses per-chunk similarity hits into one ranked result per job.
package ranking

import (
	"fmt"

	"github.com/hyperjump/jobfit/internal/models"
	"go.uber.org/zap"
)

// Evaluator decides whether a candidate can apply for a job.
type Evaluator interface {
	Evaluate(job *models.JobRecord) models.EligibilityDecision
}

// Ranker deduplicates hits by job key, keeping the index's similarity order.
type Ranker struct {
	evaluator Evaluator
	logger    *zap.Logger
}

// RankerOption configures a Ranker.
type RankerOption func(*Ranker)

// WithLogger sets a logger for debug output (skipped duplicate hits).
func WithLogger(l *zap.Logger) RankerOption {
	return func(r *Ranker) { r.logger = l }
}

// NewRanker creates a ranker that attaches evaluator's decision to every result.
func NewRanker(evaluator Evaluator, opts ...RankerOption) *Ranker {
	r := &Ranker{evaluator: evaluator, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank walks hits in order and emits a result for the first hit of each job key; later hits
// for the same job are skipped. The result's score is that first hit's score and its rank is
// its 1-based position among emitted results. jobs and chunks are read, never modified.
func (r *Ranker) Rank(hits []models.Hit, chunks []models.Chunk, jobs []models.JobRecord) ([]*models.RankedResult, error) {
	results := make([]*models.RankedResult, 0)
	seen := make(map[string]struct{})
	for _, hit := range hits {
		if hit.ChunkIndex < 0 || hit.ChunkIndex >= len(chunks) {
			return nil, fmt.Errorf("hit references chunk %d, corpus has %d chunks", hit.ChunkIndex, len(chunks))
		}
		chunk := &chunks[hit.ChunkIndex]
		if chunk.JobIndex < 0 || chunk.JobIndex >= len(jobs) {
			return nil, fmt.Errorf("chunk %d references job %d, corpus has %d jobs", chunk.Index, chunk.JobIndex, len(jobs))
		}
		if _, dup := seen[chunk.JobKey]; dup {
			r.logger.Debug("skipping duplicate job hit",
				zap.String("job_key", chunk.JobKey),
				zap.Int("chunk", hit.ChunkIndex),
				zap.Float64("score", hit.Score))
			continue
		}
		seen[chunk.JobKey] = struct{}{}

		job := &jobs[chunk.JobIndex]
		decision := r.evaluator.Evaluate(job)
		results = append(results, &models.RankedResult{
			Rank:        len(results) + 1,
			JobKey:      chunk.JobKey,
			JobIndex:    chunk.JobIndex,
			JobID:       job.ID,
			Title:       job.Title,
			Company:     job.Company,
			Location:    job.Location,
			Score:       hit.Score,
			Eligibility: decision,
			Decision:    decision.String(),
		})
	}
	return results, nil
}
