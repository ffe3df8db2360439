package explain

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/hyperjump/jobfit/internal/models"
	"github.com/hyperjump/jobfit/internal/retrieval"
	"github.com/hyperjump/jobfit/pkg/utils"
	"go.uber.org/zap"
)

const defaultMaxLogLength = 200

// Explainer builds the grounded prompt for a job and asks the generator to explain the match.
type Explainer struct {
	generator Generator
	timeout   time.Duration
	logger    *zap.Logger
	maxLogLen int
}

// ExplainerOption configures an Explainer.
type ExplainerOption func(*Explainer)

// WithLogger sets a logger for prompt and response previews.
func WithLogger(l *zap.Logger) ExplainerOption {
	return func(e *Explainer) { e.logger = l }
}

// WithMaxLogLength caps the prompt and response previews written to the debug log.
func WithMaxLogLength(n int) ExplainerOption {
	return func(e *Explainer) {
		if n > 0 {
			e.maxLogLen = n
		}
	}
}

// NewExplainer creates an explainer. A timeout <= 0 means no deadline beyond ctx.
func NewExplainer(generator Generator, timeout time.Duration, opts ...ExplainerOption) *Explainer {
	e := &Explainer{
		generator: generator,
		timeout:   timeout,
		logger:    zap.NewNop(),
		maxLogLen: defaultMaxLogLength,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Explain asks the generator why result fits, citing chunks. On failure the returned
// explanation carries the error message as its text with Failed set, and the error wraps
// ErrGeneration.
func (e *Explainer) Explain(ctx context.Context, result *models.RankedResult, chunks []string) (*models.Explanation, error) {
	expl := &models.Explanation{Job: result, Chunks: chunks}
	prompt := BuildPrompt(retrieval.BuildContext(result, chunks))

	e.logger.Debug("requesting explanation",
		zap.String("model", e.generator.Model()),
		zap.String("job_key", result.JobKey),
		zap.Int("chunks", len(chunks)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)))

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := e.generator.Generate(ctx, prompt)
	if err != nil {
		expl.Text = err.Error()
		expl.Failed = true
		return expl, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	e.logger.Debug("received explanation",
		zap.Duration("took", time.Since(start)),
		zap.String("response_preview", utils.TruncateForLog(text, e.maxLogLen)))
	expl.Text = text
	return expl, nil
}
