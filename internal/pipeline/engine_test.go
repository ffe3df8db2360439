package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/hyperjump/jobfit/internal/config"
	"github.com/hyperjump/jobfit/internal/embedding"
	"github.com/hyperjump/jobfit/internal/indexer"
	"github.com/hyperjump/jobfit/internal/models"
)

type memSource struct {
	jobs []models.JobRecord
	err  error
}

func (s *memSource) Load(ctx context.Context) ([]models.JobRecord, error) {
	return s.jobs, s.err
}

func (s *memSource) Name() string { return "memory" }

type fakeGenerator struct {
	text   string
	err    error
	prompt string
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.prompt = prompt
	return g.text, g.err
}

func (g *fakeGenerator) Model() string { return "fake" }

func testConfig() *config.Config {
	overlap := 5
	cfg := &config.Config{}
	cfg.Match.ChunkSize = 40
	cfg.Match.ChunkOverlap = &overlap
	cfg.Match.ContextTopK = 2
	cfg.Embedding.BatchSize = 3
	cfg.Embedding.Workers = 2
	cfg.Vector.Type = "memory"
	cfg.Profile = models.Profile{Skills: []string{"Python", "SQL"}, Level: models.LevelJunior}
	return cfg
}

func testJobs() []models.JobRecord {
	return []models.JobRecord{
		{
			ID:                    "42",
			Title:                 "Junior Data Analyst",
			Company:               "Acme",
			Location:              "Sydney",
			Description:           strings.Repeat("Python and SQL reporting for the finance team. ", 6),
			WorkRightsRequirement: "Any",
		},
		{
			ID:                    "7",
			Title:                 "Senior Engineer",
			Company:               "Beta",
			Description:           "Lead a platform team building Go services.",
			WorkRightsRequirement: "Must be an Australian citizen",
		},
		{
			Title:                 "Graduate Developer",
			Company:               "Gamma",
			Description:           "Learn to build web applications.",
			WorkRightsRequirement: "Open to all",
		},
		{},
	}
}

func newTestEngine(t *testing.T, src *memSource, opts ...EngineOption) *Engine {
	t.Helper()
	e, err := NewEngine(testConfig(), src, embedding.NewMockEmbedder(16), opts...)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func TestEngine_Run(t *testing.T) {
	e := newTestEngine(t, &memSource{jobs: testJobs()})
	resp, err := e.Run(context.Background(), e.DefaultProfile())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.RunID == "" {
		t.Error("expected a run id")
	}
	if len(resp.Hits) != len(resp.Chunks) {
		t.Errorf("hits = %d, want one per chunk (%d)", len(resp.Hits), len(resp.Chunks))
	}
	if len(resp.Results) != 3 {
		t.Fatalf("results = %d, want 3 (job without text has no chunks)", len(resp.Results))
	}

	seen := map[string]bool{}
	for i, r := range resp.Results {
		if r.Rank != i+1 {
			t.Errorf("result %d has rank %d", i, r.Rank)
		}
		if seen[r.JobKey] {
			t.Errorf("job %q ranked twice", r.JobKey)
		}
		seen[r.JobKey] = true
		if i > 0 && r.Score > resp.Results[i-1].Score {
			t.Errorf("scores not descending at %d: %v > %v", i, r.Score, resp.Results[i-1].Score)
		}
	}

	byKey := map[string]*models.RankedResult{}
	for _, r := range resp.Results {
		byKey[r.JobKey] = r
	}
	if r := byKey["42"]; r == nil || !r.Eligibility.Eligible {
		t.Errorf("job 42 should be eligible: %+v", r)
	}
	if r := byKey["7"]; r == nil || r.Eligibility.Eligible {
		t.Errorf("senior citizen-only job should be ineligible: %+v", r)
	} else if len(r.Eligibility.Reasons) != 2 {
		t.Errorf("reasons = %v, want senior and citizen", r.Eligibility.Reasons)
	}
	if byKey["Graduate Developer||Gamma"] == nil {
		t.Error("job without id should be keyed by title and company")
	}
}

func TestEngine_RunEmptyCorpus(t *testing.T) {
	e := newTestEngine(t, &memSource{})
	resp, err := e.Run(context.Background(), e.DefaultProfile())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if resp.Results == nil || len(resp.Results) != 0 {
		t.Errorf("results = %#v, want empty", resp.Results)
	}
	if _, err := e.Explain(context.Background(), resp, 0); !errors.Is(err, ErrNoEligibleJob) {
		t.Errorf("Explain error = %v, want ErrNoEligibleJob", err)
	}
}

func TestEngine_RunSourceError(t *testing.T) {
	boom := errors.New("boom")
	e := newTestEngine(t, &memSource{err: boom})
	if _, err := e.Run(context.Background(), e.DefaultProfile()); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped source error", err)
	}
}

func TestEngine_NoEligibleJob(t *testing.T) {
	jobs := []models.JobRecord{
		{ID: "1", Title: "Senior Analyst", Description: "Reporting", WorkRightsRequirement: "Any"},
		{ID: "2", Title: "Analyst", Description: "Defence reporting", WorkRightsRequirement: "Any"},
	}
	e := newTestEngine(t, &memSource{jobs: jobs})
	resp, err := e.Run(context.Background(), e.DefaultProfile())
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(resp.Results))
	}
	if _, err := e.Explain(context.Background(), resp, 0); !errors.Is(err, ErrNoEligibleJob) {
		t.Errorf("Explain error = %v, want ErrNoEligibleJob", err)
	}
}

func TestEngine_Explain(t *testing.T) {
	gen := &fakeGenerator{text: "Strong SQL overlap."}
	e := newTestEngine(t, &memSource{jobs: testJobs()}, WithGenerator(gen))
	resp, err := e.Run(context.Background(), e.DefaultProfile())
	if err != nil {
		t.Fatal(err)
	}
	expl, err := e.Explain(context.Background(), resp, 0)
	if err != nil {
		t.Fatalf("Explain: %v", err)
	}
	if expl.Text != "Strong SQL overlap." || expl.Failed {
		t.Errorf("explanation = %+v", expl)
	}
	if expl.Job != resp.BestEligible() {
		t.Error("explanation should be for the best eligible job")
	}
	if len(expl.Chunks) == 0 || len(expl.Chunks) > 2 {
		t.Errorf("chunks = %d, want 1..2", len(expl.Chunks))
	}
	owned := map[string]bool{}
	for _, ch := range resp.Chunks {
		if ch.JobKey == expl.Job.JobKey {
			owned[ch.Content] = true
		}
	}
	for _, c := range expl.Chunks {
		if !owned[c] {
			t.Errorf("chunk %q does not belong to %s", c, expl.Job.JobKey)
		}
		if !strings.Contains(gen.prompt, c) {
			t.Errorf("prompt missing chunk %q", c)
		}
	}
}

func TestEngine_ExplainGenerationFailure(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("connection refused")}
	e := newTestEngine(t, &memSource{jobs: testJobs()}, WithGenerator(gen))
	resp, err := e.Run(context.Background(), e.DefaultProfile())
	if err != nil {
		t.Fatal(err)
	}
	expl, err := e.Explain(context.Background(), resp, 1)
	if err != nil {
		t.Fatalf("generation failure should not fail Explain: %v", err)
	}
	if !expl.Failed || !strings.Contains(expl.Text, "connection refused") {
		t.Errorf("explanation = %+v", expl)
	}
	if len(expl.Chunks) != 1 {
		t.Errorf("chunks = %d, want 1", len(expl.Chunks))
	}
}

func TestEngine_ExplainWithoutGenerator(t *testing.T) {
	e := newTestEngine(t, &memSource{jobs: testJobs()})
	resp, err := e.Run(context.Background(), e.DefaultProfile())
	if err != nil {
		t.Fatal(err)
	}
	expl, err := e.Explain(context.Background(), resp, 0)
	if err != nil {
		t.Fatal(err)
	}
	if expl.Text != "" || len(expl.Chunks) == 0 {
		t.Errorf("explanation = %+v", expl)
	}
}

func TestNewEngine_InvalidChunking(t *testing.T) {
	cfg := testConfig()
	overlap := cfg.Match.ChunkSize
	cfg.Match.ChunkOverlap = &overlap
	_, err := NewEngine(cfg, &memSource{}, embedding.NewMockEmbedder(8))
	if !errors.Is(err, indexer.ErrInvalidConfiguration) {
		t.Errorf("error = %v, want ErrInvalidConfiguration", err)
	}
}
