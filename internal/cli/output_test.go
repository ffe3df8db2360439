package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/hyperjump/jobfit/internal/models"
)

func sampleResponse() *models.MatchResponse {
	return &models.MatchResponse{
		RunID:     "run-1",
		Profile:   models.Profile{Skills: []string{"Python", "SQL"}, Level: models.LevelJunior},
		QueryTime: 12,
		Results: []*models.RankedResult{
			{
				Rank:        1,
				JobKey:      "7",
				JobID:       "7",
				Title:       "Senior Engineer",
				Company:     "Beta",
				Location:    "Melbourne",
				Score:       0.81234,
				Eligibility: models.NewEligibilityDecision([]string{"Senior job"}, ""),
			},
			{
				Rank:        2,
				JobKey:      "42",
				JobID:       "42",
				Title:       "Graduate Developer",
				Location:    "Sydney",
				Score:       0.7,
				Eligibility: models.NewEligibilityDecision(nil, ""),
			},
		},
	}
}

func withDecisions(resp *models.MatchResponse) *models.MatchResponse {
	for _, r := range resp.Results {
		r.Decision = r.Eligibility.String()
	}
	return resp
}

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    OutputFormat
		wantErr bool
	}{
		{"", OutputText, false},
		{"text", OutputText, false},
		{" JSON ", OutputJSON, false},
		{"compact", OutputCompact, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseOutputFormat(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseOutputFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteMatchResults_Text(t *testing.T) {
	resp := withDecisions(sampleResponse())
	var buf bytes.Buffer
	if err := WriteMatchResults(&buf, resp, nil, OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Job ID: 7\n",
		"Title: Senior Engineer\n",
		"profile_to_job_semantic_relevance: 0.812\n",
		"Decision: Not applicable (Senior job)\n",
		"Work rights: Applicable!\n",
		"Decision: Apply\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Count(out, "----") != 2 {
		t.Errorf("expected one block per result:\n%s", out)
	}
}

func TestWriteMatchResults_Compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteMatchResults(&buf, withDecisions(sampleResponse()), nil, OutputCompact); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "skip") || !strings.Contains(lines[0], "Senior Engineer @ Beta") {
		t.Errorf("line 1: %q", lines[0])
	}
	if !strings.Contains(lines[1], "apply") || strings.Contains(lines[1], "@") {
		t.Errorf("line 2: %q", lines[1])
	}
}

func TestWriteMatchResults_JSON(t *testing.T) {
	resp := withDecisions(sampleResponse())
	resp.Chunks = []models.Chunk{{Content: "internal"}}
	expl := &models.Explanation{Job: resp.Results[1], Chunks: []string{"c1"}, Text: "fits"}
	var buf bytes.Buffer
	if err := WriteMatchResults(&buf, resp, expl, OutputJSON); err != nil {
		t.Fatal(err)
	}
	var decoded struct {
		RunID       string                 `json:"run_id"`
		Results     []*models.RankedResult `json:"results"`
		Chunks      []models.Chunk         `json:"chunks"`
		Explanation *models.Explanation    `json:"explanation"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if decoded.RunID != "run-1" || len(decoded.Results) != 2 {
		t.Errorf("decoded: %+v", decoded)
	}
	if decoded.Chunks != nil {
		t.Error("chunks should not be part of the JSON output")
	}
	if decoded.Explanation == nil || decoded.Explanation.Text != "fits" {
		t.Errorf("explanation: %+v", decoded.Explanation)
	}
	if strings.Contains(buf.String(), "Best matching job") {
		t.Error("JSON output should not include the text summary")
	}
}

func TestWriteExplanation(t *testing.T) {
	job := &models.RankedResult{Title: "Graduate Developer", Score: 0.7}
	tests := []struct {
		name string
		expl *models.Explanation
		want []string
	}{
		{
			name: "generated",
			expl: &models.Explanation{Job: job, Text: "Python matches."},
			want: []string{
				"Best matching job: Graduate Developer\n",
				"Company: Company info not provided in job ad\n",
				"Relevance score: 0.700\n",
				"Python matches.",
			},
		},
		{
			name: "failed",
			expl: &models.Explanation{Job: job, Text: "explanation generation failed: timeout", Failed: true},
			want: []string{"explanation generation failed: timeout"},
		},
		{
			name: "evidence only",
			expl: &models.Explanation{Job: job, Chunks: []string{"first", "second"}},
			want: []string{"Evidence (2 chunks):", "[Chunk 1]\nfirst", "[Chunk 2]\nsecond"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			WriteExplanation(&buf, tt.expl)
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("missing %q in:\n%s", want, buf.String())
				}
			}
		})
	}
}

func TestWriteExplanation_NoJob(t *testing.T) {
	var buf bytes.Buffer
	WriteExplanation(&buf, &models.Explanation{Text: "x"})
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}
