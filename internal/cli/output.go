// Package cli provides result rendering for the jobfit command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hyperjump/jobfit/internal/models"
	"github.com/hyperjump/jobfit/internal/retrieval"
	"github.com/hyperjump/jobfit/pkg/utils"
)

// OutputFormat is the format for match result output.
type OutputFormat string

const (
	// OutputText is the human-readable block per job (default).
	OutputText OutputFormat = "text"
	// OutputCompact is one line per job.
	OutputCompact OutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON OutputFormat = "json"
)

const compactTitleWidth = 60

// ParseOutputFormat validates a --output flag value.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputText, OutputCompact, OutputJSON:
		return f, nil
	case "":
		return OutputText, nil
	default:
		return "", fmt.Errorf("unknown output format %q (supported: text, compact, json)", s)
	}
}

// jsonOutput is the JSON document written for OutputJSON. Chunks and hits stay internal.
type jsonOutput struct {
	RunID       string                 `json:"run_id"`
	Profile     models.Profile         `json:"profile"`
	QueryTime   int64                  `json:"query_time_ms"`
	Results     []*models.RankedResult `json:"results"`
	Explanation *models.Explanation    `json:"explanation,omitempty"`
}

// WriteMatchResults writes ranked results and, when expl is non-nil, the explanation to w.
func WriteMatchResults(w io.Writer, resp *models.MatchResponse, expl *models.Explanation, format OutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(jsonOutput{
			RunID:       resp.RunID,
			Profile:     resp.Profile,
			QueryTime:   resp.QueryTime,
			Results:     resp.Results,
			Explanation: expl,
		})
	case OutputCompact:
		writeCompact(w, resp)
	default:
		writeText(w, resp)
	}
	if expl != nil {
		WriteExplanation(w, expl)
	}
	return nil
}

func writeText(w io.Writer, resp *models.MatchResponse) {
	fmt.Fprintf(w, "\nJob matches (%d in %dms):\n\n", len(resp.Results), resp.QueryTime)
	for _, r := range resp.Results {
		fmt.Fprintln(w, "----")
		fmt.Fprintf(w, "Job ID: %s\n", r.JobID)
		fmt.Fprintf(w, "Title: %s\n", r.Title)
		fmt.Fprintf(w, "Company: %s\n", r.Company)
		fmt.Fprintf(w, "Location: %s\n", r.Location)
		fmt.Fprintf(w, "profile_to_job_semantic_relevance: %s\n", retrieval.FormatScore(r.Score))
		fmt.Fprintf(w, "Decision: %s\n", r.Decision)
		fmt.Fprintf(w, "Work rights: %s\n", r.Eligibility.WorkRights)
	}
}

func writeCompact(w io.Writer, resp *models.MatchResponse) {
	for _, r := range resp.Results {
		title := r.Title
		if r.Company != "" {
			title += " @ " + r.Company
		}
		fmt.Fprintf(w, "%3d  %s  %-5s  %s\n",
			r.Rank, retrieval.FormatScore(r.Score), mark(r.Eligibility.Eligible),
			utils.Truncate(title, compactTitleWidth))
	}
}

func mark(eligible bool) string {
	if eligible {
		return "apply"
	}
	return "skip"
}

// WriteExplanation writes the best-match summary header followed by the explanation text.
func WriteExplanation(w io.Writer, expl *models.Explanation) {
	if expl.Job == nil {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Best matching job: %s\n", expl.Job.Title)
	fmt.Fprintf(w, "Company: %s\n", retrieval.CompanyOrDefault(expl.Job.Company))
	fmt.Fprintf(w, "Relevance score: %s\n\n", retrieval.FormatScore(expl.Job.Score))
	if expl.Text == "" {
		fmt.Fprintf(w, "Evidence (%d chunks):\n", len(expl.Chunks))
		for i, c := range expl.Chunks {
			fmt.Fprintf(w, "[Chunk %d]\n%s\n\n", i+1, c)
		}
		return
	}
	fmt.Fprintln(w, expl.Text)
}
