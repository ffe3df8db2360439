// Package retrieval gathers a job's top evidence chunks and renders them as a citation block.
package retrieval

import (
	"fmt"
	"strings"

	"github.com/hyperjump/jobfit/internal/models"
)

// DefaultTopK is the number of evidence chunks gathered per job.
const DefaultTopK = 5

// MissingCompany is shown when a job ad has no company name.
const MissingCompany = "Company info not provided in job ad"

// Assemble re-scans hits in index order and returns the contents of the first topK chunks
// owned by jobKey. Fewer are returned when the job has fewer chunks. topK <= 0 uses DefaultTopK.
func Assemble(jobKey string, hits []models.Hit, chunks []models.Chunk, topK int) []string {
	if topK <= 0 {
		topK = DefaultTopK
	}
	out := make([]string, 0, topK)
	for _, hit := range hits {
		if len(out) >= topK {
			break
		}
		if hit.ChunkIndex < 0 || hit.ChunkIndex >= len(chunks) {
			continue
		}
		if ch := chunks[hit.ChunkIndex]; ch.JobKey == jobKey {
			out = append(out, ch.Content)
		}
	}
	return out
}

// CompanyOrDefault returns company, or MissingCompany when it is blank.
func CompanyOrDefault(company string) string {
	if strings.TrimSpace(company) == "" {
		return MissingCompany
	}
	return company
}

// FormatScore renders a relevance score with three decimals.
func FormatScore(score float64) string {
	return fmt.Sprintf("%.3f", score)
}

// BuildContext renders the job header and its evidence chunks labeled [Chunk 1]..[Chunk N].
func BuildContext(result *models.RankedResult, chunks []string) string {
	var b strings.Builder
	b.WriteString("Job title: " + result.Title + "\n")
	b.WriteString("Company: " + CompanyOrDefault(result.Company) + "\n")
	b.WriteString("Decision: " + result.Decision + "\n")
	b.WriteString("Relevance score: " + FormatScore(result.Score) + "\n\n")
	b.WriteString("Retrieved job chunks:\n")
	for i, ch := range chunks {
		fmt.Fprintf(&b, "[Chunk %d]\n%s\n\n", i+1, ch)
	}
	return b.String()
}
