// Package models defines core data structures for jobs, chunks, hits, and match results.
package models

import "strings"

// JobRecord is one job posting as supplied by a job source.
// Optional fields are normalized to "" at the ingestion boundary.
type JobRecord struct {
	ID                    string `json:"job_id" db:"job_id"`
	Title                 string `json:"job_title" db:"job_title"`
	Description           string `json:"job_description" db:"job_description"`
	Company               string `json:"company_name" db:"company_name"`
	Location              string `json:"job_location" db:"job_location"`
	WorkRightsRequirement string `json:"work_rights_requirement" db:"work_rights_requirement"`
}

// jobKeySeparator joins title and company when a job has no identifier.
const jobKeySeparator = "||"

// Key returns the job identity used for chunk grouping and result deduplication:
// the identifier when present, otherwise title and company joined by "||".
func (j *JobRecord) Key() string {
	if id := strings.TrimSpace(j.ID); id != "" {
		return id
	}
	return j.Title + jobKeySeparator + j.Company
}

// Text returns the text that is chunked and embedded for the job.
func (j *JobRecord) Text() string {
	return j.Title + " " + j.Description + " " + j.WorkRightsRequirement
}

// Normalize trims surrounding whitespace from every field.
func (j *JobRecord) Normalize() {
	j.ID = strings.TrimSpace(j.ID)
	j.Title = strings.TrimSpace(j.Title)
	j.Description = strings.TrimSpace(j.Description)
	j.Company = strings.TrimSpace(j.Company)
	j.Location = strings.TrimSpace(j.Location)
	j.WorkRightsRequirement = strings.TrimSpace(j.WorkRightsRequirement)
}

// Chunk is a window of a job's text, used as the unit of embedding and retrieval.
type Chunk struct {
	Index    int    `json:"index"`
	JobKey   string `json:"job_key"`
	JobIndex int    `json:"job_index"` // position of the owning job in MatchResponse.Jobs
	Position int    `json:"position"`  // position of the chunk within its job
	Content  string `json:"content"`
}

// Hit is a single nearest-neighbor result: a chunk index and its similarity to the query.
type Hit struct {
	ChunkIndex int     `json:"chunk_index"`
	Score      float64 `json:"score"`
}
