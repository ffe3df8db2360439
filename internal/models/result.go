package models

import "strings"

// Decision strings reported to users.
const (
	DecisionApply         = "Apply"
	WorkRightsApplicable  = "Applicable!"
	notApplicablePrefix   = "Not applicable ("
	notApplicableSuffix   = ")"
	decisionReasonJoinSep = " + "
)

// EligibilityDecision is the outcome of the eligibility checks for one job.
// Reasons are ordered by check: seniority, work rights, government.
type EligibilityDecision struct {
	Eligible   bool     `json:"eligible"`
	Reasons    []string `json:"reasons,omitempty"`
	WorkRights string   `json:"work_rights"`
}

// NewEligibilityDecision builds a decision from the collected reasons and the work-rights reason
// ("" when work rights are applicable). Eligible is true iff reasons is empty.
func NewEligibilityDecision(reasons []string, workRightsReason string) EligibilityDecision {
	d := EligibilityDecision{
		Eligible:   len(reasons) == 0,
		Reasons:    reasons,
		WorkRights: WorkRightsApplicable,
	}
	if workRightsReason != "" {
		d.WorkRights = NotApplicable(workRightsReason)
	}
	return d
}

// String returns "Apply" or "Not applicable (<r1> + <r2> ...)".
func (d EligibilityDecision) String() string {
	if d.Eligible {
		return DecisionApply
	}
	return NotApplicable(strings.Join(d.Reasons, decisionReasonJoinSep))
}

// NotApplicable wraps a reason in the "Not applicable (...)" form.
func NotApplicable(reason string) string {
	return notApplicablePrefix + reason + notApplicableSuffix
}

// RankedResult is the per-job match outcome.
type RankedResult struct {
	Rank        int                 `json:"rank"`
	JobKey      string              `json:"job_key"`
	JobIndex    int                 `json:"job_index"`
	JobID       string              `json:"job_id"`
	Title       string              `json:"job_title"`
	Company     string              `json:"company_name"`
	Location    string              `json:"job_location"`
	Score       float64             `json:"profile_to_job_semantic_relevance"`
	Eligibility EligibilityDecision `json:"eligibility"`
	Decision    string              `json:"decision"`
}

// MatchResponse is everything one run produces: enough to render results and rebuild
// an explanation context without recomputation.
type MatchResponse struct {
	RunID     string          `json:"run_id"`
	Profile   Profile         `json:"profile"`
	Results   []*RankedResult `json:"results"`
	Jobs      []JobRecord     `json:"jobs"`
	Chunks    []Chunk         `json:"chunks"`
	Hits      []Hit           `json:"hits"`
	QueryTime int64           `json:"query_time_ms"`
}

// BestEligible returns the first eligible result in rank order, or nil.
func (r *MatchResponse) BestEligible() *RankedResult {
	for _, res := range r.Results {
		if res.Eligibility.Eligible {
			return res
		}
	}
	return nil
}

// Explanation is the grounded explanation for the best eligible job.
// When generation fails, Text holds the error message and Failed is set.
type Explanation struct {
	Job    *RankedResult `json:"job"`
	Chunks []string      `json:"chunks"`
	Text   string        `json:"text"`
	Failed bool          `json:"failed,omitempty"`
}
