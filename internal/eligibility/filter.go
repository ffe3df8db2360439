// Package eligibility applies hard seniority, work-rights, and government/clearance rules to jobs.
package eligibility

import (
	"strings"

	"github.com/hyperjump/jobfit/internal/config"
	"github.com/hyperjump/jobfit/internal/models"
)

// Reasons reported when a check fails.
const (
	ReasonSeniorJob         = "Senior job"
	ReasonCitizen           = "Australian citizen required"
	ReasonPermanentResident = "Permanent resident required"
	ReasonNoSponsorship     = "No visa sponsorship"
	ReasonGovernment        = "Government / clearance role"
)

// Default rule terms. All matching is case-insensitive substring matching.
var (
	DefaultSeniorTerms              = []string{"senior", "lead", "principal"}
	DefaultCitizenPhrases           = []string{"citizen"}
	DefaultPermanentResidentPhrases = []string{"permanent resident", "pr only"}
	DefaultNoSponsorshipPhrases     = []string{"sponsorship not available", "no visa sponsorship", "no sponsorship"}
	DefaultGovernmentKeywords       = []string{
		"federal government",
		"government role",
		"department",
		"aps",
		"defence",
		"nv1",
		"nv2",
		"baseline clearance",
	}
)

// Filter evaluates jobs for one candidate level. It holds no mutable state and is safe
// for concurrent use.
type Filter struct {
	junior            bool
	seniorTerms       []string
	citizen           []string
	permanentResident []string
	noSponsorship     []string
	government        []string
}

// NewFilter creates a filter for profile using cfg's terms; empty term lists fall back to the defaults.
// cfg may be nil.
func NewFilter(profile models.Profile, cfg *config.EligibilityConfig) *Filter {
	if cfg == nil {
		cfg = &config.EligibilityConfig{}
	}
	return &Filter{
		junior:            profile.IsJunior(),
		seniorTerms:       terms(cfg.SeniorTerms, DefaultSeniorTerms),
		citizen:           terms(cfg.CitizenPhrases, DefaultCitizenPhrases),
		permanentResident: terms(cfg.PermanentResidentPhrases, DefaultPermanentResidentPhrases),
		noSponsorship:     terms(cfg.NoSponsorshipPhrases, DefaultNoSponsorshipPhrases),
		government:        terms(cfg.GovernmentKeywords, DefaultGovernmentKeywords),
	}
}

func terms(configured, defaults []string) []string {
	src := configured
	if len(src) == 0 {
		src = defaults
	}
	out := make([]string, 0, len(src))
	for _, t := range src {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Evaluate runs every check against job and collects reasons in check order
// (seniority, work rights, government). The job is eligible iff no check fails.
func (f *Filter) Evaluate(job *models.JobRecord) models.EligibilityDecision {
	var reasons []string
	if f.IsSeniorMismatch(job.Title) {
		reasons = append(reasons, ReasonSeniorJob)
	}
	workRights := f.WorkRightsReason(job.WorkRightsRequirement)
	if workRights != "" {
		reasons = append(reasons, workRights)
	}
	if f.IsGovernmentRole(job.Title + " " + job.Description) {
		reasons = append(reasons, ReasonGovernment)
	}
	return models.NewEligibilityDecision(reasons, workRights)
}

// IsSeniorMismatch reports whether a junior candidate is looking at a senior title.
func (f *Filter) IsSeniorMismatch(title string) bool {
	return f.junior && containsAny(title, f.seniorTerms)
}

// WorkRightsReason returns the first failing work-rights reason for text, or "" when applicable.
// Citizenship is checked before permanent residency, then sponsorship.
func (f *Filter) WorkRightsReason(text string) string {
	switch {
	case containsAny(text, f.citizen):
		return ReasonCitizen
	case containsAny(text, f.permanentResident):
		return ReasonPermanentResident
	case containsAny(text, f.noSponsorship):
		return ReasonNoSponsorship
	default:
		return ""
	}
}

// IsGovernmentRole reports whether text mentions any government or clearance keyword.
func (f *Filter) IsGovernmentRole(text string) bool {
	return containsAny(text, f.government)
}

func containsAny(text string, lowerTerms []string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(text)
	for _, t := range lowerTerms {
		if strings.Contains(lower, t) {
			return true
		}
	}
	return false
}
