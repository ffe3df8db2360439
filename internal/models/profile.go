package models

import "strings"

// LevelJunior is the candidate level that excludes senior roles.
const LevelJunior = "junior"

// Profile is the candidate being matched.
type Profile struct {
	Skills []string `json:"skills" yaml:"skills"`
	Level  string   `json:"level" yaml:"level"`
}

// Text returns the text embedded for the profile.
func (p Profile) Text() string {
	return "skills: " + strings.Join(p.Skills, " ") + ". level: " + p.Level
}

// IsJunior reports whether the profile level is junior (case-insensitive).
func (p Profile) IsJunior() bool {
	return strings.EqualFold(strings.TrimSpace(p.Level), LevelJunior)
}
