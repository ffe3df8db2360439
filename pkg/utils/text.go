// Package utils provides shared utilities for text, math, and logging.
package utils

import "strings"

// Truncate returns s truncated to maxLen characters, with "..." appended if truncated.
// If maxLen is 0 or negative, returns s unchanged.
func Truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	return string(runes[:maxLen]) + "..."
}

// TruncateForLog trims s and truncates it to limit characters for log previews.
// A limit <= 0 returns "".
func TruncateForLog(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	return Truncate(strings.TrimSpace(s), limit)
}
