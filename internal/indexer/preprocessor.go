package indexer

import "strings"

// Preprocess trims text and collapses every run of Unicode whitespace (newlines, tabs,
// no-break spaces) into a single space. Chunk windows are measured on the result.
func Preprocess(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
