// Package indexer provides job text chunking and vector index construction.
package indexer

import (
	"errors"
	"fmt"
)

// ErrInvalidConfiguration is returned when the chunk step (size - overlap) is not positive.
var ErrInvalidConfiguration = errors.New("invalid chunk configuration")

// Chunker splits text into overlapping fixed-size character windows.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in characters).
// Requires size > overlap >= 0.
func NewChunker(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkOverlap < 0 || chunkSize-chunkOverlap <= 0 {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidConfiguration, chunkSize, chunkOverlap)
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

// Chunk collapses whitespace in text and returns windows of chunkSize characters starting at
// 0, step, 2*step, ... while the start is inside the text. The last window may be shorter.
func (c *Chunker) Chunk(text string) []string {
	runes := []rune(Preprocess(text))
	if len(runes) == 0 {
		return nil
	}
	step := c.chunkSize - c.chunkOverlap
	chunks := make([]string, 0, len(runes)/step+1)
	for i := 0; i < len(runes); i += step {
		end := i + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}

// Chunk is a convenience wrapper for NewChunker(size, overlap).Chunk(text).
func Chunk(text string, size, overlap int) ([]string, error) {
	c, err := NewChunker(size, overlap)
	if err != nil {
		return nil, err
	}
	return c.Chunk(text), nil
}
