// Package rag implements retrieval-augmented answering: chunking,
// embedding, vector search over ingested policy documents, prompt
// assembly and answer generation.
package rag

import (
	"errors"
	"strings"
)

// Chunking defaults
const (
	DefaultChunkSize    = 300
	DefaultChunkOverlap = 50
)

// ErrInvalidOverlap is returned when the overlap would stall chunking
var ErrInvalidOverlap = errors.New("overlap must be smaller than chunk size")

// ChunkText splits text into windows of size words, each sharing overlap
// words with the previous one. The last window ends at the final word.
// Whitespace-only text yields no chunks.
func ChunkText(text string, size, overlap int) ([]string, error) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, ErrInvalidOverlap
	}

	var chunks []string
	start := 0
	for start < len(words) {
		end := start + size
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
		start = end - overlap
	}
	return chunks, nil
}
