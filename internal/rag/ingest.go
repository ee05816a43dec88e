package rag

import (
	"context"
	"fmt"
)

// Ingest chunks every document and embeds each chunk. Chunk identifiers
// are "<doc id>-chunk-<n>", numbered from 1 within each document.
func Ingest(ctx context.Context, docs []Doc, embedder Embedder, size, overlap int) ([]Row, error) {
	var rows []Row
	for _, doc := range docs {
		chunks, err := ChunkText(doc.Content, size, overlap)
		if err != nil {
			return nil, fmt.Errorf("failed to chunk %s: %w", doc.ID, err)
		}

		for i, chunk := range chunks {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			vec, err := embedder.Embed(ctx, chunk)
			if err != nil {
				return nil, fmt.Errorf("failed to embed %s: %w", doc.ID, err)
			}

			rows = append(rows, Row{
				DocID:     doc.ID,
				Title:     doc.Title,
				ChunkID:   fmt.Sprintf("%s-chunk-%d", doc.ID, i+1),
				Content:   chunk,
				Embedding: vec,
			})
		}
	}
	return rows, nil
}
