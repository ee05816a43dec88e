package rag

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	chromem "github.com/philippgille/chromem-go"
)

const collectionName = "policies"

// Hit is a chunk returned by Search with its similarity to the query
type Hit struct {
	ChunkID string
	DocID   string
	Title   string
	Content string
	Score   float64
}

// Index is an in-memory vector index over vector store rows
type Index struct {
	embedder   Embedder
	collection *chromem.Collection
}

// NewIndex loads rows into a fresh collection. Rows carry their own
// embeddings; embedder is only used for queries. Documents are keyed by
// row position so rows sharing a chunk id are all kept.
func NewIndex(ctx context.Context, rows []Row, embedder Embedder) (*Index, error) {
	db := chromem.NewDB()

	embed := func(ctx context.Context, text string) ([]float32, error) {
		return embedder.Embed(ctx, text)
	}
	collection, err := db.CreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	if len(rows) > 0 {
		docs := make([]chromem.Document, len(rows))
		for i, row := range rows {
			docs[i] = chromem.Document{
				ID:      strconv.Itoa(i),
				Content: row.Content,
				Metadata: map[string]string{
					"chunk_id": row.ChunkID,
					"doc_id":   row.DocID,
					"title":    row.Title,
				},
				Embedding: row.Embedding,
			}
		}
		if err := collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
			return nil, fmt.Errorf("failed to index rows: %w", err)
		}
	}

	return &Index{embedder: embedder, collection: collection}, nil
}

// Len returns the number of indexed chunks
func (idx *Index) Len() int {
	return idx.collection.Count()
}

// Search returns up to k chunks most similar to question, best first.
// Scores are recomputed in float64 from the stored vectors.
func (idx *Index) Search(ctx context.Context, question string, k int) ([]Hit, error) {
	if k > idx.Len() {
		k = idx.Len()
	}
	if k <= 0 {
		return nil, nil
	}

	query, err := idx.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w", err)
	}

	results, err := idx.collection.QueryEmbedding(ctx, query, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("vector query failed: %w", err)
	}

	hits := make([]Hit, len(results))
	for i, r := range results {
		hits[i] = Hit{
			ChunkID: r.Metadata["chunk_id"],
			DocID:   r.Metadata["doc_id"],
			Title:   r.Metadata["title"],
			Content: r.Content,
			Score:   CosineSimilarity(query, r.Embedding),
		}
	}
	return hits, nil
}
