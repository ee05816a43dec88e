package rag

import (
	"context"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultTopK is the number of chunks retrieved per question
const DefaultTopK = 3

// Pipeline answers questions from the vector store. The store is read on
// first use and kept in memory until the file's modification time or size
// changes; a failed load is retried on the next question.
type Pipeline struct {
	storePath string
	embedder  Embedder
	generator Generator
	topK      int
	logger    *zap.Logger

	mu       sync.Mutex
	index    *Index
	modTime  time.Time
	fileSize int64
}

// NewPipeline creates a Pipeline reading rows from storePath
func NewPipeline(storePath string, embedder Embedder, generator Generator, topK int, logger *zap.Logger) *Pipeline {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{
		storePath: storePath,
		embedder:  embedder,
		generator: generator,
		topK:      topK,
		logger:    logger,
	}
}

func (p *Pipeline) loadIndex(ctx context.Context) (*Index, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	info, err := os.Stat(p.storePath)
	if err == nil && p.index != nil && info.ModTime().Equal(p.modTime) && info.Size() == p.fileSize {
		return p.index, nil
	}
	p.index = nil

	rows, err := LoadRows(p.storePath)
	if err != nil {
		return nil, err
	}
	index, err := NewIndex(ctx, rows, p.embedder)
	if err != nil {
		return nil, err
	}

	p.logger.Info("vector store loaded",
		zap.String("path", p.storePath),
		zap.Int("chunks", index.Len()))
	p.index = index
	if info != nil {
		p.modTime = info.ModTime()
		p.fileSize = info.Size()
	}
	return index, nil
}

// Answer retrieves the chunks closest to question and generates a
// grounded answer from them. Hit scores are rounded to four decimals.
func (p *Pipeline) Answer(ctx context.Context, question string) (string, []Hit, error) {
	index, err := p.loadIndex(ctx)
	if err != nil {
		return "", nil, err
	}

	hits, err := index.Search(ctx, question, p.topK)
	if err != nil {
		return "", nil, err
	}

	answer, err := p.generator.Generate(ctx, BuildPrompt(question, hits))
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate answer: %w", err)
	}

	for i := range hits {
		hits[i].Score = roundScore(hits[i].Score)
	}
	return answer, hits, nil
}

func roundScore(score float64) float64 {
	return math.Round(score*1e4) / 1e4
}
