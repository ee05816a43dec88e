package rag

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/genai"

	"github.com/diogo/ragchat/internal/config"
)

// Provider names accepted by llm_provider and embedding_provider
const (
	ProviderFallback = "fallback"
	ProviderOpenAI   = "openai"
	ProviderGemini   = "gemini"
)

// FallbackDimensions is the size of vectors from FallbackEmbedder
const FallbackDimensions = 128

// Embedder turns text into a vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// FallbackEmbedder derives a deterministic vector from the SHA-256 digest
// of the text. It needs no credentials and carries no meaning beyond
// exact-match similarity.
type FallbackEmbedder struct {
	Dimensions int
}

// Embed implements Embedder
func (e FallbackEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	dim := e.Dimensions
	if dim <= 0 {
		dim = FallbackDimensions
	}
	return FallbackEmbedding(text, dim), nil
}

// FallbackEmbedding repeats the digest bytes to dim values, each mapped
// from [0, 255] onto [-1, 1].
func FallbackEmbedding(text string, dim int) []float32 {
	digest := sha256.Sum256([]byte(text))
	out := make([]float32, dim)
	for i := range out {
		b := digest[i%len(digest)]
		out[i] = float32((float64(b)/255.0)*2 - 1)
	}
	return out
}

// OpenAIEmbedder embeds through the OpenAI embeddings API
type OpenAIEmbedder struct {
	embedder embeddings.Embedder
}

// NewOpenAIEmbedder creates an embedder for model
func NewOpenAIEmbedder(apiKey, model string) (*OpenAIEmbedder, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithEmbeddingModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	embedder, err := embeddings.NewEmbedder(llm)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI embedder: %w", err)
	}
	return &OpenAIEmbedder{embedder: embedder}, nil
}

// Embed implements Embedder
func (e *OpenAIEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := e.embedder.EmbedQuery(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("OpenAI embed failed: %w", err)
	}
	return vec, nil
}

// GeminiEmbedder embeds through the Gemini API
type GeminiEmbedder struct {
	client *genai.Client
	model  string
}

// NewGeminiEmbedder creates an embedder for model
func NewGeminiEmbedder(ctx context.Context, apiKey, model string) (*GeminiEmbedder, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiEmbedder{client: client, model: strings.TrimPrefix(model, "models/")}, nil
}

// Embed implements Embedder
func (e *GeminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(text, genai.RoleUser),
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("Gemini embed failed: %w", err)
	}
	if len(result.Embeddings) == 0 {
		return nil, errors.New("Gemini returned no embeddings")
	}
	return result.Embeddings[0].Values, nil
}

// NewEmbedder picks the configured embedding provider. A provider whose
// API key is missing falls back to FallbackEmbedder.
func NewEmbedder(ctx context.Context, cfg config.ServerConfig) (Embedder, error) {
	switch strings.ToLower(cfg.EmbeddingProvider) {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey != "" {
			return NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.OpenAIEmbedModel)
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey != "" {
			return NewGeminiEmbedder(ctx, cfg.GeminiAPIKey, cfg.GeminiEmbedModel)
		}
	}
	return FallbackEmbedder{Dimensions: FallbackDimensions}, nil
}
