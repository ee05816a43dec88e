package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"google.golang.org/genai"

	"github.com/diogo/ragchat/internal/config"
	"github.com/diogo/ragchat/internal/models"
)

// SystemPrompt frames model-generated answers
const SystemPrompt = "You are a grounded assistant."

// FallbackGeneration is returned when no model provider is configured
const FallbackGeneration = "I used retrieved policy context only. " +
	"Configure OPENAI_API_KEY or GEMINI_API_KEY for model-generated responses."

// Generator produces an answer for an augmented prompt
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// FallbackGenerator answers with a fixed notice
type FallbackGenerator struct{}

// Generate implements Generator
func (FallbackGenerator) Generate(context.Context, string) (string, error) {
	return FallbackGeneration, nil
}

// LLMGenerator generates through any langchaingo model
type LLMGenerator struct {
	llm llms.Model
}

// NewLLMGenerator wraps llm
func NewLLMGenerator(llm llms.Model) *LLMGenerator {
	return &LLMGenerator{llm: llm}
}

// NewOpenAIGenerator creates a generator backed by the OpenAI chat API
func NewOpenAIGenerator(apiKey, model string) (*LLMGenerator, error) {
	llm, err := openai.New(
		openai.WithToken(apiKey),
		openai.WithModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}
	return NewLLMGenerator(llm), nil
}

// Generate implements Generator. An empty completion becomes the
// fallback answer.
func (g *LLMGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, prompt),
	}

	resp, err := g.llm.GenerateContent(ctx, messages, llms.WithTemperature(0))
	if err != nil {
		return "", fmt.Errorf("generation failed: %w", err)
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
		return models.FallbackAnswer, nil
	}
	return resp.Choices[0].Content, nil
}

// GeminiGenerator generates through the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// NewGeminiGenerator creates a generator for model
func NewGeminiGenerator(ctx context.Context, apiKey, model string) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Generate implements Generator
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("Gemini generation failed: %w", err)
	}
	return result.Text(), nil
}

// NewGenerator picks the configured model provider. A provider whose API
// key is missing falls back to FallbackGenerator.
func NewGenerator(ctx context.Context, cfg config.ServerConfig) (Generator, error) {
	switch strings.ToLower(cfg.LLMProvider) {
	case ProviderOpenAI:
		if cfg.OpenAIAPIKey != "" {
			return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIChatModel)
		}
	case ProviderGemini:
		if cfg.GeminiAPIKey != "" {
			return NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiChatModel)
		}
	}
	return FallbackGenerator{}, nil
}
