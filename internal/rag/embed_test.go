package rag

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/diogo/ragchat/internal/config"
)

func TestFallbackEmbedding(t *testing.T) {
	vec := FallbackEmbedding("refund policy", FallbackDimensions)

	require.Len(t, vec, 128)
	for _, v := range vec {
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.LessOrEqual(t, v, float32(1))
	}

	// The 32-byte digest repeats across the vector
	assert.Equal(t, vec[0], vec[32])
	assert.Equal(t, vec[5], vec[101])

	assert.Equal(t, vec, FallbackEmbedding("refund policy", FallbackDimensions), "deterministic")
	assert.NotEqual(t, vec, FallbackEmbedding("housing policy", FallbackDimensions))
}

func TestFallbackEmbedding_KnownValue(t *testing.T) {
	// sha256("") starts with 0xe3
	vec := FallbackEmbedding("", 4)
	assert.InDelta(t, (227.0/255.0)*2-1, vec[0], 1e-6)
}

func TestFallbackEmbedder(t *testing.T) {
	vec, err := FallbackEmbedder{}.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, vec, FallbackDimensions)

	vec, err = FallbackEmbedder{Dimensions: 16}.Embed(context.Background(), "x")
	require.NoError(t, err)
	assert.Len(t, vec, 16)
}

func TestNewEmbedder_FallsBackWithoutKeys(t *testing.T) {
	for _, provider := range []string{"", "fallback", "openai", "gemini", "OPENAI", "unknown"} {
		cfg := config.DefaultServerConfig()
		cfg.EmbeddingProvider = provider

		embedder, err := NewEmbedder(context.Background(), cfg)
		require.NoError(t, err)
		assert.IsType(t, FallbackEmbedder{}, embedder, "provider %q", provider)
	}
}

func TestNewEmbedder_OpenAI(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.EmbeddingProvider = "openai"
	cfg.OpenAIAPIKey = "sk-test"

	embedder, err := NewEmbedder(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &OpenAIEmbedder{}, embedder)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 1}, []float32{-1, -1}, -1},
		{"scaled", []float32{1, 0}, []float32{5, 0}, 1},
		{"zero vector", []float32{0, 0}, []float32{1, 1}, 0},
		{"length mismatch", []float32{1}, []float32{1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CosineSimilarity(tt.a, tt.b), 1e-9)
		})
	}
}

func TestGeminiEmbedder_Responses(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    []float32
		wantErr string
	}{
		{"values", `{"embeddings":[{"values":[0.5,-0.25]}]}`, []float32{0.5, -0.25}, ""},
		{"no embeddings", `{}`, nil, "Gemini returned no embeddings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				path = r.URL.Path
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
				APIKey:      "test-key",
				Backend:     genai.BackendGeminiAPI,
				HTTPOptions: genai.HTTPOptions{BaseURL: srv.URL + "/"},
			})
			require.NoError(t, err)
			embedder := &GeminiEmbedder{client: client, model: "text-embedding-004"}

			got, err := embedder.Embed(context.Background(), "refund policy")
			if tt.wantErr != "" {
				require.EqualError(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, strings.HasSuffix(path, "text-embedding-004:batchEmbedContents"), path)
		})
	}
}
