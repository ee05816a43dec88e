package api

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"

	apierrors "github.com/diogo/ragchat/internal/errors"
	"github.com/diogo/ragchat/internal/models"
)

func newTestClient(t *testing.T, mock *MockHttpClient, opts ...ClientOption) *Client {
	t.Helper()
	opts = append([]ClientOption{WithHTTPClient(mock), WithBaseURL("http://rag.test")}, opts...)
	client, err := NewClient(opts...)
	if err != nil {
		t.Fatalf("NewClient() error: %v", err)
	}
	return client
}

func TestNewClient(t *testing.T) {
	tests := []struct {
		name        string
		opts        []ClientOption
		wantBaseURL string
		wantTimeout time.Duration
	}{
		{
			name:        "defaults",
			wantBaseURL: models.DefaultBaseURL,
			wantTimeout: 0,
		},
		{
			name:        "custom base URL and timeout",
			opts:        []ClientOption{WithBaseURL("http://rag.example:9000"), WithTimeout(5 * time.Second)},
			wantBaseURL: "http://rag.example:9000",
			wantTimeout: 5 * time.Second,
		},
		{
			name:        "empty base URL keeps default",
			opts:        []ClientOption{WithBaseURL("")},
			wantBaseURL: models.DefaultBaseURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.opts...)
			if err != nil {
				t.Fatalf("NewClient() error: %v", err)
			}
			defer client.Close()

			if client.BaseURL() != tt.wantBaseURL {
				t.Errorf("BaseURL() = %s, want %s", client.BaseURL(), tt.wantBaseURL)
			}
			if client.Timeout() != tt.wantTimeout {
				t.Errorf("Timeout() = %v, want %v", client.Timeout(), tt.wantTimeout)
			}
			if client.httpClient == nil {
				t.Error("httpClient should be initialized")
			}
		})
	}
}

func TestCreateSession(t *testing.T) {
	tests := []struct {
		name      string
		mock      *MockHttpClient
		want      string
		wantErr   bool
		checkErr  func(error) bool
		errString string
	}{
		{
			name: "success",
			mock: NewMockHttpClient([]byte(`{"session_id":"abc123"}`), 200),
			want: "abc123",
		},
		{
			name:     "network error",
			mock:     NewMockHttpClientWithError(errors.New("connection refused")),
			wantErr:  true,
			checkErr: apierrors.IsNetworkError,
		},
		{
			name:     "non-JSON body",
			mock:     NewMockHttpClient([]byte(`<html>oops</html>`), 200),
			wantErr:  true,
			checkErr: apierrors.IsParseError,
		},
		{
			name:     "missing session_id",
			mock:     NewMockHttpClient([]byte(`{"id":"abc"}`), 200),
			wantErr:  true,
			checkErr: apierrors.IsParseError,
		},
		{
			name:     "JSON array body",
			mock:     NewMockHttpClient([]byte(`["abc123"]`), 200),
			wantErr:  true,
			checkErr: apierrors.IsParseError,
		},
		{
			name:    "server error",
			mock:    NewMockHttpClient([]byte(`{"detail":"boom"}`), 500),
			wantErr: true,
			checkErr: func(err error) bool {
				return apierrors.GetHTTPStatus(err) == 500
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, tt.mock)

			got, err := client.CreateSession(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("CreateSession() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.checkErr != nil && !tt.checkErr(err) {
				t.Errorf("CreateSession() error = %v has unexpected type", err)
			}
			if got != tt.want {
				t.Errorf("CreateSession() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCreateSession_Request(t *testing.T) {
	mock := NewMockHttpClient([]byte(`{"session_id":"abc123"}`), 200)
	client := newTestClient(t, mock, WithBaseURL("http://rag.test/"))

	if _, err := client.CreateSession(context.Background()); err != nil {
		t.Fatalf("CreateSession() error: %v", err)
	}

	if mock.LastReq.Method != fhttp.MethodGet {
		t.Errorf("method = %s, want GET", mock.LastReq.Method)
	}
	if got := mock.LastReq.URL.String(); got != "http://rag.test/api/session" {
		t.Errorf("url = %s", got)
	}
}

func TestAsk(t *testing.T) {
	body := `{"answer":"Refunds are processed within 30 days.","top_chunks":[` +
		`{"chunk_id":"refund-chunk-1","title":"Refund Policy","content":"Refunds...","score":0.9132}]}`
	mock := NewMockHttpClient([]byte(body), 200)
	client := newTestClient(t, mock)

	resp, err := client.Ask(context.Background(), "abc123", "What is the refund policy?")
	if err != nil {
		t.Fatalf("Ask() error: %v", err)
	}

	if resp.Answer != "Refunds are processed within 30 days." {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if len(resp.TopChunks) != 1 {
		t.Fatalf("TopChunks len = %d, want 1", len(resp.TopChunks))
	}
	chunk := resp.TopChunks[0]
	if chunk.ChunkID != "refund-chunk-1" || chunk.Title != "Refund Policy" || chunk.Score != 0.9132 {
		t.Errorf("chunk = %+v", chunk)
	}

	// Request shape
	if mock.LastReq.Method != fhttp.MethodPost {
		t.Errorf("method = %s, want POST", mock.LastReq.Method)
	}
	if got := mock.LastReq.URL.String(); got != "http://rag.test/api/chat" {
		t.Errorf("url = %s", got)
	}
	if ct := mock.LastReq.Header.Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var sent models.ChatRequest
	if err := json.Unmarshal(mock.Requests[0], &sent); err != nil {
		t.Fatalf("request body is not JSON: %v", err)
	}
	if sent.SessionID != "abc123" || sent.Question != "What is the refund policy?" {
		t.Errorf("sent = %+v", sent)
	}
}

func TestAsk_ResponseVariants(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		status     int
		wantAnswer string
		wantErr    func(error) bool
	}{
		{
			name:       "missing answer field",
			body:       `{"top_chunks":[]}`,
			status:     200,
			wantAnswer: "",
		},
		{
			name:       "empty object",
			body:       `{}`,
			status:     200,
			wantAnswer: "",
		},
		{
			name:    "non-JSON body",
			body:    `Internal Server Error`,
			status:  200,
			wantErr: apierrors.IsParseError,
		},
		{
			name:    "null body",
			body:    `null`,
			status:  200,
			wantErr: apierrors.IsParseError,
		},
		{
			name:       "bad request with detail",
			body:       `{"detail":"Question cannot be empty."}`,
			status:     400,
			wantAnswer: "",
		},
		{
			name:       "missing store with detail",
			body:       `{"detail":"vector store not found. Run ragchat ingest first."}`,
			status:     500,
			wantAnswer: "",
		},
		{
			name:       "error status with answer",
			body:       `{"answer":"partial"}`,
			status:     503,
			wantAnswer: "partial",
		},
		{
			name:       "array body",
			body:       `[]`,
			status:     200,
			wantAnswer: "",
		},
		{
			name:       "string body",
			body:       `"x"`,
			status:     200,
			wantAnswer: "",
		},
		{
			name:    "server error without body",
			body:    ``,
			status:  502,
			wantErr: apierrors.IsParseError,
		},
		{
			name:    "server error with HTML body",
			body:    `<html>Bad Gateway</html>`,
			status:  502,
			wantErr: apierrors.IsParseError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, NewMockHttpClient([]byte(tt.body), tt.status))

			resp, err := client.Ask(context.Background(), "abc123", "q")
			if tt.wantErr != nil {
				if err == nil {
					t.Fatal("expected error")
				}
				if !tt.wantErr(err) {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Ask() error: %v", err)
			}
			if resp.Answer != tt.wantAnswer {
				t.Errorf("Answer = %q, want %q", resp.Answer, tt.wantAnswer)
			}
		})
	}
}

func TestAsk_Timeout(t *testing.T) {
	mock := &MockHttpClient{
		DoFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		},
	}
	client := newTestClient(t, mock, WithTimeout(20*time.Millisecond))

	start := time.Now()
	_, err := client.Ask(context.Background(), "abc123", "slow?")
	if !apierrors.IsTimeoutError(err) {
		t.Fatalf("expected timeout error, got %v", err)
	}
	if time.Since(start) > 2*time.Second {
		t.Error("timeout did not bound the request")
	}
}

func TestAsk_CallerCancellation(t *testing.T) {
	mock := &MockHttpClient{
		DoFunc: func(req *fhttp.Request) (*fhttp.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		},
	}
	client := newTestClient(t, mock)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Ask(ctx, "abc123", "cancelled")
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if apierrors.IsTimeoutError(err) {
		t.Error("cancellation must not be reported as timeout")
	}
	if !apierrors.IsNetworkError(err) {
		t.Errorf("expected network error, got %v", err)
	}
}

func TestParseChatResponse(t *testing.T) {
	resp, err := parseChatResponse([]byte(`{"answer": 42, "top_chunks": "not-a-list"}`))
	if err != nil {
		t.Fatalf("parseChatResponse() error: %v", err)
	}
	if resp.Answer != "42" {
		t.Errorf("Answer = %q", resp.Answer)
	}
	if len(resp.TopChunks) != 0 {
		t.Errorf("TopChunks = %+v", resp.TopChunks)
	}
}
