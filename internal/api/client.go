// Package api implements the HTTP client for the question-answering service.
package api

import (
	"context"
	"fmt"
	"time"

	tls_client "github.com/bogdanfinn/tls-client"
	"github.com/bogdanfinn/tls-client/profiles"
	"go.uber.org/zap"

	"github.com/diogo/ragchat/internal/models"
)

// ChatAPI is the subset of the service the chat controller depends on
type ChatAPI interface {
	CreateSession(ctx context.Context) (string, error)
	Ask(ctx context.Context, sessionID, question string) (*models.ChatResponse, error)
}

// Client is the client for the question-answering service
type Client struct {
	httpClient tls_client.HttpClient
	baseURL    string
	timeout    time.Duration
	logger     *zap.Logger
}

// ClientOption is a function that configures the client
type ClientOption func(*Client)

// WithBaseURL sets the service base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		if baseURL != "" {
			c.baseURL = baseURL
		}
	}
}

// WithTimeout bounds each request. Zero leaves requests unbounded.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.timeout = timeout
	}
}

// WithHTTPClient replaces the underlying transport
func WithHTTPClient(httpClient tls_client.HttpClient) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the logger used for request diagnostics
func WithLogger(logger *zap.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a new Client
func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{
		baseURL: models.DefaultBaseURL,
		logger:  zap.NewNop(),
	}

	for _, opt := range opts {
		opt(client)
	}

	if client.httpClient == nil {
		// Deadlines are applied per request through the context, so the
		// transport itself carries no timeout.
		options := []tls_client.HttpClientOption{
			tls_client.WithTimeoutSeconds(0),
			tls_client.WithClientProfile(profiles.Chrome_120),
			tls_client.WithNotFollowRedirects(),
		}

		httpClient, err := tls_client.NewHttpClient(tls_client.NewNoopLogger(), options...)
		if err != nil {
			return nil, fmt.Errorf("failed to create HTTP client: %w", err)
		}
		client.httpClient = httpClient
	}

	return client, nil
}

// BaseURL returns the configured service base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Timeout returns the per-request timeout, zero when unbounded
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Close releases idle connections held by the transport
func (c *Client) Close() {
	if c.httpClient != nil {
		c.httpClient.CloseIdleConnections()
	}
}

// requestContext derives the context for a single request
func (c *Client) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}

var _ ChatAPI = (*Client)(nil)
