package api

import (
	"context"
	"sync"

	"github.com/diogo/ragchat/internal/models"
)

// MockClient is a mock implementation of ChatAPI for testing
type MockClient struct {
	mu sync.Mutex

	// Mock return values
	SessionID  string
	SessionErr error
	Response   *models.ChatResponse
	AskErr     error

	// AskFunc, when set, replaces the canned Response/AskErr
	AskFunc func(ctx context.Context, sessionID, question string) (*models.ChatResponse, error)

	// Gate, when non-nil, blocks Ask until a value is received or ctx ends
	Gate chan struct{}

	// Call counters/recorders
	SessionCalls  int
	AskCalls      int
	LastSessionID string
	LastQuestion  string
}

// CreateSession implements ChatAPI
func (m *MockClient) CreateSession(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SessionCalls++
	return m.SessionID, m.SessionErr
}

// Ask implements ChatAPI
func (m *MockClient) Ask(ctx context.Context, sessionID, question string) (*models.ChatResponse, error) {
	m.mu.Lock()
	m.AskCalls++
	m.LastSessionID = sessionID
	m.LastQuestion = question
	gate := m.Gate
	fn := m.AskFunc
	resp, err := m.Response, m.AskErr
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if fn != nil {
		return fn(ctx, sessionID, question)
	}
	return resp, err
}

// Calls returns the number of CreateSession and Ask calls so far
func (m *MockClient) Calls() (sessions, asks int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.SessionCalls, m.AskCalls
}

var _ ChatAPI = (*MockClient)(nil)
