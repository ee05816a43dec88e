// Package models contains data types and constants shared by the ragchat client and service.
package models

import "strings"

// Endpoints served by the question-answering service
const (
	DefaultBaseURL  = "http://localhost:8000"
	EndpointSession = "/api/session"
	EndpointChat    = "/api/chat"
)

// SessionKey is the key-value storage key holding the session identifier
const SessionKey = "rag_session_id"

// OfflinePrefix marks a session identifier synthesized after a failed bootstrap
const OfflinePrefix = "offline-"

// Fixed transcript texts
const (
	Title             = "Production-Grade RAG Assistant"
	Greeting          = "Hi! Ask me anything about university policies."
	FallbackAnswer    = "I don't know."
	UnreachableAnswer = "I couldn't reach the server. Please try again."
	LoadingText       = "Loading response..."
)

// IsOfflineSession reports whether id was synthesized locally
func IsOfflineSession(id string) bool {
	return strings.HasPrefix(id, OfflinePrefix)
}

// BuildURL joins a base URL and an endpoint path
func BuildURL(base, endpoint string) string {
	return strings.TrimRight(base, "/") + endpoint
}
