package models

// SessionResponse is the body of GET /api/session
type SessionResponse struct {
	SessionID string `json:"session_id"`
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	SessionID string `json:"session_id"`
	Question  string `json:"question"`
}

// Chunk is one retrieved context passage returned alongside an answer
type Chunk struct {
	ChunkID string  `json:"chunk_id"`
	Title   string  `json:"title"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// ChatResponse is the body returned by POST /api/chat
type ChatResponse struct {
	Answer    string  `json:"answer"`
	TopChunks []Chunk `json:"top_chunks"`
}

// ErrorResponse is the body returned by the service on failure
type ErrorResponse struct {
	Detail string `json:"detail"`
}
