package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/diogo/ragchat/internal/models"
	"github.com/diogo/ragchat/internal/rag"
)

// Error details returned to clients
const (
	detailEmptyQuestion = "Question cannot be empty."
	detailInvalidBody   = "Invalid request body."
	detailStoreMissing  = "vector store not found. Run ragchat ingest first."
	detailInternal      = "Failed to generate an answer."
)

type handler struct {
	answerer Answerer
	logger   *zap.Logger
}

func (h *handler) handleSession(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, h.logger, http.StatusOK, models.SessionResponse{
		SessionID: uuid.NewString(),
	})
}

func (h *handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, detailInvalidBody)
		return
	}

	question := strings.TrimSpace(req.Question)
	if question == "" {
		respondError(w, h.logger, http.StatusBadRequest, detailEmptyQuestion)
		return
	}

	answer, hits, err := h.answerer.Answer(r.Context(), question)
	if err != nil {
		h.logger.Error("chat failed",
			zap.String("session_id", req.SessionID),
			zap.Error(err))
		if errors.Is(err, rag.ErrStoreNotFound) {
			respondError(w, h.logger, http.StatusInternalServerError, detailStoreMissing)
			return
		}
		respondError(w, h.logger, http.StatusInternalServerError, detailInternal)
		return
	}

	chunks := make([]models.Chunk, len(hits))
	for i, hit := range hits {
		chunks[i] = models.Chunk{
			ChunkID: hit.ChunkID,
			Title:   hit.Title,
			Content: hit.Content,
			Score:   hit.Score,
		}
	}

	h.logger.Debug("chat answered",
		zap.String("session_id", req.SessionID),
		zap.Int("chunks", len(chunks)))
	respondJSON(w, h.logger, http.StatusOK, models.ChatResponse{
		Answer:    answer,
		TopChunks: chunks,
	})
}

func respondJSON(w http.ResponseWriter, logger *zap.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Warn("failed to encode response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, logger *zap.Logger, status int, detail string) {
	respondJSON(w, logger, status, models.ErrorResponse{Detail: detail})
}
