package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/ragchat/internal/errors"
	"github.com/diogo/ragchat/internal/models"
)

// Ask sends a question tied to sessionID and returns the service's answer.
// Any JSON reply is read regardless of status; a reply without an answer
// field yields an empty Answer. Invalid JSON and a null body are errors.
func (c *Client) Ask(ctx context.Context, sessionID, question string) (*models.ChatResponse, error) {
	payload, err := json.Marshal(models.ChatRequest{SessionID: sessionID, Question: question})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal chat request: %w", err)
	}

	status, body, err := c.send(ctx, http.MethodPost, models.EndpointChat, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		c.logger.Warn("chat request returned error status",
			zap.Int("status", status),
			zap.String("detail", gjson.GetBytes(body, "detail").String()))
	}

	resp, err := parseChatResponse(body)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("answer received",
		zap.String("session_id", sessionID),
		zap.Int("answer_len", len(resp.Answer)),
		zap.Int("chunks", len(resp.TopChunks)))

	return resp, nil
}

// parseChatResponse extracts the answer and retrieved chunks from body.
// JSON values other than objects carry no answer.
func parseChatResponse(body []byte) (*models.ChatResponse, error) {
	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", models.EndpointChat)
	}
	parsed := gjson.ParseBytes(body)
	if parsed.Type == gjson.Null {
		return nil, apierrors.NewParseError("chat response is null", models.EndpointChat)
	}
	if !parsed.IsObject() {
		return &models.ChatResponse{}, nil
	}

	out := &models.ChatResponse{
		Answer: parsed.Get("answer").String(),
	}

	chunks := parsed.Get("top_chunks")
	if !chunks.IsArray() {
		return out, nil
	}
	chunks.ForEach(func(_, chunk gjson.Result) bool {
		out.TopChunks = append(out.TopChunks, models.Chunk{
			ChunkID: chunk.Get("chunk_id").String(),
			Title:   chunk.Get("title").String(),
			Content: chunk.Get("content").String(),
			Score:   chunk.Get("score").Float(),
		})
		return true
	})

	return out, nil
}
