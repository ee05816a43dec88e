package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	http "github.com/bogdanfinn/fhttp"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	apierrors "github.com/diogo/ragchat/internal/errors"
	"github.com/diogo/ragchat/internal/models"
)

// maxBodySize caps how much of a response body is read
const maxBodySize = 1 << 20

// CreateSession requests a new session identifier from the service
func (c *Client) CreateSession(ctx context.Context) (string, error) {
	body, err := c.do(ctx, http.MethodGet, models.EndpointSession, nil)
	if err != nil {
		return "", err
	}

	parsed := gjson.ParseBytes(body)
	if !parsed.IsObject() {
		return "", apierrors.NewParseError("session response is not a JSON object", models.EndpointSession)
	}

	sessionID := strings.TrimSpace(parsed.Get("session_id").String())
	if sessionID == "" {
		return "", apierrors.NewParseError("session response has no session_id", models.EndpointSession)
	}

	c.logger.Debug("session created", zap.String("session_id", sessionID))
	return sessionID, nil
}

// do performs a request against endpoint and returns the body of a 2xx
// response that is valid JSON.
func (c *Client) do(ctx context.Context, method, endpoint string, payload io.Reader) ([]byte, error) {
	status, body, err := c.send(ctx, method, endpoint, payload)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		message := gjson.GetBytes(body, "detail").String()
		if message == "" {
			message = http.StatusText(status)
		}
		return nil, apierrors.NewAPIError(status, endpoint, message)
	}

	if !gjson.ValidBytes(body) {
		return nil, apierrors.NewParseError("response is not valid JSON", endpoint)
	}

	return body, nil
}

// send performs a request against endpoint and returns the status code and
// body. Only transport failures and timeouts are errors.
func (c *Client) send(ctx context.Context, method, endpoint string, payload io.Reader) (int, []byte, error) {
	ctx, cancel := c.requestContext(ctx)
	defer cancel()

	url := models.BuildURL(c.baseURL, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("sending request", zap.String("method", method), zap.String("url", url))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, nil, apierrors.NewTimeoutError(fmt.Sprintf("%s after %s", endpoint, c.timeout))
		}
		return 0, nil, apierrors.NewNetworkError(endpoint, err)
	}
	defer func() {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
	}()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return 0, nil, apierrors.NewTimeoutError(fmt.Sprintf("%s after %s", endpoint, c.timeout))
		}
		return 0, nil, apierrors.NewNetworkError(endpoint, err)
	}

	c.logger.Debug("received response",
		zap.String("url", url),
		zap.Int("status", resp.StatusCode),
		zap.Int("bytes", len(body)))

	return resp.StatusCode, body, nil
}
