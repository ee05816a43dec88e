package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAPIError(t *testing.T) {
	err := NewAPIError(400, "/api/chat", "bad request")

	expected := "API error [400] at /api/chat: bad request"
	if err.Error() != expected {
		t.Errorf("Error() = %s, want %s", err.Error(), expected)
	}

	noStatus := NewAPIError(0, "/api/chat", "oops")
	if noStatus.Error() != "API error at /api/chat: oops" {
		t.Errorf("Error() = %s", noStatus.Error())
	}
}

func TestNetworkError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewNetworkError("/api/session", cause)

	if err.Error() != "network error at /api/session: connection refused" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, ErrNetwork) {
		t.Error("Expected NetworkError to match ErrNetwork")
	}
	if !errors.Is(err, cause) {
		t.Error("Expected NetworkError to unwrap to its cause")
	}
	if !IsNetworkError(fmt.Errorf("wrapped: %w", err)) {
		t.Error("Expected IsNetworkError through wrapping")
	}
}

func TestTimeoutError(t *testing.T) {
	err := NewTimeoutError("")
	if err.Error() != "request timed out" {
		t.Errorf("Error() = %s", err.Error())
	}

	err = NewTimeoutError("after 5s")
	if err.Error() != "request timed out: after 5s" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !IsTimeoutError(err) {
		t.Error("Expected IsTimeoutError")
	}
}

func TestParseError(t *testing.T) {
	err := NewParseError("not JSON", "/api/chat")

	if err.Error() != "parse error at /api/chat: not JSON" {
		t.Errorf("Error() = %s", err.Error())
	}
	if !errors.Is(err, ErrInvalidResponse) {
		t.Error("Expected ParseError to match ErrInvalidResponse")
	}
	if !IsParseError(err) {
		t.Error("Expected IsParseError")
	}
	if IsNetworkError(err) {
		t.Error("ParseError must not be a network error")
	}
}

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"api error", NewAPIError(503, "/api/chat", "down"), 503},
		{"wrapped api error", fmt.Errorf("ask: %w", NewAPIError(404, "/x", "missing")), 404},
		{"plain error", errors.New("nope"), 0},
		{"nil", nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetHTTPStatus(tt.err); got != tt.want {
				t.Errorf("GetHTTPStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetEndpoint(t *testing.T) {
	if got := GetEndpoint(NewAPIError(500, "/api/chat", "x")); got != "/api/chat" {
		t.Errorf("GetEndpoint(APIError) = %q", got)
	}
	if got := GetEndpoint(NewNetworkError("/api/session", errors.New("x"))); got != "/api/session" {
		t.Errorf("GetEndpoint(NetworkError) = %q", got)
	}
	if got := GetEndpoint(errors.New("x")); got != "" {
		t.Errorf("GetEndpoint(plain) = %q", got)
	}
}
