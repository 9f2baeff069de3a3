package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ajramos/mailassist-tui/internal/services"
)

// Error is returned for every non-2xx response from the backend.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

// Error returns the server-supplied detail, falling back to the HTTP status
// text and finally to a generic message.
func (e *Error) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	if text := http.StatusText(e.StatusCode); text != "" {
		return text
	}
	return "Request failed"
}

// Unwrap maps well-known failures onto the service sentinels.
func (e *Error) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return services.ErrUnauthorized
	case e.StatusCode == http.StatusTooManyRequests:
		return services.ErrRateLimited
	case e.StatusCode == http.StatusBadGateway,
		e.StatusCode == http.StatusServiceUnavailable,
		e.StatusCode == http.StatusGatewayTimeout:
		return services.ErrServiceUnavailable
	case e.StatusCode == http.StatusNotFound && strings.HasPrefix(e.Path, "/api/email/"):
		return services.ErrEmailNotFound
	case strings.EqualFold(e.Detail, "not connected"):
		return services.ErrNotConnected
	}
	return nil
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	ok := errors.As(err, &apiErr)
	return apiErr, ok
}

// errorBody is the error envelope the backend uses. Detail is either a
// string or, for request validation failures, a list of {loc, msg, type}.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

type validationIssue struct {
	Msg string `json:"msg"`
}

// parseDetail extracts a human-readable detail from an error response body.
func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(eb.Detail, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var issues []validationIssue
	if err := json.Unmarshal(eb.Detail, &issues); err == nil {
		msgs := make([]string, 0, len(issues))
		for _, is := range issues {
			if m := strings.TrimSpace(is.Msg); m != "" {
				msgs = append(msgs, m)
			}
		}
		return strings.Join(msgs, "; ")
	}
	return ""
}
