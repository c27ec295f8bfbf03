package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	ErrUnavailable       = errors.New("server unavailable")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrStatus            = errors.New("unexpected response status")
	ErrMalformedResponse = errors.New("malformed response")
)

// maxTextMessage bounds how much of a non-JSON error body becomes the message.
const maxTextMessage = 512

// StatusError is returned for every non-2xx response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server responded %d: %s", e.Code, e.Message)
}

func (e *StatusError) Is(target error) bool {
	switch target {
	case ErrStatus:
		return true
	case ErrUnauthorized:
		return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
	}
	return false
}

// StatusCode extracts the HTTP status from err if it carries one.
func StatusCode(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}

func newStatusError(code int, body []byte) *StatusError {
	return &StatusError{Code: code, Message: errorMessage(code, body)}
}

// errorMessage pulls a human-readable message out of an error body. The
// backend answers either with a JSON object carrying "message"/"error", a
// JSON string, or plain text.
func errorMessage(code int, body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}

	var s string
	if err := json.Unmarshal(body, &s); err == nil && s != "" {
		return s
	}

	text := strings.TrimSpace(string(body))
	if text != "" && len(text) <= maxTextMessage && !strings.HasPrefix(text, "{") {
		return text
	}

	return http.StatusText(code)
}
