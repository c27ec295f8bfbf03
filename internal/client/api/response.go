package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// Response is a fully read 2xx response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Decode unmarshals the JSON body into v.
func (r *Response) Decode(v any) error {
	if len(bytes.TrimSpace(r.Body)) == 0 {
		return fmt.Errorf("%w: empty body", ErrMalformedResponse)
	}
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

// Message returns a result message. The backend sends these either as a
// JSON string or as plain text.
func (r *Response) Message() string {
	var s string
	if err := json.Unmarshal(r.Body, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(r.Body))
}

// DecodeJSON is a typed shorthand for Response.Decode.
func DecodeJSON[T any](r *Response) (T, error) {
	var v T
	err := r.Decode(&v)
	return v, err
}
