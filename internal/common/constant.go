// Package common contains shared constants used across the school-records
// client components.
package common

const (
	// AuthorizationHeaderName is the HTTP header carrying the bearer token on
	// outbound requests.
	AuthorizationHeaderName = "Authorization"

	// BearerPrefix precedes the raw token in the Authorization header.
	BearerPrefix = "Bearer "

	// TokenStorageKey is the durable storage key holding the raw session token.
	TokenStorageKey = "authToken"

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"
)
