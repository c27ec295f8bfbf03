// Package api is the HTTP adapter between the client stores and the
// school-records backend.
//
// # Overview
//
// A Client owns a fixed base URL and timeout. Every call goes through Send,
// which JSON-encodes the body (or streams a Payload such as Multipart),
// applies default headers, request interceptors and per-call options, and
// returns the raw Response. Callers decode with Response.Decode or read
// Response.Body directly when the call was made with AsBlob.
//
// # Error Handling
//
// No request is retried. Failures map to sentinel errors matched with
// errors.Is:
//
//   - ErrUnavailable: transport failure, timeout or cancellation.
//   - ErrStatus: any non-2xx response, returned as *StatusError.
//   - ErrUnauthorized: additionally matched by 401 and 403 responses.
//   - ErrMalformedResponse: the body does not fit the expected schema.
//
// # Concurrency
//
// Client is safe for concurrent use. Default headers are read once per
// request, so a header change affects only requests sent afterwards.
package api
