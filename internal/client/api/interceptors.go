package api

import (
	"net/http"

	"github.com/dmitrijs2005/schoolrecords/internal/common"
	"github.com/dmitrijs2005/schoolrecords/internal/logging"
	"github.com/google/uuid"
)

// RequestID tags each request with a random X-Request-ID unless the caller
// already set one.
func RequestID() RequestInterceptor {
	return func(req *http.Request) error {
		if req.Header.Get(common.RequestIDHeaderName) == "" {
			req.Header.Set(common.RequestIDHeaderName, uuid.NewString())
		}
		return nil
	}
}

// LogExchanges logs each request outcome at debug level, failures at warn.
func LogExchanges(logger logging.Logger) ResponseInterceptor {
	return func(req *http.Request, resp *Response, err error) error {
		ctx := req.Context()
		args := []any{
			"method", req.Method,
			"path", req.URL.Path,
			"request_id", req.Header.Get(common.RequestIDHeaderName),
		}
		if resp != nil {
			args = append(args, "status", resp.StatusCode, "bytes", len(resp.Body))
		}
		if err != nil {
			logger.Warn(ctx, "request failed", append(args, "error", err)...)
			return err
		}
		logger.Debug(ctx, "request completed", args...)
		return nil
	}
}
