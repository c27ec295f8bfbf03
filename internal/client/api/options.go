package api

import (
	"net/http"
	"net/url"
)

// RequestOption adjusts a single Send call.
type RequestOption func(*requestOptions)

type requestOptions struct {
	header http.Header
	query  url.Values
	blob   bool
}

// WithHeader sets a header on this request only. It overrides defaults.
func WithHeader(key, value string) RequestOption {
	return func(o *requestOptions) {
		if o.header == nil {
			o.header = http.Header{}
		}
		o.header.Set(key, value)
	}
}

// WithQuery appends query parameters to the request URL.
func WithQuery(q url.Values) RequestOption {
	return func(o *requestOptions) {
		if o.query == nil {
			o.query = url.Values{}
		}
		for k, vs := range q {
			for _, v := range vs {
				o.query.Add(k, v)
			}
		}
	}
}

// AsBlob asks for a raw binary payload instead of structured data.
func AsBlob() RequestOption {
	return func(o *requestOptions) {
		o.blob = true
	}
}
