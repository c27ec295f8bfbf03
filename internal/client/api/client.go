package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout applies when Options.Timeout is zero.
const DefaultTimeout = 5 * time.Second

// RequestInterceptor may modify or veto an outgoing request.
type RequestInterceptor func(req *http.Request) error

// ResponseInterceptor observes every exchange. resp is nil on transport
// failure; the returned error replaces err.
type ResponseInterceptor func(req *http.Request, resp *Response, err error) error

// Options configure a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	Transport http.RoundTripper
}

// Client sends requests to one backend.
type Client struct {
	baseURL string
	http    *http.Client

	mu         sync.RWMutex
	header     http.Header
	onRequest  []RequestInterceptor
	onResponse []ResponseInterceptor
}

// New validates the base URL and builds a Client.
func New(opts Options) (*Client, error) {
	u, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", opts.BaseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("base url %q: missing host", opts.BaseURL)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(u.String(), "/"),
		http:    &http.Client{Timeout: timeout, Transport: opts.Transport},
		header:  http.Header{},
	}, nil
}

// BaseURL returns the configured endpoint without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetDefaultHeader attaches a header to every subsequent request.
func (c *Client) SetDefaultHeader(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.header.Set(key, value)
}

// DeleteDefaultHeader stops attaching key.
func (c *Client) DeleteDefaultHeader(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.header.Del(key)
}

// DefaultHeader returns the current default value of key.
func (c *Client) DefaultHeader(key string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.header.Get(key)
}

// UseRequest registers interceptors run, in order, before each request.
func (c *Client) UseRequest(fns ...RequestInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onRequest = append(c.onRequest, fns...)
}

// UseResponse registers interceptors run, in order, after each exchange.
func (c *Client) UseResponse(fns ...ResponseInterceptor) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onResponse = append(c.onResponse, fns...)
}

// Send performs one request against path, relative to the base URL. A nil
// body sends no content. Non-2xx responses come back as *StatusError.
func (c *Client) Send(ctx context.Context, method, path string, body any, opts ...RequestOption) (*Response, error) {
	var ro requestOptions
	for _, opt := range opts {
		opt(&ro)
	}

	req, err := c.newRequest(ctx, method, path, body, ro)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	for k, v := range c.header {
		req.Header[k] = slices.Clone(v)
	}
	onRequest := slices.Clone(c.onRequest)
	onResponse := slices.Clone(c.onResponse)
	c.mu.RUnlock()

	for k, v := range ro.header {
		req.Header[k] = v
	}

	for _, fn := range onRequest {
		if err := fn(req); err != nil {
			return nil, fmt.Errorf("request interceptor: %w", err)
		}
	}

	resp, err := c.do(req)
	for _, fn := range onResponse {
		err = fn(req, resp, err)
	}
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any, ro requestOptions) (*http.Request, error) {
	target := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(ro.query) > 0 {
		target += "?" + ro.query.Encode()
	}

	var (
		reader      io.Reader
		contentType string
	)
	switch b := body.(type) {
	case nil:
	case Payload:
		r, ct, err := b.Encode()
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader, contentType = r, ct
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader, contentType = bytes.NewReader(data), "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if ro.blob {
		req.Header.Set("Accept", "application/octet-stream, */*")
	} else {
		req.Header.Set("Accept", "application/json, text/plain, */*")
	}

	return req, nil
}

func (c *Client) do(req *http.Request) (*Response, error) {
	httpResp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}

	resp := &Response{StatusCode: httpResp.StatusCode, Header: httpResp.Header, Body: body}
	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		return resp, newStatusError(httpResp.StatusCode, body)
	}
	return resp, nil
}

// IsUnavailable reports whether err is a transport-level failure.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrUnavailable)
}
