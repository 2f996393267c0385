// Package client talks to a bookkeeping server over its JSON HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cleared-dev/tally/internal/buildinfo"
	"github.com/cleared-dev/tally/internal/model"
)

// RequestIDHeader carries a per-request identifier for server-side log
// correlation.
const RequestIDHeader = "X-Request-Id"

// Client is an HTTP client for the v1 API. It keeps the session cookie.
type Client struct {
	base   *url.URL
	http   *http.Client
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Jar is used for
// the session cookie if set.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client for the server at baseURL.
func New(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("server URL %q must be http or https", baseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}
	c := &Client{
		base:   base,
		http:   &http.Client{Timeout: timeout, Jar: jar},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// request describes one API call.
type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
}

func jsonRequest(method, path string, v any) (request, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return request{}, model.ClientError("encoding request: %v", err)
	}
	return request{method: method, path: path, body: bytes.NewReader(data), contentType: "application/json"}, nil
}

// do performs req and decodes the reply into out. A reply carrying an error
// envelope is returned as *model.Error; anything that prevents reading a
// reply is a Request Failed error.
func (c *Client) do(ctx context.Context, req request, out any) error {
	u := c.base.JoinPath(req.path)
	if strings.HasSuffix(req.path, "/") && !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if req.query != nil {
		u.RawQuery = req.query.Encode()
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, u.String(), req.body)
	if err != nil {
		return model.ClientError("building request: %v", err)
	}
	if req.contentType != "" {
		httpReq.Header.Set("Content-Type", req.contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", buildinfo.UserAgent())
	id := uuid.NewString()
	httpReq.Header.Set(RequestIDHeader, id)

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug("request failed", "id", id, "method", req.method, "path", req.path, "error", err)
		return model.RequestFailed(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.RequestFailed(err)
	}
	c.logger.Debug("request done", "id", id, "method", req.method, "path", req.path,
		"status", resp.StatusCode, "duration", time.Since(start))

	return decodeReply(resp.StatusCode, data, out)
}

func decodeReply(status int, data []byte, out any) error {
	var envelope model.Error
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &envelope); err == nil && envelope.IsError() {
			return &envelope
		}
	}
	if status < 200 || status > 299 {
		return model.RequestFailed(errors.New(http.StatusText(status)))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return model.RequestFailed(fmt.Errorf("decoding reply: %w", err))
	}
	return nil
}
