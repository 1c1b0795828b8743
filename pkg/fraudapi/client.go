// Package fraudapi provides a transport client for the fraud-scoring API.
// It performs round trips only: responses come back as status plus raw body
// and nothing is retried.
package fraudapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Endpoint paths.
const (
	PathModelInfo  = "/model-info"
	PathLogSummary = "/logs/summary"
	PathPredict    = "/predict"
)

// RequestIDHeader carries the client-generated correlation id.
const RequestIDHeader = "X-Request-ID"

// Client defines the scoring API operations.
type Client interface {
	// BaseURL returns the API address without a trailing slash.
	BaseURL() string
	// ModelInfo fetches GET /model-info.
	ModelInfo(ctx context.Context) (*Response, error)
	// LogSummary fetches GET /logs/summary.
	LogSummary(ctx context.Context) (*Response, error)
	// Predict posts body as JSON to /predict.
	Predict(ctx context.Context, body any) (*Response, error)
}

// Response is a completed round trip. Any status code is a Response; only
// transport failures are errors.
type Response struct {
	Endpoint   string
	StatusCode int
	Body       []byte
	RequestID  string
	Latency    time.Duration
}

// OK reports whether the backend answered 200.
func (r *Response) OK() bool {
	return r.StatusCode == http.StatusOK
}

// Option configures the client.
type Option func(*httpClient)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *httpClient) {
		c.userAgent = ua
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
}

// NewClient creates a client for the API at baseURL.
func NewClient(baseURL string, opts ...Option) Client {
	c := &httpClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: "fraud-cli",
		http: &http.Client{
			// Callers bound each call with a context deadline; this is a backstop.
			Timeout: 2 * time.Minute,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) BaseURL() string {
	return c.baseURL
}

func (c *httpClient) ModelInfo(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, PathModelInfo, nil)
}

func (c *httpClient) LogSummary(ctx context.Context) (*Response, error) {
	return c.do(ctx, http.MethodGet, PathLogSummary, nil)
}

func (c *httpClient) Predict(ctx context.Context, body any) (*Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, eris.Wrap(err, "fraudapi: marshal predict body")
	}
	return c.do(ctx, http.MethodPost, PathPredict, payload)
}

// do executes one request. Transport errors are returned unwrapped so the
// caller can tell a timeout from a refused connection.
func (c *httpClient) do(ctx context.Context, method, path string, payload []byte) (*Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, eris.Wrapf(err, "fraudapi: create %s request", path)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set(RequestIDHeader, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		Endpoint:   path,
		StatusCode: resp.StatusCode,
		Body:       data,
		RequestID:  requestID,
		Latency:    time.Since(start),
	}, nil
}
