// Package client provides a client for the commit analysis service API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sergeknystautas/commitdetective/internal/api/contracts"
)

// DefaultEndpoint is the default analysis service endpoint.
const DefaultEndpoint = "http://localhost:8000"

// RequestIDHeader carries the per-call correlation ID.
const RequestIDHeader = "X-Request-ID"

// maxErrorBody bounds how much of an error response is read.
const maxErrorBody = 64 << 10

// Client is an analysis service API client.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *log.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets a transport deadline for every call. Zero means none.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// WithLogger sets the logger. A nil logger discards output.
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a new client for the given endpoint.
// If endpoint is empty, DefaultEndpoint is used.
func NewClient(endpoint string, opts ...Option) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	endpoint = strings.TrimRight(endpoint, "/")

	c := &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: 0, // No timeout unless configured - callers use context
		},
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Analyze sends an analyze request and returns the candidate commits in the
// order the service ranked them.
func (c *Client) Analyze(ctx context.Context, req contracts.AnalyzeRequest) ([]contracts.CommitCandidate, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var result []contracts.CommitCandidate
	if err := c.do(ctx, http.MethodPost, "/api/analyze", body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// Health queries the service health endpoint.
func (c *Client) Health(ctx context.Context) (*contracts.HealthResponse, error) {
	var result contracts.HealthResponse
	if err := c.do(ctx, http.MethodGet, "/api/health", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetEndpoint returns the configured endpoint.
func (c *Client) GetEndpoint() string {
	return c.endpoint
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	requestID := uuid.NewString()
	logger := c.logger.With("request_id", requestID, "method", method, "path", path)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, c.endpoint+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(RequestIDHeader, requestID)

	logger.Debug("sending request", "bytes", len(body))
	startTime := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Warn("request failed", "elapsed", time.Since(startTime), "err", err)
		return &TransportError{Op: "send", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		svcErr := &ServiceError{
			StatusCode: resp.StatusCode,
			Detail:     parseDetail(respBody),
			Body:       string(respBody),
		}
		logger.Warn("service error", "status", resp.StatusCode, "elapsed", time.Since(startTime), "detail", svcErr.Detail)
		return svcErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		logger.Warn("undecodable response", "status", resp.StatusCode, "err", err)
		return &TransportError{Op: "decode", Err: err}
	}

	logger.Debug("request complete", "status", resp.StatusCode, "elapsed", time.Since(startTime))
	return nil
}

// parseDetail extracts a string detail from an error body. Non-string
// details (such as validation error lists) are ignored.
func parseDetail(body []byte) string {
	var raw struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &raw); err != nil || len(raw.Detail) == 0 {
		return ""
	}
	var detail string
	if err := json.Unmarshal(raw.Detail, &detail); err != nil {
		return ""
	}
	return detail
}
