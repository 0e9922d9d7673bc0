package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"vibe_studio/internal/project"
)

const (
	generatePath = "/api/generate"
	writePath    = "/api/write"

	// RequestIDHeader carries the session ticket to the backend
	RequestIDHeader = "X-Request-ID"

	// maxErrorBody caps how much of a failed response is read
	maxErrorBody = 64 * 1024
)

// GenerateRequest is the body of a generation request
type GenerateRequest struct {
	Prompt string `json:"prompt"`
}

// GenerateResponse is the body of a successful generation
type GenerateResponse struct {
	Files []project.FileItem `json:"files"`
	Meta  map[string]any     `json:"meta,omitempty"`
}

// WriteRequest is the body of a write request
type WriteRequest struct {
	RootDir string             `json:"rootDir"`
	Files   []project.FileItem `json:"files"`
}

// WriteAck is whatever the backend acknowledged a write with
type WriteAck struct {
	Status  string `json:"status"`
	Written int    `json:"written"`
}

// Client talks to the code-generation backend
type Client struct {
	mu         sync.RWMutex
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds every exchange. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient = withTimeout(c.httpClient, d)
	}
}

// New creates a client for the backend at baseURL
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    normalizeBaseURL(baseURL),
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reconfigure points the client at a new backend. Safe to call while
// requests are in flight; they finish against the old settings.
func (c *Client) Reconfigure(baseURL string, timeout time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = normalizeBaseURL(baseURL)
	c.httpClient = withTimeout(c.httpClient, timeout)
}

// withTimeout copies hc with a new timeout, keeping its transport
func withTimeout(hc *http.Client, d time.Duration) *http.Client {
	next := *hc
	next.Timeout = d
	return &next
}

// BaseURL returns the backend origin in use
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// Generate asks the backend to turn a prompt into files.
// The returned order is the order the backend sent.
func (c *Client) Generate(ctx context.Context, prompt string) ([]project.FileItem, error) {
	var resp GenerateResponse
	if err := c.post(ctx, "generate", generatePath, GenerateRequest{Prompt: prompt}, &resp); err != nil {
		return nil, err
	}
	return resp.Files, nil
}

// Write asks the backend to persist files under rootDir
func (c *Client) Write(ctx context.Context, rootDir string, files []project.FileItem) (WriteAck, error) {
	var ack WriteAck
	req := WriteRequest{RootDir: rootDir, Files: files}
	if req.Files == nil {
		req.Files = []project.FileItem{}
	}
	if err := c.post(ctx, "write", writePath, req, &ack); err != nil {
		return WriteAck{}, err
	}
	return ack, nil
}

// post performs one JSON request/response exchange
func (c *Client) post(ctx context.Context, op, path string, body, out any) error {
	c.mu.RLock()
	url := c.baseURL + path
	hc := c.httpClient
	c.mu.RUnlock()

	payload, err := json.Marshal(body)
	if err != nil {
		return &RequestFailedError{Op: op, Cause: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &RequestFailedError{Op: op, Cause: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if id := RequestIDFromContext(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := hc.Do(req)
	if err != nil {
		return &RequestFailedError{Op: op, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &RequestFailedError{
			Op:     op,
			Status: resp.StatusCode,
			Detail: extractDetail(raw),
			Cause:  fmt.Errorf("request failed with status code %d", resp.StatusCode),
		}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &RequestFailedError{Op: op, Status: resp.StatusCode, Cause: fmt.Errorf("read response: %w", err)}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RequestFailedError{Op: op, Status: resp.StatusCode, Cause: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// normalizeBaseURL strips trailing slashes so paths can be appended
func normalizeBaseURL(u string) string {
	return strings.TrimRight(strings.TrimSpace(u), "/")
}
