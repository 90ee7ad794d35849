// Package apiclient is the JSON over HTTP transport shared by the
// Ollama and OpenAI-compatible adapters.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// StatusError is a non-2xx reply. Message is the provider's error text
// when the body carries one, otherwise the raw body.
type StatusError struct {
	Provider string
	Status   int
	Message  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s error (status %d): %s", e.Provider, e.Status, e.Message)
}

// IsStatus reports whether err is a StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == code
}

// Client sends JSON requests below a base URL.
type Client struct {
	provider string
	baseURL  string
	http     *http.Client
	header   http.Header
}

// Option configures a Client.
type Option func(*Client)

// WithBearer authenticates every request with token.
func WithBearer(token string) Option {
	return func(c *Client) { c.header.Set("Authorization", "Bearer "+token) }
}

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for provider, used as the error prefix.
func New(provider, baseURL string, timeout time.Duration, opts ...Option) *Client {
	c := &Client{
		provider: provider,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: timeout},
		header:   http.Header{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the URL requests are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Post sends in as JSON and decodes the reply into out.
func (c *Client) Post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, bytes.NewReader(body), out)
}

// Get decodes the reply into out. A nil out only checks the status.
func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, http.NoBody, out)
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	for k, v := range c.header {
		req.Header[k] = v
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: send request: %w", c.provider, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", c.provider, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Provider: c.provider, Status: resp.StatusCode, Message: errorMessage(data)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.provider, err)
	}
	return nil
}

// errorMessage pulls the message out of {"error":"..."} (Ollama) or
// {"error":{"message":"..."}} (OpenAI) bodies.
func errorMessage(body []byte) string {
	var wrapped struct {
		Error json.RawMessage `json:"error"`
	}
	if json.Unmarshal(body, &wrapped) == nil && len(wrapped.Error) > 0 {
		var text string
		if json.Unmarshal(wrapped.Error, &text) == nil && text != "" {
			return text
		}
		var obj struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(wrapped.Error, &obj) == nil && obj.Message != "" {
			return obj.Message
		}
	}
	return strings.TrimSpace(string(body))
}
