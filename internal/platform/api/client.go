// Package api implements the remote marketplace API boundary shared by the
// inventory and ledger stores.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"resty.dev/v3"
)

// DefaultTimeout bounds every request to the remote system.
const DefaultTimeout = 15 * time.Second

// TokenSource supplies the bearer credential attached to outgoing requests.
// An empty string means no credential is available.
type TokenSource interface {
	Token() string
}

// APIError describes a non-2xx response from the remote system.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: remote returned status %d", e.Status)
	}
	return fmt.Sprintf("api: remote returned status %d: %s", e.Status, e.Message)
}

// Config groups client settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// Client is the single request/response boundary to the remote system.
type Client struct {
	rc     *resty.Client
	tokens TokenSource
	logger *slog.Logger
}

// New builds a Client. tokens may be nil for unauthenticated use.
func New(cfg Config, tokens TokenSource, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rc := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(timeout)
	return &Client{rc: rc, tokens: tokens, logger: logger}
}

// Close releases transport resources.
func (c *Client) Close() error {
	return c.rc.Close()
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.rc.R().SetContext(ctx)
	if c.tokens != nil {
		if tok := c.tokens.Token(); tok != "" {
			req.SetAuthToken(tok)
		}
	}
	return req
}

// Get performs a GET and decodes the JSON response into out when non-nil.
func (c *Client) Get(ctx context.Context, path string, query map[string]string, out any) error {
	req := c.request(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	return c.finish("GET", path, resp, err, out)
}

// GetText performs a GET and returns the raw response body. Used for
// server-rendered exports where the payload is not JSON.
func (c *Client) GetText(ctx context.Context, path string, query map[string]string) (string, error) {
	req := c.request(ctx)
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	resp, err := req.Get(path)
	if err != nil {
		return "", fmt.Errorf("api: GET %s: %w", path, err)
	}
	if resp.IsError() {
		return "", c.errorFrom(resp)
	}
	return resp.String(), nil
}

// Post sends body as JSON and decodes the response into out when non-nil.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	resp, err := c.request(ctx).SetBody(body).Post(path)
	return c.finish("POST", path, resp, err, out)
}

// Put sends body as JSON and decodes the response into out when non-nil.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	resp, err := c.request(ctx).SetBody(body).Put(path)
	return c.finish("PUT", path, resp, err, out)
}

// Delete performs a DELETE and decodes the response into out when non-nil.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	resp, err := c.request(ctx).Delete(path)
	return c.finish("DELETE", path, resp, err, out)
}

// PostMultipart streams a multipart form. The content type is left to the
// transport so the boundary parameter is set correctly.
func (c *Client) PostMultipart(ctx context.Context, path string, fields map[string]string, fileField, fileName string, file io.Reader, out any) error {
	req := c.request(ctx)
	if len(fields) > 0 {
		req.SetMultipartFormData(fields)
	}
	req.SetFileReader(fileField, fileName, file)
	resp, err := req.Post(path)
	return c.finish("POST", path, resp, err, out)
}

func (c *Client) finish(method, path string, resp *resty.Response, err error, out any) error {
	if err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return c.errorFrom(resp)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Bytes(), out); err != nil {
		return fmt.Errorf("api: %s %s: decode response: %w", method, path, err)
	}
	return nil
}

func (c *Client) errorFrom(resp *resty.Response) error {
	body := resp.Bytes()
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		if payload.Message != "" {
			msg = payload.Message
		} else {
			msg = payload.Error
		}
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
		if len(msg) > 200 {
			msg = msg[:200]
		}
	}
	return &APIError{Status: resp.StatusCode(), Message: msg}
}
