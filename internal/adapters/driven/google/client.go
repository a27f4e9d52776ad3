package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"google.golang.org/api/googleapi"
)

// APIKeyHeader carries the API key on Gemini and Identity Toolkit requests.
const APIKeyHeader = "x-goog-api-key"

// Client posts JSON to Google REST endpoints.
type Client struct {
	http   *http.Client
	apiKey string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sends key in the x-goog-api-key header, keeping it out of URLs.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// NewClient returns a Client whose requests time out after timeout.
func NewClient(timeout time.Duration, opts ...Option) *Client {
	c := &Client{http: &http.Client{Timeout: timeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// PostJSON marshals body, posts it to url and decodes a 2xx response into out.
// Non-2xx responses are returned as *googleapi.Error.
func (c *Client) PostJSON(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	resp, err := c.do(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Get issues a GET to url and reports a non-2xx status as *googleapi.Error.
func (c *Client) Get(ctx context.Context, endpoint string) error {
	resp, err := c.do(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	return googleapi.CheckResponse(resp)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", redact(err))
	}
	if method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", redact(err))
	}
	return resp, nil
}

// redact drops the query string from transport errors so credentials passed
// as parameters never reach logs or the terminal.
func redact(err error) error {
	var uerr *url.Error
	if !errors.As(err, &uerr) {
		return err
	}
	u, perr := url.Parse(uerr.URL)
	if perr != nil {
		return &url.Error{Op: uerr.Op, URL: "(redacted)", Err: uerr.Err}
	}
	u.RawQuery = ""
	u.User = nil
	return &url.Error{Op: uerr.Op, URL: u.String(), Err: uerr.Err}
}
