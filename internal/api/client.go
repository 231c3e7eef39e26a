// Package api provides an HTTP client for the Stripe REST API, used by the
// connection probe.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
)

// DefaultBaseURL is the public Stripe API endpoint.
const DefaultBaseURL = "https://api.stripe.com"

// Client is an authenticated HTTP client for the Stripe API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// New creates a Client that sends key as a bearer token on every request.
// Request and response traces are logged at debug level on logger; a nil
// logger uses slog.Default.
func New(baseURL, key string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	transport := &oauth2.Transport{
		Source: oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: key,
			TokenType:   "Bearer",
		}),
		Base: http.DefaultTransport,
	}
	return &Client{
		baseURL: baseURL,
		logger:  logger,
		httpClient: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

// Get performs an authenticated GET request and decodes the JSON response into dst.
func (c *Client) Get(ctx context.Context, path string, query url.Values, dst any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	return c.do(req, dst)
}

// do executes the request and decodes the response body into dst (if non-nil).
// Non-2xx responses are returned as *APIError.
func (c *Client) do(req *http.Request, dst any) error {
	c.logger.Debug("stripe request", "method", req.Method, "url", req.URL.String())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if c.logger.Enabled(req.Context(), slog.LevelDebug) {
		var buf bytes.Buffer
		if json.Indent(&buf, body, "", "  ") != nil {
			buf.Reset()
			buf.Write(body)
		}
		c.logger.Debug("stripe response", "status", resp.Status, "body", buf.String())
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newAPIError(resp.StatusCode, body)
	}

	if dst != nil {
		if err := json.Unmarshal(body, dst); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}
