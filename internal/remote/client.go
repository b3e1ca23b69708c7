package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// Default client settings.
const (
	DefaultRequestTimeout = 15 * time.Second
	DefaultRateLimit      = 120 // requests per minute
)

// ClientConfig configures the row API client.
type ClientConfig struct {
	// BaseURL of the Glotian backend, e.g. https://api.glotian.app
	BaseURL string
	// AccessToken is the bearer token for the current session.
	AccessToken string
	// RequestTimeout bounds each individual call. Timeouts are classified
	// as retryable, never permanent.
	RequestTimeout time.Duration
	// RateLimit is the maximum requests per minute.
	RateLimit int
}

// Client implements Backend against the Glotian row API.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  oauth2.TokenSource
	limiter *rate.Limiter
	timeout time.Duration
}

// NewClient creates a row API client with bearer auth and rate limiting.
func NewClient(cfg ClientConfig) *Client {
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	rateLimit := cfg.RateLimit
	if rateLimit <= 0 {
		rateLimit = DefaultRateLimit
	}

	var tokens oauth2.TokenSource
	if cfg.AccessToken != "" {
		tokens = oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.AccessToken})
	}

	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(rateLimit)), rateLimit)

	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{},
		tokens:  tokens,
		limiter: limiter,
		timeout: timeout,
	}
}

// rowURL builds the resource URL for one row, addressed by id.
func (c *Client) rowURL(table, id string) string {
	return fmt.Sprintf("%s/rest/v1/%s?id=eq.%s", c.baseURL, table, url.QueryEscape(id))
}

// tableURL builds the collection URL for a table.
func (c *Client) tableURL(table string) string {
	return fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
}

// do performs one rate-limited, authenticated, time-bounded request.
func (c *Client) do(ctx context.Context, method, rawURL string, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token()
		if err != nil {
			return nil, fmt.Errorf("token source: %w", err)
		}
		token.SetAuthHeader(req)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, rawURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// fetchRows fetches the rows matching a row URL. The row API always
// answers collection queries with a JSON array.
func (c *Client) fetchRows(ctx context.Context, rawURL string) ([]json.RawMessage, error) {
	data, err := c.do(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("decode rows: %w", err)
	}
	return rows, nil
}

// FetchMeta returns the id and update timestamp of a row.
func (c *Client) FetchMeta(ctx context.Context, table, id string) (*RowMeta, error) {
	rows, err := c.fetchRows(ctx, c.rowURL(table, id)+"&select=id,updated_at")
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	var meta RowMeta
	if err := json.Unmarshal(rows[0], &meta); err != nil {
		return nil, fmt.Errorf("decode row meta: %w", err)
	}
	return &meta, nil
}

// Fetch returns the full row as JSON.
func (c *Client) Fetch(ctx context.Context, table, id string) (json.RawMessage, error) {
	rows, err := c.fetchRows(ctx, c.rowURL(table, id))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// Insert creates a row.
func (c *Client) Insert(ctx context.Context, table string, payload json.RawMessage) error {
	_, err := c.do(ctx, http.MethodPost, c.tableURL(table), payload)
	return err
}

// Update overwrites a row by id.
func (c *Client) Update(ctx context.Context, table, id string, payload json.RawMessage) error {
	_, err := c.do(ctx, http.MethodPatch, c.rowURL(table, id), payload)
	return err
}

// Delete removes a row by id.
func (c *Client) Delete(ctx context.Context, table, id string) error {
	_, err := c.do(ctx, http.MethodDelete, c.rowURL(table, id), nil)
	return err
}
