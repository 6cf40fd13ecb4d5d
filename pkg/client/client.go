// Package client is the typed HTTP client for the hardfind catalog search
// API: cascading constraint search, SKU lookup, and health.
//
//	c, err := client.New("http://localhost:8080", client.WithAPIKey("..."))
//	resp, err := c.Search(ctx, client.SearchRequest{Query: "6ft hdmi cable"})
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// Client talks to a hardfind API server.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errors.New("hardfind: base URL required")
	}

	cfg := &clientConfig{
		timeout:   defaultTimeout,
		userAgent: "hardfind-go-client",
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     cfg.apiKey,
		userAgent:  cfg.userAgent,
		httpClient: hc,
	}, nil
}

// Search runs a catalog search. Either req.Query or req.Constraints must be
// set.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var resp SearchResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/search", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetItem fetches one catalog record by SKU. An ambiguous prefix comes back
// as ErrItemNotFound with suggestions on the *APIError.
func (c *Client) GetItem(ctx context.Context, sku string) (*Item, error) {
	if strings.TrimSpace(sku) == "" {
		return nil, errors.New("hardfind: sku required")
	}
	var item Item
	path := "/api/v1/items/" + url.PathEscape(strings.TrimSpace(sku))
	if err := c.do(ctx, http.MethodGet, path, nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// Health reports server health. An unhealthy server answers 503 with the
// same report body, so the report is returned alongside ErrUnavailable then.
func (c *Client) Health(ctx context.Context) (*HealthReport, error) {
	httpResp, err := c.send(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = httpResp.Body.Close() }()

	var report HealthReport
	if err := json.NewDecoder(httpResp.Body).Decode(&report); err != nil {
		return nil, fmt.Errorf("hardfind: decode health response: %w", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return &report, fmt.Errorf("hardfind: status %s: %w", report.Status, ErrUnavailable)
	}
	return &report, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	httpResp, err := c.send(ctx, method, path, body)
	if err != nil {
		return err
	}
	defer func() { _ = httpResp.Body.Close() }()

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return apiErrorFrom(httpResp)
	}

	if err := json.NewDecoder(httpResp.Body).Decode(out); err != nil {
		return fmt.Errorf("hardfind: decode response: %w", err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("hardfind: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("hardfind: build request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("hardfind: %s %s: %w", method, path, err)
	}
	return resp, nil
}

// apiErrorFrom builds an *APIError from a non-2xx response. A body that is
// not the uniform error shape still yields a usable error.
func apiErrorFrom(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		apiErr.Message = resp.Status
		return apiErr
	}

	var body errorBody
	if jsonErr := json.Unmarshal(data, &body); jsonErr != nil || body.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return apiErr
	}

	apiErr.Code = body.Code
	apiErr.Message = body.Message
	apiErr.Suggestions = body.Suggestions
	return apiErr
}
