// Package ormgen provides an HTTP client for the ormgen API.
package ormgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 90 * time.Second

// Client is the ormgen SDK entry point.
type Client struct {
	baseURL    string
	secret     string
	httpClient *http.Client
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("ormgen: base URL required")
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("ormgen: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("ormgen: base URL must be http or https, got %q", u.Scheme)
	}

	c := &Client{
		baseURL:    u.String(),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o.apply(c)
	}
	return c, nil
}

// Generate converts a natural-language recruiter query into an ORM expression.
func (c *Client) Generate(ctx context.Context, query string) (GenerateResult, error) {
	body, err := json.Marshal(generateRequest{Query: query})
	if err != nil {
		return GenerateResult{}, fmt.Errorf("ormgen: encode request: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/api/generate", bytes.NewReader(body))
	if err != nil {
		return GenerateResult{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	var resp generateResponse
	header, err := c.do(req, &resp)
	if err != nil {
		return GenerateResult{}, err
	}

	result := GenerateResult{ORM: resp.Orm}
	if v := header.Get("X-Generation-Tokens"); v != "" {
		_, _ = fmt.Sscanf(v, "%d", &result.TokensUsed)
	}
	return result, nil
}

// Usage fetches the token usage report for a period ("day", "month" or "total").
// An empty period defaults to "month".
func (c *Client) Usage(ctx context.Context, period string) (UsageReport, error) {
	path := "/api/usage"
	if period != "" {
		path += "?period=" + url.QueryEscape(period)
	}

	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return UsageReport{}, err
	}

	var resp UsageReport
	if _, err := c.do(req, &resp); err != nil {
		return UsageReport{}, err
	}
	return resp, nil
}

// Health reports the service health status.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/health", nil)
	if err != nil {
		return HealthReport{}, err
	}

	var resp HealthReport
	_, err = c.do(req, &resp)
	// 503 still carries a health body; surface it alongside the error.
	if err != nil && resp.Status == "" {
		return HealthReport{}, err
	}
	return resp, err
}

func (c *Client) newRequest(ctx context.Context, method, path string, body *bytes.Reader) (*http.Request, error) {
	var r *http.Request
	var err error
	if body == nil {
		r, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, http.NoBody)
	} else {
		r, err = http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	}
	if err != nil {
		return nil, fmt.Errorf("ormgen: build request: %w", err)
	}
	if c.secret != "" {
		r.Header.Set("Backend-Secret", c.secret)
	}
	return r, nil
}

// do executes the request and decodes the JSON body into out.
// Non-2xx responses are decoded into out as well (when possible) and
// converted into an *APIError.
func (c *Client) do(req *http.Request, out any) (http.Header, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("ormgen: %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.Header, fmt.Errorf("ormgen: read response: %w", err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out != nil {
			if err := json.Unmarshal(data, out); err != nil {
				return resp.Header, fmt.Errorf("ormgen: decode response: %w", err)
			}
		}
		return resp.Header, nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var errBody struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &errBody) == nil {
		apiErr.Code = errBody.Code
		apiErr.Message = errBody.Message
	}
	if out != nil {
		_ = json.Unmarshal(data, out)
	}
	return resp.Header, apiErr
}
