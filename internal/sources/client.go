// Package sources implements the provider-specific source clients that
// normalize CI build statuses into build records.
//
// Each client speaks one provider's wire format (Jenkins, TeamCity, Unity
// Cloud Build) and produces normalized records; everything downstream of a
// client is provider-agnostic. Per-item fetch failures become unretrieved
// records rather than errors, so a single flaky job can never crash a
// polling worker.
//
// This package is internal and not part of the public API.
package sources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const maxResponseBodySize = 1 << 20 // 1MB

const defaultRequestTimeout = 10 * time.Second

// connection pooling limits to prevent resource exhaustion when several
// workers share one client
const (
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultMaxConnsPerHost     = 10
	defaultIdleConnTimeout     = 60 * time.Second
)

// basicAuth carries opaque credentials for a provider. Either username and
// password, or a bare token used as the basic-auth username.
type basicAuth struct {
	username string
	password string
}

// httpClient is a small JSON-over-HTTP client shared by the source
// implementations. Timeouts are applied per-request via context rather
// than a global client timeout.
type httpClient struct {
	client  *http.Client
	timeout time.Duration
}

// newHTTPClient creates an [httpClient] with pooled connections.
func newHTTPClient() *httpClient {
	return &httpClient{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        defaultMaxIdleConns,
				MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
				MaxConnsPerHost:     defaultMaxConnsPerHost,
				IdleConnTimeout:     defaultIdleConnTimeout,
			},
		},
		timeout: defaultRequestTimeout,
	}
}

// getJSON performs a GET request and decodes the JSON response into v.
//
// Any non-200 status is an error. Response bodies are capped at 1MB. The
// response headers are returned so callers can read rate-limit hints.
func (c *httpClient) getJSON(ctx context.Context, url string, auth basicAuth, v any) (http.Header, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if auth.username != "" {
		req.SetBasicAuth(auth.username, auth.password)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return resp.Header, fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBodySize))
	if err != nil {
		return resp.Header, fmt.Errorf("failed to read response body: %w", err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return resp.Header, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp.Header, nil
}
