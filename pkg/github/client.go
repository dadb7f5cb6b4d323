// Package github provides a client for the repository overview endpoint
// that backs agency enrichment.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/ytheys/agency-radar/internal/model"
)

// Client defines the repository metadata operations.
type Client interface {
	// Overview fetches the repository overview for a repo identifier
	// such as "vercel/next.js".
	Overview(ctx context.Context, repo string) (*model.RepoOverview, error)
}

// Option configures the overview client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(base string) Option {
	return func(c *httpClient) {
		c.baseURL = base
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithRateLimit replaces the default request rate limiter.
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(limit, burst)
	}
}

type httpClient struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates an overview client for the given base URL. An empty
// base URL selects the production endpoint.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://ytheys.ossean.in",
		limiter: rate.NewLimiter(10, 10),
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// retryableStatusCode returns true if the HTTP status code should trigger a retry.
func retryableStatusCode(code int) bool {
	return code == http.StatusTooManyRequests ||
		code == http.StatusInternalServerError ||
		code == http.StatusBadGateway ||
		code == http.StatusServiceUnavailable
}

// retryDo executes the request with exponential backoff retries on
// transient failures (429, 500, 502, 503). Returns the body and status
// on success, or the last error after exhausting retries.
func (c *httpClient) retryDo(ctx context.Context, req *http.Request) ([]byte, int, error) {
	const maxAttempts = 3
	backoff := 500 * time.Millisecond

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, 0, eris.Wrap(err, "github: rate limiter wait")
		}

		resp, err := c.http.Do(req.Clone(ctx))
		if err != nil {
			lastErr = err
			if attempt < maxAttempts {
				select {
				case <-ctx.Done():
					return nil, 0, ctx.Err()
				case <-time.After(backoff):
				}
				backoff *= 2
				continue
			}
			return nil, 0, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if readErr != nil {
			return nil, resp.StatusCode, eris.Wrap(readErr, "github: read response body")
		}

		if retryableStatusCode(resp.StatusCode) && attempt < maxAttempts {
			lastErr = eris.Errorf("github: status %d: %s", resp.StatusCode, string(body))
			select {
			case <-ctx.Done():
				return nil, 0, ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
			continue
		}

		return body, resp.StatusCode, nil
	}

	return nil, 0, lastErr
}

func (c *httpClient) Overview(ctx context.Context, repo string) (*model.RepoOverview, error) {
	if repo == "" {
		return nil, eris.New("github: repo identifier is empty")
	}

	reqURL := fmt.Sprintf("%s/api/githubOverview?repo=%s", c.baseURL, url.QueryEscape(repo))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "github: create request")
	}
	req.Header.Set("Accept", "application/json")

	body, statusCode, err := c.retryDo(ctx, req)
	if err != nil {
		return nil, eris.Wrapf(err, "github: overview %s", repo)
	}

	if statusCode != http.StatusOK {
		return nil, eris.Errorf("github: overview %s: unexpected status %d", repo, statusCode)
	}

	var result model.RepoOverview
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrapf(err, "github: unmarshal overview %s", repo)
	}

	return &result, nil
}
