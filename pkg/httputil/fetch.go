package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTTL is how long fetched responses stay fresh.
const DefaultTTL = 1 * time.Hour

// maxBodySize bounds how much of a response body is read (32 MiB). Feature
// collections beyond that are almost certainly a misconfigured endpoint.
const maxBodySize = 32 << 20

// Client fetches remote input data with caching and retry.
type Client struct {
	http  *http.Client
	cache *Cache
}

// NewClient creates a fetcher. If cache is nil, responses are not cached.
func NewClient(cache *Cache) *Client {
	return &Client{
		http:  &http.Client{Timeout: 30 * time.Second},
		cache: cache,
	}
}

// Fetch retrieves the body at url, consulting the cache first. Transient
// failures (network errors, 5xx responses) are retried with backoff; 4xx
// responses fail immediately.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		if data, hit, err := c.cache.Get(url); err == nil && hit {
			return data, nil
		}
	}

	var body []byte
	err := RetryWithBackoff(ctx, func() error {
		var err error
		body, err = c.fetchOnce(ctx, url)
		return err
	})
	if err != nil {
		return nil, err
	}

	if c.cache != nil {
		_ = c.cache.Set(url, body)
	}
	return body, nil
}

func (c *Client) fetchOnce(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &RetryableError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return nil, &RetryableError{Err: fmt.Errorf("GET %s: %s", url, resp.Status)}
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: %s", url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, &RetryableError{Err: err}
	}
	return body, nil
}
